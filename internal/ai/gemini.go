package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type geminiConfig struct {
	APIKey      string `json:"api_key"`
	Model       string `json:"model"`
	VisionModel string `json:"vision_model"`
}

type geminiProvider struct {
	apiKey      string
	model       string
	visionModel string
}

func (p *geminiProvider) Name() string {
	return "gemini"
}

func (p *geminiProvider) Complete(ctx context.Context, req *Request) (string, error) {
	if p.apiKey == "" {
		return "", ErrUnavailable
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", err
	}
	parts := []*genai.Part{{Text: req.User}}
	if req.Image != nil && len(req.Image.Data) > 0 {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: req.Image.MIMEType,
			Data:     req.Image.Data,
		}})
	}
	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(req.Temperature)
	}
	resp, err := client.Models.GenerateContent(
		ctx,
		pickModel(req.Model, p.model, p.visionModel, req.Image != nil),
		[]*genai.Content{{Role: genai.RoleUser, Parts: parts}},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func createGeminiFactory(args interface{}) (IProvider, error) {
	cfg := &geminiConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &geminiProvider{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       model,
		visionModel: strings.TrimSpace(cfg.VisionModel),
	}, nil
}

func init() {
	Register("gemini", createGeminiFactory)
}
