package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type openAIConfig struct {
	APIKey      string `json:"api_key"`
	BaseURL     string `json:"base_url"`
	Model       string `json:"model"`
	VisionModel string `json:"vision_model"`
}

type openAIProvider struct {
	name        string
	client      *openai.Client
	apiKey      string
	model       string
	visionModel string
}

func newOpenAIProvider(name string, cfg *openAIConfig, httpClient *http.Client) *openAIProvider {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	clientCfg := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	clientCfg.BaseURL = strings.TrimRight(baseURL, "/")
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}
	return &openAIProvider{
		name:        name,
		client:      openai.NewClientWithConfig(clientCfg),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
	}
}

func (p *openAIProvider) Name() string {
	return p.name
}

func (p *openAIProvider) Complete(ctx context.Context, req *Request) (string, error) {
	if p.apiKey == "" {
		return "", ErrUnavailable
	}
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.User}
	if req.Image != nil && len(req.Image.Data) > 0 {
		dataURL := fmt.Sprintf("data:%s;base64,%s", req.Image.MIMEType, base64.StdEncoding.EncodeToString(req.Image.Data))
		user = openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.User},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailHigh},
				},
			},
		}
	}
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, user)
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       pickModel(req.Model, p.model, p.visionModel, req.Image != nil),
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response empty")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *openAIProvider) Speak(ctx context.Context, model string, voice string, text string) ([]byte, error) {
	if p.apiKey == "" {
		return nil, ErrUnavailable
	}
	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()
	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech audio: %w", err)
	}
	return audio, nil
}

func createOpenAIFactory(args interface{}) (IProvider, error) {
	cfg := &openAIConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	return newOpenAIProvider("openai", cfg, nil), nil
}

func init() {
	Register("openai", createOpenAIFactory)
}
