package ai

import (
	"context"
	"net/http"
	"strings"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

type openrouterConfig struct {
	APIKey      string `json:"api_key"`
	BaseURL     string `json:"base_url"`
	Model       string `json:"model"`
	VisionModel string `json:"vision_model"`
	HTTPReferer string `json:"http_referer"`
	XTitle      string `json:"x_title"`
}

// headerTransport adds the attribution headers openrouter ranks apps by.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		clone.Header.Set(k, v)
	}
	return t.base.RoundTrip(clone)
}

func createOpenRouterFactory(args interface{}) (IProvider, error) {
	cfg := &openrouterConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	headers := map[string]string{}
	if cfg.HTTPReferer != "" {
		headers["HTTP-Referer"] = cfg.HTTPReferer
	}
	if cfg.XTitle != "" {
		headers["X-Title"] = cfg.XTitle
	}
	var client *http.Client
	if len(headers) > 0 {
		client = &http.Client{Transport: &headerTransport{base: http.DefaultTransport, headers: headers}}
	}
	p := newOpenAIProvider("openrouter", &openAIConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     baseURL,
		Model:       cfg.Model,
		VisionModel: cfg.VisionModel,
	}, client)
	return &openrouterProvider{inner: p}, nil
}

// openrouterProvider speaks the openai wire format but has no speech endpoint.
type openrouterProvider struct {
	inner *openAIProvider
}

func (p *openrouterProvider) Name() string {
	return "openrouter"
}

func (p *openrouterProvider) Complete(ctx context.Context, req *Request) (string, error) {
	return p.inner.Complete(ctx, req)
}

func init() {
	Register("openrouter", createOpenRouterFactory)
}
