package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	appErr "github.com/xxxsen/moneya/internal/pkg/errors"
)

// ErrUnavailable reports a provider that cannot serve requests, usually
// because no api key was configured.
var ErrUnavailable = appErr.ErrUnavailable

type Image struct {
	MIMEType string
	Data     []byte
}

// Request is one completion call: a system instruction, one user turn and an
// optional image for vision capable models.
type Request struct {
	Model       string
	System      string
	User        string
	Image       *Image
	MaxTokens   int
	Temperature float32
}

type IProvider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (string, error)
}

type ISpeaker interface {
	Speak(ctx context.Context, model string, voice string, text string) ([]byte, error)
}

type ICompleter interface {
	Complete(ctx context.Context, req *Request) (string, error)
}

type ProviderFactory func(args interface{}) (IProvider, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]ProviderFactory{}
)

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai provider type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}

// pickModel lets a provider pin its own model names, since a gemini entry
// cannot serve a gpt model id.
func pickModel(requested, chat, vision string, hasImage bool) string {
	if hasImage && vision != "" {
		return vision
	}
	if chat != "" {
		return chat
	}
	return requested
}
