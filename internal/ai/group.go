package ai

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type ProviderEntry struct {
	Name     string
	Provider IProvider
}

type groupCompleter struct {
	items []ProviderEntry
}

// NewGroupCompleter tries each provider in order until one succeeds.
func NewGroupCompleter(items []ProviderEntry) ICompleter {
	if len(items) == 0 {
		return nil
	}
	return &groupCompleter{items: items}
}

func (g *groupCompleter) Complete(ctx context.Context, req *Request) (string, error) {
	var lastErr error
	for i, item := range g.items {
		if item.Provider == nil {
			continue
		}
		res, err := item.Provider.Complete(ctx, req)
		if err == nil {
			return res, nil
		}
		lastErr = err
		logutil.GetLogger(ctx).Warn("completion provider failed", zap.Int("index", i), zap.String("name", item.Name), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		return "", fmt.Errorf("completion provider not configured: %w", ErrUnavailable)
	}
	return "", lastErr
}

// FirstSpeaker returns the first provider that can synthesize speech.
func FirstSpeaker(items []ProviderEntry) ISpeaker {
	for _, item := range items {
		if sp, ok := item.Provider.(ISpeaker); ok {
			return sp
		}
	}
	return nil
}
