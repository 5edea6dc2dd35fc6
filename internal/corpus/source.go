package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrNotExist is returned by a Source when the named corpus file is absent.
var ErrNotExist = errors.New("corpus file not exist")

type Source interface {
	Type() string
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

type Factory func(args interface{}) (Source, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func NewSource(typ string, args interface{}) (Source, error) {
	key := strings.ToLower(strings.TrimSpace(typ))
	if key == "" {
		return nil, fmt.Errorf("corpus.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported corpus source: %s", typ)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("corpus source config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode corpus source config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode corpus source config: %w", err)
	}
	return nil
}
