package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type localConfig struct {
	Dir string `json:"dir"`
}

type localSource struct {
	dir string
}

func init() {
	Register("local", createLocalSource)
}

func createLocalSource(args interface{}) (Source, error) {
	config := &localConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	if config.Dir == "" {
		return nil, fmt.Errorf("local corpus dir is required")
	}
	return &localSource{dir: config.Dir}, nil
}

// NewLocalSource reads corpus files from dir.
func NewLocalSource(dir string) Source {
	return &localSource{dir: dir}
}

func (s *localSource) Type() string {
	return "local"
}

func (s *localSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	_ = ctx
	if name == "" || strings.Contains(name, "..") {
		return nil, fmt.Errorf("invalid corpus file name: %q", name)
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return f, nil
}
