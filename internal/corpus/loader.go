package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/moneya/internal/model"
	"go.uber.org/zap"
)

const maxChunkFileSize = 64 * 1024 * 1024

// Load reads files from src in order and concatenates their chunks. A file
// that is missing, unreadable or malformed is logged and skipped.
func Load(ctx context.Context, src Source, files []string) *Corpus {
	logger := logutil.GetLogger(ctx).With(zap.String("source_type", src.Type()))
	all := make([]model.Chunk, 0, 256)
	for _, name := range files {
		chunks, err := loadFile(ctx, src, name)
		if err != nil {
			if errors.Is(err, ErrNotExist) {
				logger.Debug("corpus file not found, skip", zap.String("file", name))
				continue
			}
			logger.Warn("load corpus file failed, skip", zap.String("file", name), zap.Error(err))
			continue
		}
		logger.Info("corpus file loaded", zap.String("file", name), zap.Int("chunks", len(chunks)))
		all = append(all, chunks...)
	}
	for _, item := range countByBook(all) {
		logger.Info("corpus book stats", zap.String("book", item.book), zap.Int("chunks", item.count))
	}
	logger.Info("corpus loaded", zap.Int("total", len(all)), zap.Int("files", len(files)))
	return NewCorpus(all)
}

func loadFile(ctx context.Context, src Source, name string) ([]model.Chunk, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxChunkFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(data) > maxChunkFileSize {
		return nil, fmt.Errorf("file exceeds %d bytes", maxChunkFileSize)
	}
	if err := validateChunkFile(data); err != nil {
		return nil, err
	}
	var raw []model.Chunk
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	chunks := make([]model.Chunk, 0, len(raw))
	dropped := 0
	for _, c := range raw {
		if strings.TrimSpace(c.Content) == "" {
			dropped++
			continue
		}
		chunks = append(chunks, c)
	}
	if dropped > 0 {
		logutil.GetLogger(ctx).Debug("drop chunks without content",
			zap.String("file", name), zap.Int("dropped", dropped))
	}
	return chunks, nil
}

type bookCount struct {
	book  string
	count int
}

func countByBook(chunks []model.Chunk) []bookCount {
	counts := make(map[string]int)
	for _, c := range chunks {
		book := c.Book
		if book == "" {
			book = "unknown"
		}
		counts[book]++
	}
	out := make([]bookCount, 0, len(counts))
	for book, n := range counts {
		out = append(out, bookCount{book: book, count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].book < out[j].book })
	return out
}
