package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/xxxsen/moneya/internal/config"
)

const previewRunes = 160

func runSearch(ctx context.Context, cfg *config.Config, query string, limit int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	searcher, err := loadSearcher(ctx, cfg)
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = 5
	}
	results := searcher.SearchScored(query, limit)

	header := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgGreen)
	score := color.New(color.FgYellow)

	header.Printf("query: %s (%d chunks, %d hits)\n", query, searcher.Corpus().Len(), len(results))
	for i, r := range results {
		label.Printf("[%d] %s", i+1, r.Label())
		score.Printf(" score=%d\n", r.Score)
		fmt.Println(preview(r.Content))
		fmt.Println()
	}
	return nil
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= previewRunes {
		return s
	}
	return string(runes[:previewRunes]) + "..."
}
