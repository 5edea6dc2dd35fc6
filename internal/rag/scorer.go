package rag

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/xxxsen/moneya/internal/corpus"
	"github.com/xxxsen/moneya/internal/model"
)

// Weights is the per-field score table. A keyword found in a field adds the
// field's weight once. Types adds a bonus for chunks of the given type when
// the keyword is also found in their content.
type Weights struct {
	Content  int
	Title    int
	Category int
	Types    map[string]int
}

func DefaultWeights() Weights {
	return Weights{Content: 2, Title: 3, Category: 1}
}

var punctReplacer = strings.NewReplacer(
	"?", "", "!", "", ".", "", ",", "", "~", "", "\"", "", "'", "", "(", "", ")", "",
	"。", "", "、", "", "？", "", "！", "", "“", "", "”", "", "‘", "", "’", "",
)

// Keywords normalizes a query into its scoring keywords. Tokens of a single
// character are dropped.
func Keywords(query string) []string {
	normalized := punctReplacer.Replace(strings.ToLower(query))
	fields := strings.Fields(normalized)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= 1 {
			continue
		}
		out = append(out, f)
	}
	return out
}

type Searcher struct {
	corpus  *corpus.Corpus
	weights Weights
}

func NewSearcher(c *corpus.Corpus, w Weights) *Searcher {
	return &Searcher{corpus: c, weights: w}
}

func (s *Searcher) Corpus() *corpus.Corpus {
	return s.corpus
}

// Search returns at most maxResults chunks ordered by descending score.
// Equal scores keep load order.
func (s *Searcher) Search(query string, maxResults int) []model.Chunk {
	scored := s.SearchScored(query, maxResults)
	out := make([]model.Chunk, 0, len(scored))
	for _, item := range scored {
		out = append(out, item.Chunk)
	}
	return out
}

func (s *Searcher) SearchScored(query string, maxResults int) []model.ScoredChunk {
	if maxResults <= 0 || s.corpus.Len() == 0 {
		return []model.ScoredChunk{}
	}
	keywords := Keywords(query)
	if len(keywords) == 0 {
		return []model.ScoredChunk{}
	}
	scored := make([]model.ScoredChunk, 0, 16)
	for _, chunk := range s.corpus.Chunks() {
		score := s.score(chunk, keywords)
		if score <= 0 {
			continue
		}
		scored = append(scored, model.ScoredChunk{Chunk: chunk, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

func (s *Searcher) score(chunk model.Chunk, keywords []string) int {
	content := strings.ToLower(chunk.Content)
	titles := []string{
		strings.ToLower(chunk.Title),
		strings.ToLower(chunk.Source),
		strings.ToLower(chunk.Book),
	}
	category := strings.ToLower(chunk.Category)
	typeBonus := s.weights.Types[strings.ToLower(chunk.Type)]

	score := 0
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			score += s.weights.Content + typeBonus
		}
		for _, t := range titles {
			if t != "" && strings.Contains(t, kw) {
				score += s.weights.Title
				break
			}
		}
		if category != "" && strings.Contains(category, kw) {
			score += s.weights.Category
		}
	}
	return score
}
