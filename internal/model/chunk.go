package model

import "strings"

const DefaultChunkLabel = "참고자료"

// Chunk is one pre-segmented knowledge base entry. Identity is positional.
type Chunk struct {
	Content  string `json:"content"`
	Title    string `json:"title,omitempty"`
	Source   string `json:"source,omitempty"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
	Book     string `json:"book,omitempty"`
}

func (c Chunk) Label() string {
	for _, v := range []string{c.Title, c.Source, c.Book} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return DefaultChunkLabel
}

// ScoredChunk lives for one retrieval call only.
type ScoredChunk struct {
	Chunk
	Score int `json:"score"`
}
