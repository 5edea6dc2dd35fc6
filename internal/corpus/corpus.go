package corpus

import "github.com/xxxsen/moneya/internal/model"

// Corpus is the knowledge base loaded at startup. It is never mutated after
// construction, so concurrent readers need no locking.
type Corpus struct {
	chunks []model.Chunk
}

func NewCorpus(chunks []model.Chunk) *Corpus {
	cp := make([]model.Chunk, len(chunks))
	copy(cp, chunks)
	return &Corpus{chunks: cp}
}

// Chunks returns the loaded chunks in load order. Callers must not modify
// the returned slice.
func (c *Corpus) Chunks() []model.Chunk {
	if c == nil {
		return nil
	}
	return c.chunks
}

func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.chunks)
}
