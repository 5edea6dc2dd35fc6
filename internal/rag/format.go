package rag

import (
	"fmt"
	"strings"

	"github.com/xxxsen/moneya/internal/model"
)

const maxContextRunes = 500

// FormatContext renders retrieved chunks for the instruction prompt. It
// returns "" for no chunks so callers can skip the section entirely.
func FormatContext(chunks []model.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, c := range chunks {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "[%d] 【%s】\n%s\n", i+1, c.Label(), truncateRunes(strings.TrimSpace(c.Content), maxContextRunes))
	}
	sb.WriteString("\n위 자료를 자연스럽게 활용하여 답변하세요.")
	return sb.String()
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
