package ai

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// SpeechText flattens markdown into the plain sentences a voice should read.
// Code blocks and raw html are dropped; link and emphasis text is kept.
func SpeechText(markdown string) string {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				sb.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					sb.WriteString(" ")
				}
			}
		case *ast.String:
			if entering {
				sb.Write(node.Value)
			}
		case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.Blockquote:
			if !entering {
				sb.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})

	lines := strings.Split(sb.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// SplitForSpeech cuts text into pieces of at most maxChars runes, preferring
// sentence boundaries.
func SplitForSpeech(s string, maxChars int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return []string{s}
	}
	var (
		pieces  []string
		current strings.Builder
		size    int
	)
	flush := func() {
		if p := strings.TrimSpace(current.String()); p != "" {
			pieces = append(pieces, p)
		}
		current.Reset()
		size = 0
	}
	for _, sentence := range splitSentences(s) {
		n := utf8.RuneCountInString(sentence)
		if n > maxChars {
			flush()
			r := []rune(sentence)
			for len(r) > maxChars {
				pieces = append(pieces, strings.TrimSpace(string(r[:maxChars])))
				r = r[maxChars:]
			}
			current.WriteString(string(r))
			size = len(r)
			continue
		}
		if size+n > maxChars {
			flush()
		}
		current.WriteString(sentence)
		size += n
	}
	flush()
	return pieces
}

func splitSentences(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		switch r {
		case '.', '!', '?', '。', '？', '！', '\n':
			end := i + utf8.RuneLen(r)
			out = append(out, s[start:end])
			start = end
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
