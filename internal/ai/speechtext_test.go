package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSpeechText(t *testing.T) {
	md := "## 저축 방법\n\n**월급의 20%** 이상을 [자동이체](https://example.com)로 저축하세요.\n\n- 비상자금\n- 연금\n\n```go\nfmt.Println(1)\n```\n"
	out := SpeechText(md)
	require.Equal(t, "저축 방법\n월급의 20% 이상을 자동이체로 저축하세요.\n비상자금\n연금", out)
	require.NotContains(t, out, "Println")
	require.NotContains(t, out, "https://")
}

func TestSpeechTextPlain(t *testing.T) {
	require.Equal(t, "안녕하세요", SpeechText("안녕하세요"))
	require.Equal(t, "", SpeechText("   "))
}

func TestSplitForSpeech(t *testing.T) {
	require.Nil(t, SplitForSpeech("  ", 10))
	require.Equal(t, []string{"짧은 문장."}, SplitForSpeech("짧은 문장.", 100))

	text := strings.Repeat("저축은 습관입니다. ", 30)
	pieces := SplitForSpeech(text, 50)
	require.Greater(t, len(pieces), 1)
	for _, p := range pieces {
		require.LessOrEqual(t, utf8.RuneCountInString(p), 50)
		require.True(t, strings.HasSuffix(p, "."), p)
	}

	long := strings.Repeat("가", 120)
	pieces = SplitForSpeech(long, 50)
	require.Equal(t, []string{strings.Repeat("가", 50), strings.Repeat("가", 50), strings.Repeat("가", 20)}, pieces)
}
