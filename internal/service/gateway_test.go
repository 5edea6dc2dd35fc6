package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/moneya/internal/ai"
	"github.com/xxxsen/moneya/internal/corpus"
	"github.com/xxxsen/moneya/internal/model"
	appErr "github.com/xxxsen/moneya/internal/pkg/errors"
	"github.com/xxxsen/moneya/internal/rag"
)

type fakeModel struct {
	reply  string
	err    error
	system string
	user   string
	img    *ai.Image
	voices []string
	texts  []string
	calls  int
}

func (f *fakeModel) Chat(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.system, f.user = system, user
	return f.reply, f.err
}

func (f *fakeModel) Analyze(ctx context.Context, system, user string, img *ai.Image) (string, error) {
	f.calls++
	f.system, f.user, f.img = system, user, img
	return f.reply, f.err
}

func (f *fakeModel) Speak(ctx context.Context, text, voice string) ([]byte, error) {
	f.calls++
	f.texts = append(f.texts, text)
	f.voices = append(f.voices, voice)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("[" + text + "]"), nil
}

func testSearcher() *rag.Searcher {
	return rag.NewSearcher(corpus.NewCorpus([]model.Chunk{
		{Title: "저축", Content: "저축은 습관입니다", Book: "부자습관"},
		{Title: "대출", Content: "대출은 위험합니다"},
	}), rag.DefaultWeights())
}

func TestChatInjectsRetrievedContext(t *testing.T) {
	m := &fakeModel{reply: "네, 저축은 습관이에요."}
	svc := NewChatService(m, testSearcher(), 3)
	res, err := svc.Chat(context.Background(), ChatInput{
		Message:   "저축 방법 알려줘",
		Financial: &model.FinancialContext{Name: "민수", Age: 30},
	})
	require.NoError(t, err)
	require.Equal(t, "네, 저축은 습관이에요.", res.Message)
	require.True(t, res.RAGUsed)
	require.Equal(t, []string{"저축"}, res.Sources)
	require.Equal(t, "저축 방법 알려줘", m.user)
	require.Contains(t, m.system, "## 참고자료")
	require.Contains(t, m.system, "저축은 습관입니다")
	require.Contains(t, m.system, "민수")
}

func TestChatWithoutHits(t *testing.T) {
	m := &fakeModel{reply: "ok"}
	svc := NewChatService(m, testSearcher(), 3)
	res, err := svc.Chat(context.Background(), ChatInput{Message: "안녕하세요 머니야"})
	require.NoError(t, err)
	require.False(t, res.RAGUsed)
	require.Empty(t, res.Sources)
	require.NotContains(t, m.system, "## 참고자료")
}

func TestChatRequiresMessage(t *testing.T) {
	m := &fakeModel{}
	svc := NewChatService(m, testSearcher(), 3)
	_, err := svc.Chat(context.Background(), ChatInput{Message: "  "})
	require.ErrorIs(t, err, appErr.ErrInvalid)
	require.Equal(t, 0, m.calls)
}

func TestChatUpstreamFailure(t *testing.T) {
	m := &fakeModel{err: errors.New("429 rate limited")}
	svc := NewChatService(m, testSearcher(), 3)
	_, err := svc.Chat(context.Background(), ChatInput{Message: "저축"})
	require.ErrorIs(t, err, appErr.ErrUpstream)
	require.True(t, appErr.IsUpstream(err))
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAnalyzeImage(t *testing.T) {
	m := &fakeModel{reply: "급여 4,500,000원"}
	svc := NewFileService(m, FileConfig{MaxUploadBytes: 1 << 20, MaxDimension: 64, JPEGQuality: 80})
	res, err := svc.Analyze(context.Background(), FileInput{
		FileName: "pay.png", FileType: "image/png", CurrentTab: "budget", Data: pngImage(t, 256, 128),
	})
	require.NoError(t, err)
	require.Equal(t, "급여 4,500,000원", res.Analysis)
	require.Equal(t, "pay.png", res.FileName)
	require.Equal(t, "budget", res.CurrentTab)
	require.NotNil(t, m.img)
	require.Equal(t, "image/jpeg", m.img.MIMEType)
	require.Contains(t, m.system, "pay.png")
	require.Contains(t, m.system, "거절 답변은 절대 하지 마세요")
}

func TestAnalyzeFallsBackToOriginalBytes(t *testing.T) {
	// a GIF header that passes content sniffing but cannot be decoded
	data := append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 32)...)
	m := &fakeModel{reply: "ok"}
	svc := NewFileService(m, FileConfig{MaxUploadBytes: 1 << 20, MaxDimension: 64, JPEGQuality: 80})
	_, err := svc.Analyze(context.Background(), FileInput{FileName: "x.gif", Data: data})
	require.NoError(t, err)
	require.Equal(t, "image/gif", m.img.MIMEType)
	require.Equal(t, data, m.img.Data)
}

func TestAnalyzeRejects(t *testing.T) {
	m := &fakeModel{reply: "ok"}
	svc := NewFileService(m, FileConfig{MaxUploadBytes: 16, MaxDimension: 64, JPEGQuality: 80})
	_, err := svc.Analyze(context.Background(), FileInput{})
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = svc.Analyze(context.Background(), FileInput{Data: bytes.Repeat([]byte{1}, 17)})
	require.ErrorIs(t, err, appErr.ErrTooLarge)

	svc = NewFileService(m, FileConfig{MaxUploadBytes: 1 << 20})
	_, err = svc.Analyze(context.Background(), FileInput{Data: []byte("plain text body")})
	require.ErrorIs(t, err, appErr.ErrInvalid)
	require.Equal(t, 0, m.calls)
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	m := &fakeModel{err: ai.ErrUnavailable}
	svc := NewFileService(m, FileConfig{MaxUploadBytes: 1 << 20, MaxDimension: 64, JPEGQuality: 80})
	_, err := svc.Analyze(context.Background(), FileInput{Data: pngImage(t, 8, 8)})
	require.ErrorIs(t, err, appErr.ErrUnavailable)
}

func TestSynthesize(t *testing.T) {
	m := &fakeModel{}
	svc := NewSpeechService(m, 20)
	audio, err := svc.Synthesize(context.Background(), "**저축은 습관입니다.** 대출은 위험합니다.", "Shimmer")
	require.NoError(t, err)
	require.Equal(t, "[저축은 습관입니다.][대출은 위험합니다.]", string(audio))
	require.Equal(t, []string{"shimmer", "shimmer"}, m.voices)
}

func TestSynthesizeRejects(t *testing.T) {
	m := &fakeModel{}
	svc := NewSpeechService(m, 100)
	_, err := svc.Synthesize(context.Background(), "   ", "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = svc.Synthesize(context.Background(), "안녕", "robot")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	require.Equal(t, 0, m.calls)
}

func TestSynthesizeUpstreamFailure(t *testing.T) {
	m := &fakeModel{err: errors.New("timeout")}
	svc := NewSpeechService(m, 100)
	_, err := svc.Synthesize(context.Background(), strings.Repeat("안녕하세요. ", 3), "")
	require.ErrorIs(t, err, appErr.ErrUpstream)
	require.Equal(t, 1, m.calls)
}

func TestSynthesizeShortTextSingleCall(t *testing.T) {
	m := &fakeModel{}
	svc := NewSpeechService(m, 4096)
	_, err := svc.Synthesize(context.Background(), "저축은 습관입니다. 대출은 위험합니다. 연금은 노후 준비입니다.", "")
	require.NoError(t, err)
	require.Equal(t, 1, m.calls)
}
