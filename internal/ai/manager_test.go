package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name  string
	reply string
	err   error
	delay time.Duration
	calls int
	last  *Request
	audio []byte
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, req *Request) (string, error) {
	f.calls++
	f.last = req
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeProvider) Speak(ctx context.Context, model, voice, text string) ([]byte, error) {
	f.calls++
	f.last = &Request{Model: model, User: text, System: voice}
	return f.audio, f.err
}

func TestGroupFallback(t *testing.T) {
	first := &fakeProvider{name: "a", err: errors.New("boom")}
	second := &fakeProvider{name: "b", reply: "ok"}
	g := NewGroupCompleter([]ProviderEntry{{Name: "a", Provider: first}, {Name: "b", Provider: second}})
	out, err := g.Complete(context.Background(), &Request{User: "hi"})
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, second.calls)

	require.Nil(t, NewGroupCompleter(nil))
}

func TestGroupReturnsLastError(t *testing.T) {
	want := errors.New("last")
	g := NewGroupCompleter([]ProviderEntry{
		{Name: "a", Provider: &fakeProvider{err: errors.New("first")}},
		{Name: "b", Provider: &fakeProvider{err: want}},
	})
	_, err := g.Complete(context.Background(), &Request{})
	require.ErrorIs(t, err, want)
}

func TestManagerChatRequest(t *testing.T) {
	p := &fakeProvider{reply: "  답변입니다 \n"}
	m := NewManager(p, nil, ManagerConfig{ChatModel: "gpt-4o", MaxTokens: 1000, Temperature: 0.7})
	out, err := m.Chat(context.Background(), "system", "user")
	require.NoError(t, err)
	require.Equal(t, "답변입니다", out)
	require.Equal(t, "gpt-4o", p.last.Model)
	require.Equal(t, "system", p.last.System)
	require.Equal(t, 1000, p.last.MaxTokens)
	require.Nil(t, p.last.Image)
}

func TestManagerAnalyzeUsesVisionModel(t *testing.T) {
	p := &fakeProvider{reply: "text"}
	m := NewManager(p, nil, ManagerConfig{ChatModel: "gpt-4o", VisionModel: "gpt-4o-mini"})
	_, err := m.Analyze(context.Background(), "s", "u", &Image{MIMEType: "image/jpeg", Data: []byte{1}})
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", p.last.Model)
	require.NotNil(t, p.last.Image)
}

func TestManagerEmptyResponse(t *testing.T) {
	m := NewManager(&fakeProvider{reply: "   "}, nil, ManagerConfig{})
	_, err := m.Chat(context.Background(), "s", "u")
	require.Error(t, err)
}

func TestManagerTimeout(t *testing.T) {
	m := NewManager(&fakeProvider{reply: "late", delay: 3 * time.Second}, nil, ManagerConfig{Timeout: 1})
	start := time.Now()
	_, err := m.Chat(context.Background(), "s", "u")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 3*time.Second)
}

func TestManagerNotConfigured(t *testing.T) {
	m := NewManager(nil, nil, ManagerConfig{})
	_, err := m.Chat(context.Background(), "s", "u")
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = m.Speak(context.Background(), "안녕", "")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestManagerSpeakDefaultVoice(t *testing.T) {
	sp := &fakeProvider{audio: []byte("mp3")}
	m := NewManager(nil, sp, ManagerConfig{SpeechModel: "tts-1", SpeechVoice: "shimmer"})
	audio, err := m.Speak(context.Background(), "안녕", "")
	require.NoError(t, err)
	require.Equal(t, []byte("mp3"), audio)
	require.Equal(t, "shimmer", sp.last.System)
	require.Equal(t, "tts-1", sp.last.Model)
}

func TestRegistry(t *testing.T) {
	p, err := NewProvider("OpenAI", map[string]interface{}{"api_key": ""})
	require.NoError(t, err)
	require.Equal(t, "openai", p.Name())
	_, err = p.Complete(context.Background(), &Request{User: "hi"})
	require.ErrorIs(t, err, ErrUnavailable)

	p, err = NewProvider("gemini", nil)
	require.NoError(t, err)
	require.Equal(t, "gemini", p.Name())
	_, ok := p.(ISpeaker)
	require.False(t, ok)

	p, err = NewProvider("openrouter", map[string]interface{}{"api_key": "k", "x_title": "moneya"})
	require.NoError(t, err)
	_, ok = p.(ISpeaker)
	require.False(t, ok)

	_, err = NewProvider("unknown", nil)
	require.Error(t, err)
	_, err = NewProvider("", nil)
	require.Error(t, err)
}

func TestFirstSpeaker(t *testing.T) {
	openaiP, err := NewProvider("openai", map[string]interface{}{"api_key": "k"})
	require.NoError(t, err)
	gem, err := NewProvider("gemini", map[string]interface{}{"api_key": "k"})
	require.NoError(t, err)
	require.Nil(t, FirstSpeaker([]ProviderEntry{{Name: "g", Provider: gem}}))
	require.NotNil(t, FirstSpeaker([]ProviderEntry{{Name: "g", Provider: gem}, {Name: "o", Provider: openaiP}}))
}

func TestPickModel(t *testing.T) {
	require.Equal(t, "req", pickModel("req", "", "", false))
	require.Equal(t, "chat", pickModel("req", "chat", "vision", false))
	require.Equal(t, "vision", pickModel("req", "chat", "vision", true))
	require.Equal(t, "chat", pickModel("req", "chat", "", true))
}
