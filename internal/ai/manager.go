package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type ManagerConfig struct {
	Timeout     int
	ChatModel   string
	VisionModel string
	MaxTokens   int
	Temperature float32
	SpeechModel string
	SpeechVoice string
}

type Manager struct {
	completer ICompleter
	speaker   ISpeaker
	cfg       ManagerConfig
}

func NewManager(completer ICompleter, speaker ISpeaker, cfg ManagerConfig) *Manager {
	return &Manager{
		completer: completer,
		speaker:   speaker,
		cfg:       cfg,
	}
}

// Chat runs one text completion with the given system instruction.
func (m *Manager) Chat(ctx context.Context, system string, user string) (string, error) {
	return m.complete(ctx, &Request{
		Model:       m.cfg.ChatModel,
		System:      system,
		User:        user,
		MaxTokens:   m.cfg.MaxTokens,
		Temperature: m.cfg.Temperature,
	})
}

// Analyze runs one vision completion over img. A nil img degrades to Chat
// against the vision model.
func (m *Manager) Analyze(ctx context.Context, system string, user string, img *Image) (string, error) {
	model := m.cfg.VisionModel
	if model == "" {
		model = m.cfg.ChatModel
	}
	return m.complete(ctx, &Request{
		Model:       model,
		System:      system,
		User:        user,
		Image:       img,
		MaxTokens:   m.cfg.MaxTokens,
		Temperature: m.cfg.Temperature,
	})
}

func (m *Manager) Speak(ctx context.Context, text string, voice string) ([]byte, error) {
	if m.speaker == nil {
		return nil, fmt.Errorf("speech provider not configured: %w", ErrUnavailable)
	}
	if voice == "" {
		voice = m.cfg.SpeechVoice
	}
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	audio, err := m.speaker.Speak(ctx, m.cfg.SpeechModel, voice, text)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty speech audio")
	}
	return audio, nil
}

func (m *Manager) DefaultVoice() string {
	return m.cfg.SpeechVoice
}

func (m *Manager) complete(ctx context.Context, req *Request) (string, error) {
	if m.completer == nil {
		return "", fmt.Errorf("completion provider not configured: %w", ErrUnavailable)
	}
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	resp, err := m.completer.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
	}
	return context.WithCancel(ctx)
}
