package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/moneya/internal/ai"
	"github.com/xxxsen/moneya/internal/metrics"
	appErr "github.com/xxxsen/moneya/internal/pkg/errors"
)

var supportedVoices = map[string]struct{}{
	"alloy": {}, "ash": {}, "ballad": {}, "coral": {}, "echo": {}, "fable": {},
	"nova": {}, "onyx": {}, "sage": {}, "shimmer": {}, "verse": {},
}

type ISpeechModel interface {
	Speak(ctx context.Context, text string, voice string) ([]byte, error)
}

type SpeechService struct {
	model    ISpeechModel
	maxChars int
}

func NewSpeechService(m ISpeechModel, maxChars int) *SpeechService {
	return &SpeechService{model: m, maxChars: maxChars}
}

// Synthesize renders text as mp3. Markdown is flattened first and long text
// is synthesized in pieces that are concatenated in order.
func (s *SpeechService) Synthesize(ctx context.Context, text string, voice string) ([]byte, error) {
	voice = strings.ToLower(strings.TrimSpace(voice))
	if voice != "" {
		if _, ok := supportedVoices[voice]; !ok {
			return nil, fmt.Errorf("unsupported voice %q: %w", voice, appErr.ErrInvalid)
		}
	}
	plain := ai.SpeechText(text)
	if plain == "" {
		return nil, fmt.Errorf("text is required: %w", appErr.ErrInvalid)
	}
	pieces := ai.SplitForSpeech(plain, s.maxChars)

	start := time.Now()
	var buf bytes.Buffer
	for i, piece := range pieces {
		audio, err := s.model.Speak(ctx, piece, voice)
		if err != nil {
			metrics.ObserveGateway("tts", start, err)
			logutil.GetLogger(ctx).Error("speech synthesis failed",
				zap.Int("piece", i), zap.Int("pieces", len(pieces)), zap.Error(err))
			return nil, upstreamError("speech synthesis", err)
		}
		buf.Write(audio)
	}
	metrics.ObserveGateway("tts", start, nil)
	return buf.Bytes(), nil
}
