package speechcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/moneya/internal/ai"
	"github.com/xxxsen/moneya/internal/metrics"
	"go.uber.org/zap"
)

// WrapLruCacheToSpeaker memoizes synthesized audio by model, voice and text.
func WrapLruCacheToSpeaker(s ai.ISpeaker, size int, ttl time.Duration) ai.ISpeaker {
	if s == nil || size <= 0 || ttl <= 0 {
		return s
	}
	return &lruSpeaker{
		next:  s,
		cache: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

type lruSpeaker struct {
	next  ai.ISpeaker
	cache *expirable.LRU[string, []byte]
}

func (l *lruSpeaker) Speak(ctx context.Context, model string, voice string, text string) ([]byte, error) {
	key := buildCacheKey(model, voice, text)
	if cached, ok := l.cache.Get(key); ok {
		logutil.GetLogger(ctx).Debug("speech cache hit", zap.String("voice", voice))
		metrics.SpeechCacheLookups.WithLabelValues("hit").Inc()
		return cloneAudio(cached), nil
	}
	metrics.SpeechCacheLookups.WithLabelValues("miss").Inc()
	res, err := l.next.Speak(ctx, model, voice, text)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, cloneAudio(res))
	return res, nil
}

func buildCacheKey(model, voice, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(voice))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func cloneAudio(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
