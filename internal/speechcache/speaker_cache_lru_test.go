package speechcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingSpeaker struct {
	calls int
	err   error
}

func (c *countingSpeaker) Speak(ctx context.Context, model, voice, text string) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []byte(voice + ":" + text), nil
}

func TestSpeakerCacheHit(t *testing.T) {
	next := &countingSpeaker{}
	sp := WrapLruCacheToSpeaker(next, 8, time.Minute)
	a, err := sp.Speak(context.Background(), "tts-1", "shimmer", "안녕하세요")
	require.NoError(t, err)
	b, err := sp.Speak(context.Background(), "tts-1", "shimmer", "안녕하세요")
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, 1, next.calls)

	_, err = sp.Speak(context.Background(), "tts-1", "alloy", "안녕하세요")
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
}

func TestSpeakerCacheSkipsErrors(t *testing.T) {
	next := &countingSpeaker{err: errors.New("down")}
	sp := WrapLruCacheToSpeaker(next, 8, time.Minute)
	_, err := sp.Speak(context.Background(), "m", "v", "t")
	require.Error(t, err)
	_, err = sp.Speak(context.Background(), "m", "v", "t")
	require.Error(t, err)
	require.Equal(t, 2, next.calls)
}

func TestSpeakerCacheDisabled(t *testing.T) {
	next := &countingSpeaker{}
	require.Same(t, next, WrapLruCacheToSpeaker(next, 0, time.Minute))
	require.Nil(t, WrapLruCacheToSpeaker(nil, 8, time.Minute))
}

func TestCacheKeySeparatesFields(t *testing.T) {
	require.NotEqual(t, buildCacheKey("a", "bc", "d"), buildCacheKey("ab", "c", "d"))
}
