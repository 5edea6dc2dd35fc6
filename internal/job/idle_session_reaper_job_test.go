package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeReaper struct {
	calls []time.Time
}

func (f *fakeReaper) ReapIdle(now time.Time) int {
	f.calls = append(f.calls, now)
	return 1
}

func TestIdleSessionReaperPassesClock(t *testing.T) {
	r := &fakeReaper{}
	j := NewIdleSessionReaperJob(r)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	j.now = func() time.Time { return fixed }
	require.NoError(t, j.Run(context.Background()))
	require.Equal(t, []time.Time{fixed}, r.calls)
	require.Equal(t, "idle_session_reaper", j.Name())
}

func TestIdleSessionReaperNilHub(t *testing.T) {
	j := NewIdleSessionReaperJob(nil)
	require.NoError(t, j.Run(context.Background()))
}
