package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type idleReaper interface {
	ReapIdle(now time.Time) int
}

// IdleSessionReaperJob closes realtime sessions that stopped sending.
type IdleSessionReaperJob struct {
	hub idleReaper
	now func() time.Time
}

func NewIdleSessionReaperJob(hub idleReaper) *IdleSessionReaperJob {
	return &IdleSessionReaperJob{hub: hub, now: time.Now}
}

func (j *IdleSessionReaperJob) Name() string {
	return "idle_session_reaper"
}

func (j *IdleSessionReaperJob) Run(ctx context.Context) error {
	if j.hub == nil {
		return nil
	}
	if n := j.hub.ReapIdle(j.now()); n > 0 {
		logutil.GetLogger(ctx).Info("idle realtime sessions reaped", zap.Int("count", n))
	}
	return nil
}
