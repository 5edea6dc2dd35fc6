package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/moneya/internal/metrics"
	"github.com/xxxsen/moneya/internal/model"
)

type Searcher interface {
	Search(query string, maxResults int) []model.Chunk
}

type Options struct {
	Dialer      Dialer
	Searcher    Searcher
	TopK        int
	Params      SessionParams
	DialTimeout time.Duration
	IdleTimeout time.Duration
}

// Hub tracks live sessions. Session state itself is never touched here; the
// hub only posts requests into a session's own loop.
type Hub struct {
	dialer      Dialer
	searcher    Searcher
	topK        int
	params      SessionParams
	dialTimeout time.Duration
	idleTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

func NewHub(opts Options) *Hub {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 15 * time.Second
	}
	return &Hub{
		dialer:      opts.Dialer,
		searcher:    opts.Searcher,
		topK:        opts.TopK,
		params:      opts.Params,
		dialTimeout: opts.DialTimeout,
		idleTimeout: opts.IdleTimeout,
		sessions:    make(map[string]*session),
	}
}

// Serve relays client until it disconnects. It blocks for the whole
// lifetime of the connection and closes client before returning.
func (h *Hub) Serve(ctx context.Context, client Conn) {
	id := uuid.NewString()
	logger := logutil.GetLogger(ctx).With(zap.String("session_id", id))
	s := newSession(id, h, client, logger)

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()
	metrics.RealtimeSessions.Inc()
	logger.Info("realtime client connected")

	defer func() {
		h.mu.Lock()
		delete(h.sessions, id)
		h.mu.Unlock()
		metrics.RealtimeSessions.Dec()
		logger.Info("realtime session finished")
	}()
	s.run(ctx)
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Hub) snapshot() []*session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out
}

// ReapIdle asks every session without client traffic for the idle timeout
// to close. It returns how many sessions were asked.
func (h *Hub) ReapIdle(now time.Time) int {
	if h.idleTimeout <= 0 {
		return 0
	}
	asked := 0
	for _, s := range h.snapshot() {
		if s.idleFor(now) < h.idleTimeout {
			continue
		}
		if s.tryPost(reapRequest{now: now, idle: h.idleTimeout}) {
			asked++
		}
	}
	return asked
}

// Shutdown asks every session to end.
func (h *Hub) Shutdown() {
	for _, s := range h.snapshot() {
		s.tryPost(shutdownRequest{})
	}
}
