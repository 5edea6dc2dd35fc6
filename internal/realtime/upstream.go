package realtime

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	appErr "github.com/xxxsen/moneya/internal/pkg/errors"
)

// Conn is the subset of *websocket.Conn the relay uses on both sides.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

type WSDialer struct {
	URL              string
	Model            string
	APIKey           string
	HandshakeTimeout time.Duration
}

func (d *WSDialer) Endpoint() (string, error) {
	u, err := url.Parse(d.URL)
	if err != nil {
		return "", fmt.Errorf("parse realtime url: %w", err)
	}
	if d.Model != "" {
		q := u.Query()
		q.Set("model", d.Model)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (d *WSDialer) Dial(ctx context.Context) (Conn, error) {
	if strings.TrimSpace(d.APIKey) == "" {
		return nil, fmt.Errorf("realtime api key not configured: %w", appErr.ErrUnavailable)
	}
	endpoint, err := d.Endpoint()
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+d.APIKey)
	header.Set("OpenAI-Beta", "realtime=v1")
	dialer := *websocket.DefaultDialer
	if d.HandshakeTimeout > 0 {
		dialer.HandshakeTimeout = d.HandshakeTimeout
	}
	conn, resp, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial realtime upstream, status %d: %w: %w", resp.StatusCode, appErr.ErrUpstream, err)
		}
		return nil, fmt.Errorf("dial realtime upstream: %w: %w", appErr.ErrUpstream, err)
	}
	return conn, nil
}

const upstreamAudioQueue = 512

// upstreamLink owns one upstream socket. Audio frames are written in arrival
// order; session updates share a single slot so a newer update replaces one
// that has not been written yet. A pending update is always written before
// the next audio frame.
type upstreamLink struct {
	gen   int
	conn  Conn
	audio chan []byte

	updateMu      sync.Mutex
	pendingUpdate []byte
	updateSignal  chan struct{}

	closed    chan struct{}
	closeOnce sync.Once
}

func newUpstreamLink(gen int, conn Conn) *upstreamLink {
	return &upstreamLink{
		gen:          gen,
		conn:         conn,
		audio:        make(chan []byte, upstreamAudioQueue),
		updateSignal: make(chan struct{}, 1),
		closed:       make(chan struct{}),
	}
}

// queueAudio never blocks; it reports false when the queue is full.
func (l *upstreamLink) queueAudio(frame []byte) bool {
	select {
	case l.audio <- frame:
		return true
	default:
		return false
	}
}

// queueUpdate reports whether an unsent update was superseded.
func (l *upstreamLink) queueUpdate(payload []byte) bool {
	l.updateMu.Lock()
	superseded := l.pendingUpdate != nil
	l.pendingUpdate = payload
	l.updateMu.Unlock()
	select {
	case l.updateSignal <- struct{}{}:
	default:
	}
	return superseded
}

func (l *upstreamLink) takeUpdate() []byte {
	l.updateMu.Lock()
	defer l.updateMu.Unlock()
	p := l.pendingUpdate
	l.pendingUpdate = nil
	return p
}

// writeLoop exits when the link is closed or a write fails.
func (l *upstreamLink) writeLoop() error {
	for {
		select {
		case <-l.closed:
			return nil
		case <-l.updateSignal:
			if p := l.takeUpdate(); p != nil {
				if err := l.conn.WriteMessage(websocket.TextMessage, p); err != nil {
					return err
				}
			}
		case frame := <-l.audio:
			if p := l.takeUpdate(); p != nil {
				if err := l.conn.WriteMessage(websocket.TextMessage, p); err != nil {
					return err
				}
			}
			if err := l.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return err
			}
		}
	}
}

func (l *upstreamLink) close() {
	l.closeOnce.Do(func() {
		close(l.closed)
		_ = l.conn.Close()
	})
}
