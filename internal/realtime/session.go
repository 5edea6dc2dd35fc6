package realtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/xxxsen/moneya/internal/metrics"
	"github.com/xxxsen/moneya/internal/model"
	"github.com/xxxsen/moneya/internal/prompt"
	"github.com/xxxsen/moneya/internal/rag"
)

type State int

const (
	StateIdle State = iota
	StateStarting
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

const (
	eventQueue       = 64
	clientQueue      = 1024
	upstreamErrorMsg = "음성 연결에 실패했습니다. 잠시 후 다시 시도해 주세요."
	invalidStartMsg  = "시작 요청 형식이 올바르지 않습니다."
)

type event interface{}

type clientFrame struct {
	kind int
	data []byte
}

type clientClosed struct{ err error }

type upstreamOpened struct {
	gen  int
	conn Conn
}

type upstreamDialFailed struct {
	gen int
	err error
}

type upstreamFrame struct {
	gen  int
	data []byte
}

type upstreamClosed struct {
	gen int
	err error
}

type reapRequest struct {
	now  time.Time
	idle time.Duration
}

type shutdownRequest struct{}

// session is one client connection. Every field below the channels is owned
// by the run goroutine; readers and writers talk to it through channels.
type session struct {
	id     string
	hub    *Hub
	client Conn
	logger *zap.Logger

	events     chan event
	out        chan []byte
	done       chan struct{}
	lastActive atomic.Int64
	postMu     sync.RWMutex
	exited     bool

	state     State
	gen       int
	link      *upstreamLink
	userName  string
	financial *model.FinancialContext
	budget    *model.BudgetInfo
	design    *model.DesignData
	analysis  *model.AnalysisContext
	retrieved string
}

func newSession(id string, hub *Hub, client Conn, logger *zap.Logger) *session {
	s := &session{
		id:     id,
		hub:    hub,
		client: client,
		logger: logger,
		events: make(chan event, eventQueue),
		out:    make(chan []byte, clientQueue),
		done:   make(chan struct{}),
		state:  StateIdle,
	}
	s.touch()
	return s
}

func (s *session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *session) idleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastActive.Load()))
}

// post hands ev to the run goroutine. It reports false once the session is gone.
func (s *session) post(ev event) bool {
	s.postMu.RLock()
	defer s.postMu.RUnlock()
	if s.exited {
		return false
	}
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

// tryPost is post without blocking, used by the hub.
func (s *session) tryPost(ev event) bool {
	s.postMu.RLock()
	defer s.postMu.RUnlock()
	if s.exited {
		return false
	}
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

// drainEvents releases upstream sockets that were opened after the loop quit.
func (s *session) drainEvents() {
	for {
		select {
		case ev := <-s.events:
			if opened, ok := ev.(upstreamOpened); ok {
				_ = opened.conn.Close()
			}
		default:
			return
		}
	}
}

func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writeClient()
	}()
	go s.readClient()

	defer func() {
		s.closeLink()
		s.state = StateClosed
		close(s.done)
		s.postMu.Lock()
		s.exited = true
		s.postMu.Unlock()
		s.drainEvents()
		close(s.out)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("realtime session cancelled")
			return
		case ev := <-s.events:
			if !s.handle(ctx, ev) {
				return
			}
		}
	}
}

// handle returns false when the session must end.
func (s *session) handle(ctx context.Context, ev event) bool {
	switch e := ev.(type) {
	case clientFrame:
		s.onClientFrame(ctx, e)
	case clientClosed:
		s.logger.Info("realtime client disconnected", zap.String("state", s.state.String()), zap.Error(e.err))
		return false
	case upstreamOpened:
		s.onUpstreamOpened(e)
	case upstreamDialFailed:
		s.onUpstreamDialFailed(e)
	case upstreamFrame:
		if e.gen == s.gen && s.link != nil {
			s.onUpstreamFrame(e.data)
		}
	case upstreamClosed:
		s.onUpstreamClosed(e)
	case reapRequest:
		if s.idleFor(e.now) >= e.idle {
			s.logger.Info("realtime session idle, closing", zap.Duration("idle", e.idle))
			s.end(ReasonIdle)
			return false
		}
	case shutdownRequest:
		s.end(ReasonShutdown)
		return false
	}
	return true
}

func (s *session) onClientFrame(ctx context.Context, f clientFrame) {
	if f.kind == websocket.BinaryMessage {
		s.forwardAudio(base64.StdEncoding.EncodeToString(f.data))
		return
	}
	var msg ClientMessage
	if err := json.Unmarshal(f.data, &msg); err != nil {
		s.logger.Warn("drop malformed client message", zap.Int("size", len(f.data)), zap.Error(err))
		if peekType(f.data) == TypeStartApp {
			s.send(ServerMessage{Type: TypeError, Message: invalidStartMsg})
		}
		return
	}
	switch msg.Type {
	case TypeStartApp:
		s.start(ctx, &msg)
	case TypeUpdateContext:
		s.analysis = msg.Analysis
		s.logger.Info("analysis context updated", zap.Bool("present", msg.Analysis.Present()))
		if s.state == StateActive {
			s.pushInstructions("update_context")
		}
	case TypeAudio:
		s.forwardAudio(msg.Data)
	case upstreamAudioAppend:
		s.forwardAudio(msg.Audio)
	case TypeStop:
		if s.link != nil || s.state == StateStarting {
			s.closeLink()
			s.state = StateClosed
			s.send(ServerMessage{Type: TypeSessionEnded, Reason: ReasonStopped})
		}
	default:
		s.logger.Debug("ignore client message", zap.String("type", msg.Type))
	}
}

func (s *session) start(ctx context.Context, msg *ClientMessage) {
	s.closeLink()
	s.financial = msg.Financial
	s.budget = msg.Budget
	s.design = msg.Design
	s.analysis = msg.Analysis
	s.retrieved = ""
	s.userName = resolveUserName(msg)
	s.gen++
	s.state = StateStarting
	gen := s.gen
	s.logger.Info("realtime session starting", zap.Int("gen", gen), zap.String("user", s.userName))

	dialCtx, cancel := context.WithTimeout(ctx, s.hub.dialTimeout)
	go func() {
		defer cancel()
		conn, err := s.hub.dialer.Dial(dialCtx)
		if err != nil {
			s.post(upstreamDialFailed{gen: gen, err: err})
			return
		}
		if !s.post(upstreamOpened{gen: gen, conn: conn}) {
			_ = conn.Close()
		}
	}()
}

// peekType reads only the type of a message whose body failed to decode.
func peekType(data []byte) string {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return ""
	}
	return head.Type
}

func resolveUserName(msg *ClientMessage) string {
	if n := strings.TrimSpace(msg.UserName); n != "" {
		return n
	}
	if msg.Financial != nil {
		if n := strings.TrimSpace(msg.Financial.Name); n != "" {
			return n
		}
	}
	return prompt.DefaultUserName
}

func (s *session) onUpstreamOpened(e upstreamOpened) {
	if e.gen != s.gen || s.state != StateStarting {
		_ = e.conn.Close()
		return
	}
	link := newUpstreamLink(e.gen, e.conn)
	s.link = link
	s.state = StateActive
	go s.readUpstream(link)
	go func() {
		if err := link.writeLoop(); err != nil {
			s.logger.Warn("upstream write failed", zap.Int("gen", link.gen), zap.Error(err))
			link.close()
		}
	}()
	s.pushInstructions("session_start")
	s.send(ServerMessage{Type: TypeSessionStarted, Message: "네, " + s.userName + "님!"})
	s.logger.Info("realtime session active", zap.Int("gen", e.gen))
}

func (s *session) onUpstreamDialFailed(e upstreamDialFailed) {
	if e.gen != s.gen || s.state != StateStarting {
		return
	}
	s.state = StateIdle
	s.logger.Error("dial realtime upstream failed", zap.Int("gen", e.gen), zap.Error(e.err))
	s.send(ServerMessage{Type: TypeError, Message: upstreamErrorMsg})
}

func (s *session) onUpstreamClosed(e upstreamClosed) {
	if s.link == nil || e.gen != s.link.gen {
		return
	}
	s.logger.Info("realtime upstream closed", zap.Int("gen", e.gen), zap.Error(e.err))
	s.closeLink()
	s.state = StateClosed
	s.send(ServerMessage{Type: TypeSessionEnded, Reason: ReasonUpstreamClosed})
}

func (s *session) onUpstreamFrame(data []byte) {
	var ev upstreamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.logger.Warn("drop malformed upstream event", zap.Error(err))
		return
	}
	metrics.RealtimeUpstreamEvents.WithLabelValues(upstreamEventLabel(ev.Type)).Inc()
	switch ev.Type {
	case upstreamAudioDelta:
		s.send(ServerMessage{Type: TypeAudio, Data: ev.Delta})
	case upstreamSpeechStarted:
		s.send(ServerMessage{Type: TypeInterrupt})
	case upstreamAssistantDone:
		s.send(ServerMessage{Type: TypeTranscript, Role: RoleAssistant, Text: ev.Transcript})
	case upstreamUserTranscript:
		s.send(ServerMessage{Type: TypeTranscript, Role: RoleUser, Text: ev.Transcript})
		s.augment(ev.Transcript)
	case upstreamError:
		msg := "upstream error"
		if ev.Error != nil && ev.Error.Message != "" {
			msg = ev.Error.Message
		}
		s.logger.Warn("realtime upstream error event", zap.String("message", msg))
		s.send(ServerMessage{Type: TypeError, Message: msg})
	}
}

// upstreamEventLabel keeps the metric label set bounded to the handled types.
func upstreamEventLabel(typ string) string {
	switch typ {
	case upstreamAudioDelta, upstreamSpeechStarted, upstreamAssistantDone, upstreamUserTranscript, upstreamError:
		return typ
	default:
		return "other"
	}
}

// augment retrieves knowledge for a finished user utterance and re-renders
// the instructions with it. Existing profile and design data are kept.
func (s *session) augment(transcript string) {
	chunks := s.hub.searcher.Search(transcript, s.hub.topK)
	metrics.ObserveSearch("realtime", len(chunks))
	if len(chunks) == 0 {
		return
	}
	s.retrieved = rag.FormatContext(chunks)
	s.pushInstructions("transcript")
}

func (s *session) instructions() string {
	return prompt.Build(prompt.Input{
		UserName:  s.userName,
		Financial: s.financial,
		Budget:    s.budget,
		Design:    s.design,
		Analysis:  s.analysis,
		Retrieved: s.retrieved,
	})
}

func (s *session) pushInstructions(reason string) {
	if s.link == nil {
		return
	}
	payload, err := s.hub.params.encodeUpdate(s.instructions())
	if err != nil {
		s.logger.Error("encode session update failed", zap.Error(err))
		return
	}
	if s.link.queueUpdate(payload) {
		s.logger.Debug("pending session update superseded", zap.String("reason", reason))
	}
}

func (s *session) forwardAudio(data string) {
	if s.state != StateActive || s.link == nil {
		return
	}
	if data == "" {
		return
	}
	frame, err := encodeAudioAppend(data)
	if err != nil {
		return
	}
	if !s.link.queueAudio(frame) {
		s.logger.Warn("upstream audio queue full, drop frame")
	}
}

func (s *session) send(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encode client message failed", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	select {
	case s.out <- data:
	default:
		s.logger.Warn("client queue full, drop message", zap.String("type", msg.Type))
	}
}

func (s *session) end(reason string) {
	s.closeLink()
	s.send(ServerMessage{Type: TypeSessionEnded, Reason: reason})
}

func (s *session) closeLink() {
	if s.link == nil {
		return
	}
	s.link.close()
	s.link = nil
}

func (s *session) readClient() {
	for {
		kind, data, err := s.client.ReadMessage()
		if err != nil {
			s.post(clientClosed{err: normalizeCloseErr(err)})
			return
		}
		s.touch()
		if !s.post(clientFrame{kind: kind, data: data}) {
			return
		}
	}
}

func (s *session) readUpstream(link *upstreamLink) {
	for {
		_, data, err := link.conn.ReadMessage()
		if err != nil {
			s.post(upstreamClosed{gen: link.gen, err: normalizeCloseErr(err)})
			return
		}
		if !s.post(upstreamFrame{gen: link.gen, data: data}) {
			return
		}
	}
}

// writeClient drains out in order and closes the client when out is closed.
func (s *session) writeClient() {
	failed := false
	for data := range s.out {
		if failed {
			continue
		}
		if err := s.client.WriteMessage(websocket.TextMessage, data); err != nil {
			s.logger.Debug("write client failed", zap.Error(err))
			failed = true
		}
	}
	if !failed {
		_ = s.client.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
	_ = s.client.Close()
}

func normalizeCloseErr(err error) error {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	return err
}
