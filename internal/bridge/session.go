package bridge

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/dispatcher/execctx"
	"github.com/dshills/richedit/internal/dispatcher/handler"
	"github.com/dshills/richedit/internal/dispatcher/handlers/document"
	"github.com/dshills/richedit/internal/editor"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/events"
	"github.com/dshills/richedit/internal/theme"
)

// Sink receives encoded event messages.
type Sink interface {
	Send(msg []byte) error
}

// SinkFunc is a function adapter for Sink.
type SinkFunc func(msg []byte) error

// Send implements Sink.
func (f SinkFunc) Send(msg []byte) error {
	return f(msg)
}

// Session owns one editor and serializes every access to it.
type Session struct {
	// mu guards the editor. Commands, theme changes and Apply all hold it.
	mu   sync.Mutex
	ed   *editor.Editor
	disp *dispatcher.Dispatcher
	log  zerolog.Logger
	sub  event.Subscription

	sinkMu   sync.RWMutex
	sinks    map[uint64]Sink
	nextSink uint64

	closed   atomic.Bool
	requests atomic.Uint64
}

// NewSession attaches a session to ed. When d is nil a dispatcher with
// every document command is created.
func NewSession(ed *editor.Editor, d *dispatcher.Dispatcher, log zerolog.Logger) (*Session, error) {
	if d == nil {
		d = dispatcher.NewWithDefaults()
		d.SetLogger(log)
		document.Register(d)
	}
	s := &Session{
		ed:    ed,
		disp:  d,
		log:   log.With().Str("component", "bridge").Logger(),
		sinks: make(map[uint64]Sink),
	}
	sub, err := ed.Bus().SubscribeFunc(events.TopicAll, s.forward, event.WithPriority(event.PriorityLow))
	if err != nil {
		return nil, err
	}
	s.sub = sub
	return s, nil
}

// Dispatcher returns the command dispatcher.
func (s *Session) Dispatcher() *dispatcher.Dispatcher {
	return s.disp
}

// Requests returns the number of commands executed.
func (s *Session) Requests() uint64 {
	return s.requests.Load()
}

// Attach registers a sink for event messages. The returned function
// detaches it.
func (s *Session) Attach(sink Sink) (detach func()) {
	s.sinkMu.Lock()
	s.nextSink++
	id := s.nextSink
	s.sinks[id] = sink
	s.sinkMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.sinkMu.Lock()
			delete(s.sinks, id)
			s.sinkMu.Unlock()
		})
	}
}

// forward encodes an editor event and sends it to every sink.
func (s *Session) forward(_ context.Context, ev any) error {
	tp, ok := ev.(event.TopicProvider)
	if !ok {
		return nil
	}
	name, ok := events.WireName(tp.EventTopic())
	if !ok {
		return nil
	}
	var payload any
	if pp, ok := ev.(event.PayloadProvider); ok {
		payload = pp.EventPayload()
	}
	msg, err := EncodeEvent(name, payload)
	if err != nil {
		return err
	}

	s.sinkMu.RLock()
	sinks := make([]Sink, 0, len(s.sinks))
	for _, sink := range s.sinks {
		sinks = append(sinks, sink)
	}
	s.sinkMu.RUnlock()

	if len(sinks) == 0 {
		s.log.Warn().Str("event", name).Msg("notification not delivered: no subscriber")
		return nil
	}
	for _, sink := range sinks {
		if err := sink.Send(msg); err != nil {
			s.log.Warn().Err(err).Str("event", name).Msg("notification not delivered")
		}
	}
	return nil
}

// Execute runs one request under the session lock.
func (s *Session) Execute(ctx context.Context, req Request) handler.Result {
	if s.closed.Load() {
		return handler.Error(ErrClosed)
	}
	if err := ctx.Err(); err != nil {
		return handler.Error(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests.Add(1)

	ectx := execctx.New(s.ed).WithLogger(s.log.With().Str("command", req.Name).Logger())
	ectx.RequestID = req.ID
	return s.disp.Dispatch(req.Command(), ectx)
}

// Handle decodes a request message, executes it and returns the encoded
// reply. It never fails: every problem becomes an error reply.
func (s *Session) Handle(ctx context.Context, data []byte) []byte {
	req, err := DecodeRequest(data)
	if err != nil {
		s.log.Debug().Err(err).Msg("rejected request")
		return s.encodeError(req.ID, err)
	}

	res := s.Execute(ctx, req)
	if res.IsError() {
		s.log.Debug().Err(res.Error).Str("command", req.Name).Msg("command failed")
	}
	reply, err := EncodeReply(req.ID, res)
	if err != nil {
		s.log.Error().Err(err).Str("command", req.Name).Msg("encode reply")
		return s.encodeError(req.ID, err)
	}
	return reply
}

func (s *Session) encodeError(id string, err error) []byte {
	reply, encErr := EncodeError(id, err)
	if encErr != nil {
		return []byte(`{"ok":false,"error":"internal error"}`)
	}
	return reply
}

// Apply runs fn with exclusive access to the editor.
func (s *Session) Apply(fn func(ed *editor.Editor)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ed)
}

// SetScheme switches the theme palette under the session lock. It reports
// whether the scheme changed.
func (s *Session) SetScheme(scheme theme.Scheme) bool {
	changed := false
	s.Apply(func(ed *editor.Editor) {
		changed = ed.Probe().SetScheme(scheme)
	})
	if changed {
		s.log.Info().Str("scheme", scheme.String()).Msg("color scheme changed")
	}
	return changed
}

// Close detaches the session from the editor's event bus. Later requests
// fail with ErrClosed.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.sinkMu.Lock()
	s.sinks = make(map[uint64]Sink)
	s.sinkMu.Unlock()
	return s.ed.Bus().Unsubscribe(s.sub)
}
