package macro

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/keymacro/internal/input/key"
)

// eventBufferSize is the capacity of the channel between a source and the
// session's drain goroutine.
const eventBufferSize = 256

// Source emits raw key transitions while a recording is running.
//
// Start begins capture and delivers events on the given channel in arrival
// order. If Start returns an error the source must not touch the channel.
// Stop ends capture; the source then delivers any in-flight events and
// closes the channel exactly once. The close is the terminal signal the
// session waits for before compiling. If Stop returns an error the session
// stops reading the channel, so the source must not block sending on it.
type Source interface {
	Start(events chan<- key.Event) error
	Stop() error
}

// Appender receives the compiled actions of a finished recording.
// *List implements it.
type Appender interface {
	AppendAll(actions []Action) []LineID
}

// State is the phase of a recording session.
type State int

const (
	// StateIdle means no capture is running.
	StateIdle State = iota
	// StateRecording means events are being buffered.
	StateRecording
)

// String returns "idle" or "recording".
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// recording is the buffer of one Start/Stop cycle. Only the drain
// goroutine writes events; it is read after done is closed.
type recording struct {
	id     string
	events []key.Event
	count  atomic.Int64
	quit   chan struct{}
	done   chan struct{}
}

// drain buffers events until the source closes ch or the recording is
// abandoned.
func (r *recording) drain(ch <-chan key.Event) {
	defer close(r.done)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			r.events = append(r.events, ev)
			r.count.Add(1)
		case <-r.quit:
			return
		}
	}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithOptimizeOptions sets the merge policy used when a recording stops.
func WithOptimizeOptions(opts ...OptimizeOption) SessionOption {
	return func(s *Session) {
		s.optimize = append(s.optimize, opts...)
	}
}

// WithAbortHandler registers a callback for aborted sessions. It runs after
// the session has returned to idle, outside the session lock.
func WithAbortHandler(fn func(err error)) SessionOption {
	return func(s *Session) {
		s.onAbort = fn
	}
}

// Session coordinates one Source with the optimizer and an Appender.
// It has two states, idle and recording. It holds no list state itself.
type Session struct {
	mu       sync.Mutex
	src      Source
	sink     Appender
	optimize []OptimizeOption
	onAbort  func(error)

	state State
	rec   *recording
	last  int
}

// NewSession creates an idle session.
func NewSession(src Source, sink Appender, opts ...SessionOption) *Session {
	s := &Session{
		src:  src,
		sink: sink,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsRecording returns true while capture is running.
func (s *Session) IsRecording() bool {
	return s.State() == StateRecording
}

// ID returns the id of the running recording, or "" when idle.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return ""
	}
	return s.rec.id
}

// Buffered returns the number of events captured so far by the running
// recording. Returns 0 when idle.
func (s *Session) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return 0
	}
	return int(s.rec.count.Load())
}

// LastCount returns the number of raw events compiled by the most recent
// successful Stop. Returns 0 before any recording has finished.
func (s *Session) LastCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Start begins a recording with an empty buffer. Calling Start while
// already recording does nothing. If the source fails to start, the
// session stays idle and a *CaptureError is returned.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.state == StateRecording {
		s.mu.Unlock()
		return nil
	}

	rec := &recording{
		id:   uuid.NewString(),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	ch := make(chan key.Event, eventBufferSize)
	go rec.drain(ch)

	if err := s.src.Start(ch); err != nil {
		close(ch)
		<-rec.done
		s.mu.Unlock()
		return s.abort(&CaptureError{Op: "start", SessionID: rec.id, Err: err})
	}

	s.rec = rec
	s.state = StateRecording
	s.mu.Unlock()
	return nil
}

// Stop ends the recording, waits for the source to deliver its last
// event, optimizes the buffer once and appends the result to the sink.
// It returns the ids of the appended lines. Calling Stop while idle does
// nothing.
//
// The session is idle before the sink is called, so observers of the sink
// may query the session.
//
// If the source fails to stop, the buffer is discarded without being
// optimized, the session returns to idle and a *CaptureError is returned.
func (s *Session) Stop() ([]LineID, error) {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return nil, nil
	}

	rec := s.rec
	s.rec = nil
	s.state = StateIdle

	if err := s.src.Stop(); err != nil {
		close(rec.quit)
		s.mu.Unlock()
		<-rec.done
		rec.events = nil
		return nil, s.abort(&CaptureError{Op: "stop", SessionID: rec.id, Err: err})
	}
	s.mu.Unlock()

	<-rec.done
	n := len(rec.events)
	actions := Optimize(rec.events, s.optimize...)
	rec.events = nil

	s.mu.Lock()
	s.last = n
	s.mu.Unlock()

	return s.sink.AppendAll(actions), nil
}

// abort reports err to the abort handler and returns it.
// Must be called without the lock held.
func (s *Session) abort(err error) error {
	if s.onAbort != nil {
		s.onAbort(err)
	}
	return err
}
