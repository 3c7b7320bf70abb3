package session

import (
	"sync"
	"sync/atomic"
	"time"

	"codecell/internal/workerproc"
)

// State is a Session's coarse lifecycle state, used by the reaper and by
// Manager to decide when a dead session must be dropped from the registry.
type State int32

const (
	StateIdle State = iota
	StateBusy
	StateDead
)

// Session binds a session id to the one worker process that hosts its
// persistent interpreter (spec.md §3), plus the bookkeeping the
// supervisor needs: a single-flight lock serializing submissions against
// this id, a last-active timestamp the reaper reads, and a lifecycle
// state.
//
// lastActiveNano and state are accessed without submitMu held (the
// reaper reads them while holding only the registry lock), so they are
// plain atomics rather than fields guarded by submitMu.
type Session struct {
	ID     string
	worker *workerproc.Handle

	submitMu sync.Mutex

	lastActiveNano atomic.Int64
	state          atomic.Int32
}

func newSession(id string, worker *workerproc.Handle) *Session {
	s := &Session{ID: id, worker: worker}
	s.touch()
	s.setState(StateIdle)
	return s
}

func (s *Session) touch() {
	s.lastActiveNano.Store(time.Now().UnixNano())
}

// LastActive returns the timestamp of the start of the most recently
// submitted execution against this session.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActiveNano.Load())
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}

// GetState returns the session's current lifecycle state.
func (s *Session) GetState() State {
	return State(s.state.Load())
}
