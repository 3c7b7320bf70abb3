// Package session implements the supervisor: the SessionManager that
// multiplexes a bounded pool of Sessions, each backed by one worker
// process, and the single-flight, metered-execution, and idle-reaping
// machinery spec.md §4 describes.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"codecell/internal/workerproc"
	appErr "codecell/pkg/errors"
	"codecell/pkg/utils/logger"
)

// Manager is the SessionManager of spec.md §3/§4.1: a registry of
// sessions keyed by SessionId, serialized by a single mutex, plus a
// background reaper.
type Manager struct {
	cfg Config

	mu       sync.Mutex
	registry map[string]*Session

	metrics *Metrics

	stopReaper chan struct{}
	reaperDone chan struct{}
}

// NewManager constructs a Manager and starts its reaper goroutine. Call
// CloseAll when the supervisor shuts down.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		cfg:        cfg,
		registry:   make(map[string]*Session),
		metrics:    newMetrics(),
		stopReaper: make(chan struct{}),
		reaperDone: make(chan struct{}),
	}
	go m.reapLoop()
	return m
}

// Metrics exposes the Manager's Prometheus registry for wiring into an
// HTTP /metrics endpoint.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Execute implements spec.md §4.1's public contract: with no id, create
// a session and run code against it; with an id, look it up and run
// code against the existing session, or report session_not_found.
func (m *Manager) Execute(ctx context.Context, maybeID *string, code string) Outcome {
	if maybeID != nil {
		m.mu.Lock()
		sess, ok := m.registry[*maybeID]
		m.mu.Unlock()
		if !ok {
			return Outcome{ID: *maybeID, Error: ErrSessionNotFound}
		}
		return m.dispatch(ctx, sess, code)
	}

	sess, err := m.createSession(ctx)
	if err != nil {
		// No Worker was created and no state was mutated (spec.md §7's
		// capacity-error policy), but every outcome reports an id on the
		// wire, so one is minted purely to echo back; it names no session.
		return Outcome{ID: NewID(), Error: ErrMaxSessionsReached}
	}
	return m.dispatch(ctx, sess, code)
}

// createSession resolves the capacity check and the registry insertion
// under the same lock acquisition, per spec.md §4.1, so two concurrent
// creations can never both observe room for one more and overshoot
// MaxSessions.
func (m *Manager) createSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.registry) >= m.cfg.MaxSessions {
		return nil, appErr.New(appErr.MaxSessionsReached)
	}

	handle, err := workerproc.Spawn()
	if err != nil {
		logger.Error(ctx, "spawn worker failed", zap.Error(err))
		return nil, appErr.Wrap(err, appErr.MaxSessionsReached)
	}

	sess := newSession(NewID(), handle)
	m.registry[sess.ID] = sess
	m.metrics.setActiveSessions(len(m.registry))
	return sess, nil
}

// dispatch runs an execution against an already-resolved session. The
// registry lock is never held across this call: submit's own
// single-flight lock and the worker's channels are all that serialize
// it (spec.md §4.1: "the lock is never held across a Worker
// submission").
func (m *Manager) dispatch(ctx context.Context, sess *Session, code string) Outcome {
	outcome := sess.submit(ctx, code, m.cfg)
	m.metrics.observeOutcome(outcome)
	if sess.GetState() == StateDead {
		m.drop(sess)
	}
	return outcome
}

// drop removes sess from the registry if it is still the session
// registered under its id (it may already have been reaped).
func (m *Manager) drop(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.registry[sess.ID]; ok && cur == sess {
		delete(m.registry, sess.ID)
		m.metrics.setActiveSessions(len(m.registry))
	}
}

// CloseAll stops the reaper and kills every live worker. Called once,
// during supervisor shutdown.
func (m *Manager) CloseAll() {
	close(m.stopReaper)
	<-m.reaperDone

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.registry))
	for _, s := range m.registry {
		sessions = append(sessions, s)
	}
	m.registry = make(map[string]*Session)
	m.metrics.setActiveSessions(0)
	m.mu.Unlock()

	for _, s := range sessions {
		s.worker.Kill()
	}
}
