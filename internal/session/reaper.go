package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"codecell/pkg/utils/logger"
)

// reapLoop wakes every ReapInterval and evicts sessions that have been
// idle for at least IdleTimeout (spec.md §4.1's "Idle session
// reclamation").
func (m *Manager) reapLoop() {
	defer close(m.reaperDone)

	ticker := time.NewTicker(m.cfg.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopReaper:
			return
		case <-ticker.C:
			m.reapOnce()
		}
	}
}

// reapOnce snapshots (id, last_active) under the registry lock, computes
// the stale set outside the lock, then re-acquires the lock and removes
// only sessions whose last_active is unchanged since the snapshot — a
// session touched by a concurrent submission between the two lock
// acquisitions is spared, per spec.md §4.1's reclamation protocol.
func (m *Manager) reapOnce() {
	now := time.Now()

	m.mu.Lock()
	snapshot := make(map[string]time.Time, len(m.registry))
	for id, s := range m.registry {
		snapshot[id] = s.LastActive()
	}
	m.mu.Unlock()

	var stale []string
	for id, lastActive := range snapshot {
		if now.Sub(lastActive) >= m.cfg.IdleTimeout {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return
	}

	var reaped []*Session
	m.mu.Lock()
	for _, id := range stale {
		s, ok := m.registry[id]
		if !ok || !s.LastActive().Equal(snapshot[id]) {
			continue
		}
		delete(m.registry, id)
		reaped = append(reaped, s)
	}
	m.metrics.setActiveSessions(len(m.registry))
	m.mu.Unlock()

	for _, s := range reaped {
		s.setState(StateDead)
		s.worker.Kill()
		logger.Info(context.Background(), "reaped idle session", zap.String("sessionId", s.ID))
	}
}
