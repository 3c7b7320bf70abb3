package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"codecell/internal/workerproc"
	"codecell/pkg/utils/logger"
)

// submit runs one code fragment against this session's worker under the
// per-session single-flight lock, enforcing the wall-clock timeout and
// the memory ceiling concurrently (spec.md §4.2). Whichever limit fires
// first determines the Outcome; the other is simply never observed,
// since submit returns as soon as one select case proceeds.
func (s *Session) submit(ctx context.Context, code string, cfg Config) Outcome {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	if s.GetState() == StateDead {
		// A concurrent submission against this same id killed the
		// worker and returned between Manager's registry lookup and
		// this call acquiring submitMu. The session is not yet
		// necessarily dropped from the registry, but spec.md §3
		// requires a Dead session to never be reused, so it is treated
		// exactly as if the lookup itself had missed.
		return Outcome{ID: s.ID, Error: ErrSessionNotFound}
	}

	s.setState(StateBusy)
	s.touch()

	s.worker.Inbox <- workerproc.Request{Code: code}

	memoryHit := make(chan struct{}, 1)
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go s.monitorMemory(monitorCtx, cfg, memoryHit)

	timer := time.NewTimer(cfg.Timeout)
	defer timer.Stop()

	select {
	case resp := <-s.worker.Outbox:
		s.setState(StateIdle)
		return Outcome{ID: s.ID, Stdout: nonEmpty(resp.Stdout), Stderr: nonEmpty(resp.Stderr)}

	case err := <-s.worker.Done():
		// The worker's I/O loops died before a reply arrived (crash,
		// closed pipe). spec.md §9 treats this the same as a timeout.
		logger.Warn(ctx, "worker exited unexpectedly during submission",
			zap.String("sessionId", s.ID), zap.Error(err))
		return s.kill(ErrExecutionTimeout)

	case <-memoryHit:
		return s.kill(ErrMemoryLimitExceeded)

	case <-timer.C:
		return s.kill(ErrExecutionTimeout)
	}
}

// monitorMemory polls the worker's RSS every PollInterval and signals
// memoryHit the first time it exceeds the configured ceiling. An
// execution that allocates and frees memory within a single poll
// interval can escape detection; this sampling gap is an accepted limit
// of polling-based enforcement, not a bug.
func (s *Session) monitorMemory(ctx context.Context, cfg Config, memoryHit chan<- struct{}) {
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rss, err := s.worker.RSSBytes()
			if err != nil {
				// Process may already be gone; the timeout or Done()
				// path in submit will observe that independently.
				continue
			}
			if rss > cfg.MemoryLimit {
				select {
				case memoryHit <- struct{}{}:
				default:
				}
				return
			}
		}
	}
}

// kill forcibly tears down the worker and marks the session dead. Both
// the timeout path and the memory path converge here: spec.md §4.2
// requires the same teardown ("killed, not signaled") regardless of
// which limit was violated.
func (s *Session) kill(kind ErrorKind) Outcome {
	s.worker.Kill()
	s.setState(StateDead)
	return Outcome{ID: s.ID, Error: kind}
}
