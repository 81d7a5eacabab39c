package app

import (
	"context"
	"time"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// countdown is one session's running timer. Closing stop cancels it; done
// closes when the goroutine has exited.
type countdown struct {
	stop chan struct{}
	done chan struct{}
}

// startTimer spawns the per-session countdown if the session is live, timed
// and this client holds authority over timer expiry. At most one countdown
// runs per session.
func (svc *SessionService) startTimer(s *Session) {
	if !s.transport.Authoritative(s) {
		return
	}

	s.mu.Lock()
	if s.timer != nil || s.data.Status != domain.StatusLive || s.data.Current.TimerSeconds == nil {
		s.mu.Unlock()
		return
	}
	cd := &countdown{stop: make(chan struct{}), done: make(chan struct{})}
	s.timer = cd
	s.mu.Unlock()

	go svc.runTimer(s, cd)
}

// stopTimer cancels any outstanding countdown so a stale tick can never
// mutate a future question's state.
func (svc *SessionService) stopTimer(s *Session) {
	s.mu.Lock()
	cd := s.timer
	s.timer = nil
	s.mu.Unlock()
	if cd != nil {
		close(cd.stop)
	}
}

func (svc *SessionService) runTimer(s *Session, cd *countdown) {
	defer close(cd.done)
	ticker := time.NewTicker(svc.tick)
	defer ticker.Stop()

	for {
		select {
		case <-cd.stop:
			return
		case <-ticker.C:
			expired, stale, next := svc.tickOnce(s, cd)
			if stale {
				return
			}
			if err := s.transport.PushTimer(context.Background(), s, next); err != nil {
				svc.log.Warn().Err(err).Str("session", s.ID()).Msg("timer push failed")
			}
			if expired {
				svc.clearTimer(s, cd)
				// Expiry forces a sentinel submission through the
				// regular incorrect-answer branch.
				if _, err := svc.submit(context.Background(), s, domain.TimeoutOption); err != nil {
					svc.log.Warn().Err(err).Str("session", s.ID()).Msg("forced timeout submit failed")
				}
				return
			}
		}
	}
}

// tickOnce decrements the countdown by one second under the session lock.
func (svc *SessionService) tickOnce(s *Session, cd *countdown) (expired, stale bool, next domain.CurrentState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != cd || s.data.Status != domain.StatusLive || s.data.Current.TimerSeconds == nil {
		return false, true, domain.CurrentState{}
	}
	secs := *s.data.Current.TimerSeconds - 1
	if secs < 0 {
		secs = 0
	}
	*s.data.Current.TimerSeconds = secs
	s.broadcastLocked()
	return secs <= 0, false, cloneState(s.data.Current)
}

func (svc *SessionService) clearTimer(s *Session, cd *countdown) {
	s.mu.Lock()
	if s.timer == cd {
		s.timer = nil
	}
	s.mu.Unlock()
}
