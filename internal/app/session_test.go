package app

import (
	"context"
	"errors"
	"testing"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

func TestSubscribePrimesCurrentSnapshot(t *testing.T) {
	svc := newTestService(t)
	s, err := svc.CreateSession(context.Background(), "pack-test", domain.ModeClassic, "host-1", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ch, cancel, err := svc.Subscribe(s.ID())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	snap := <-ch
	if snap.Session.Status != domain.StatusWaiting {
		t.Fatalf("primed status = %q, want waiting", snap.Session.Status)
	}
	if snap.Session.ID != s.ID() {
		t.Fatalf("primed session id = %q", snap.Session.ID)
	}
}

func TestSnapshotIsolatedFromLiveState(t *testing.T) {
	svc := newTestService(t)
	s := startedClassic(t, svc, false)

	snap := s.Snapshot()
	snap.Session.Current.Level = 99
	snap.Session.Current.UsedLifelines = append(snap.Session.Current.UsedLifelines, "bogus")
	snap.Session.Participants["ghost"] = domain.Participant{ID: "ghost"}

	if got := currentLevel(s); got != 1 {
		t.Fatalf("snapshot mutation leaked into session: level %d", got)
	}
	var used []string
	var participants int
	s.View(func(d *domain.Session) {
		used = d.Current.UsedLifelines
		participants = len(d.Participants)
	})
	if len(used) != 0 || participants != 0 {
		t.Fatalf("snapshot mutation leaked: lifelines %v participants %d", used, participants)
	}
}

func TestSlowSubscriberGetsLatestState(t *testing.T) {
	svc := newTestService(t)
	s := startedClassic(t, svc, false)

	ch, cancel, err := svc.Subscribe(s.ID())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	// Never read while flooding; broadcast must not block and must keep
	// the newest snapshot reachable.
	for i := 0; i < 50; i++ {
		s.Update(func(d *domain.Session) { d.Current.Feedback = "tick" })
	}
	s.Update(func(d *domain.Session) { d.Current.Feedback = "final" })

	var last Snapshot
	for {
		select {
		case snap := <-ch:
			last = snap
			continue
		default:
		}
		break
	}
	if last.Session.Current.Feedback != "final" {
		t.Fatalf("latest feedback = %q, want final", last.Session.Current.Feedback)
	}
}

func TestJoinRegistersParticipant(t *testing.T) {
	svc := newTestService(t)
	s, err := svc.CreateSession(context.Background(), "pack-test", domain.ModeClassic, "host-1", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	id, err := svc.Join(context.Background(), s.ID(), "Alice", "agent/1.0")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	var p domain.Participant
	s.View(func(d *domain.Session) { p = d.Participants[id] })
	if p.Name != "Alice" || p.DeviceHash == "" {
		t.Fatalf("participant = %+v", p)
	}
	if p.DeviceHash != domain.HashDevice("agent/1.0", "Alice") {
		t.Fatalf("device hash mismatch: %q", p.DeviceHash)
	}
}

func TestUnknownSessionErrors(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.SubmitAnswer(context.Background(), "ghost", "A"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("submit: %v", err)
	}
	if _, _, err := svc.Subscribe("ghost"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := svc.CreateSession(context.Background(), "missing-pack", domain.ModeClassic, "h", false); !errors.Is(err, domain.ErrPackNotFound) {
		t.Fatalf("create: %v", err)
	}
}

func TestAnswerBeforeStartErrors(t *testing.T) {
	svc := newTestService(t)
	s, err := svc.CreateSession(context.Background(), "pack-test", domain.ModeClassic, "host-1", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SubmitAnswer(context.Background(), s.ID(), "A"); !errors.Is(err, domain.ErrNoCurrentQuestion) {
		t.Fatalf("pre-start submit: %v", err)
	}
}
