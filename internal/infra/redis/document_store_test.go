package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/ismailukman/millionaire-live/internal/domain"
	"github.com/ismailukman/millionaire-live/internal/livesync"
)

func TestDocumentStorePatchMerge(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewDocumentStore(newClient(mr))
	ctx := context.Background()

	doc := livesync.SessionDocument{
		ID:        "s1",
		PackID:    "pack_default",
		Mode:      domain.ModeClassic,
		Status:    domain.StatusWaiting,
		CreatedAt: time.Now().UTC(),
		HostID:    "host-1",
	}
	if err := store.CreateSession(ctx, doc); err != nil {
		t.Fatalf("create: %v", err)
	}

	status := domain.StatusLive
	state := &livesync.ClassicState{Level: 3, Feedback: "Correct!"}
	if err := store.UpdateSession(ctx, "s1", livesync.SessionPatch{Status: &status, ClassicState: state}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusLive {
		t.Fatalf("status = %q, want live", got.Status)
	}
	if got.HostID != "host-1" {
		t.Fatalf("patch clobbered host: %q", got.HostID)
	}
	if got.ClassicState == nil || got.ClassicState.Level != 3 {
		t.Fatalf("classic state not merged: %+v", got.ClassicState)
	}
}

func TestDocumentStoreUnknownSession(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewDocumentStore(newClient(mr))
	if _, err := store.GetSession(context.Background(), "ghost"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	status := domain.StatusEnded
	if err := store.UpdateSession(context.Background(), "ghost", livesync.SessionPatch{Status: &status}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on update, got %v", err)
	}
}

func TestDocumentStoreSessionFanout(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewDocumentStore(newClient(mr))
	ctx := context.Background()

	docs := make(chan livesync.SessionDocument, 4)
	unsub, err := store.SubscribeSession(ctx, "s1", func(doc livesync.SessionDocument) {
		docs <- doc
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsub()

	if err := store.CreateSession(ctx, livesync.SessionDocument{ID: "s1", Status: domain.StatusWaiting, HostID: "h"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	select {
	case doc := <-docs:
		if doc.ID != "s1" || doc.Status != domain.StatusWaiting {
			t.Fatalf("unexpected echo: %+v", doc)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no session echo received")
	}
}

func TestDocumentStoreSubmissionsFanout(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewDocumentStore(newClient(mr))
	ctx := context.Background()

	updates := make(chan map[string]domain.FFFSubmission, 4)
	unsub, err := store.SubscribeSubmissions(ctx, "s1", func(subs map[string]domain.FFFSubmission) {
		updates <- subs
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsub()

	sub := domain.FFFSubmission{
		ID:            "sub-1",
		ParticipantID: "p1",
		IsCorrect:     true,
		LatencyMS:     900,
		RoundID:       "r1",
	}
	if err := store.PutSubmission(ctx, "s1", sub); err != nil {
		t.Fatalf("put submission: %v", err)
	}

	select {
	case subs := <-updates:
		got, ok := subs["p1"]
		if !ok || !got.IsCorrect || got.LatencyMS != 900 {
			t.Fatalf("unexpected submissions snapshot: %+v", subs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no submissions echo received")
	}
}
