package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// mapRepo is the minimal in-package SessionRepository for tests.
type mapRepo struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newMapRepo() *mapRepo {
	return &mapRepo{sessions: make(map[string]*Session)}
}

func (r *mapRepo) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

func (r *mapRepo) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *mapRepo) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

type staticPacks map[string]domain.Pack

func (p staticPacks) GetPack(_ context.Context, packID string) (domain.Pack, error) {
	pack, ok := p[packID]
	if !ok {
		return domain.Pack{}, domain.ErrPackNotFound
	}
	return pack, nil
}

// testPack builds a full 15-level pack plus one fastest-finger question.
func testPack() domain.Pack {
	pack := domain.Pack{
		ID:    "pack-test",
		Title: "Test Pack",
		Config: domain.PackConfig{
			CurrencySymbol:   "$",
			Amounts:          []int{100, 200, 300, 500, 1000, 2000, 4000, 8000, 16000, 32000, 64000, 125000, 250000, 500000, 1000000},
			GuaranteedLevels: []int{5, 10, 15},
		},
	}
	for level := 1; level <= domain.LadderLevels; level++ {
		pack.Questions = append(pack.Questions, domain.Question{
			ID:     fmt.Sprintf("q%d", level),
			Level:  level,
			Type:   domain.QuestionMCQ,
			Prompt: fmt.Sprintf("Question %d?", level),
			Options: map[string]string{
				"A": fmt.Sprintf("a%d", level),
				"B": fmt.Sprintf("b%d", level),
				"C": fmt.Sprintf("c%d", level),
				"D": fmt.Sprintf("d%d", level),
			},
			CorrectOption: "B",
		})
	}
	pack.Questions = append(pack.Questions, domain.Question{
		ID:           "fff1",
		Type:         domain.QuestionFFF,
		Prompt:       "Order these",
		CorrectOrder: []string{"w", "x", "y", "z"},
		OrderItems:   []string{"x", "z", "w", "y"},
	})
	return pack
}

type serviceOpts func(*Options)

func newTestService(t *testing.T, opts ...serviceOpts) *SessionService {
	t.Helper()
	options := Options{
		Logger: zerolog.Nop(),
		Seed:   func() int64 { return 42 },
	}
	for _, fn := range opts {
		fn(&options)
	}
	return NewSessionService(newMapRepo(), staticPacks{"pack-test": testPack()}, options)
}

func startedClassic(t *testing.T, svc *SessionService, timed bool) *Session {
	t.Helper()
	s, err := svc.CreateSession(context.Background(), "pack-test", domain.ModeClassic, "host-1", false)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := svc.StartClassic(context.Background(), s.ID(), &timed); err != nil {
		t.Fatalf("start classic: %v", err)
	}
	return s
}

// answerKeys returns the shuffled correct key and one incorrect key for the
// current question.
func answerKeys(t *testing.T, svc *SessionService, s *Session) (correct, wrong string) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := currentQuestionLocked(s.data, s.pack)
	if !ok {
		t.Fatal("no current question")
	}
	shuffled := svc.shuffledLocked(s, q)
	correct = shuffled.CorrectOption
	for _, key := range domain.OptionKeys {
		if key != correct {
			return correct, key
		}
	}
	t.Fatal("no incorrect key found")
	return "", ""
}

func sessionStatus(s *Session) domain.Status {
	var status domain.Status
	s.View(func(d *domain.Session) { status = d.Status })
	return status
}

func currentLevel(s *Session) int {
	var level int
	s.View(func(d *domain.Session) { level = d.Current.Level })
	return level
}

// advanceTo answers correctly until the session sits on the target level.
func advanceTo(t *testing.T, svc *SessionService, s *Session, level int) {
	t.Helper()
	for currentLevel(s) < level {
		correct, _ := answerKeys(t, svc, s)
		res, err := svc.SubmitAnswer(context.Background(), s.ID(), correct)
		if err != nil {
			t.Fatalf("advance submit: %v", err)
		}
		if !res.Applied || !res.Correct || res.Ended {
			t.Fatalf("advance stalled at level %d: %+v", currentLevel(s), res)
		}
	}
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 26, 20, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition never met")
}
