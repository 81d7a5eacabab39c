package app

import (
	"context"
	"testing"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

func TestClassicFullWin(t *testing.T) {
	svc := newTestService(t)
	s := startedClassic(t, svc, false)

	for level := 1; level < domain.LadderLevels; level++ {
		if got := currentLevel(s); got != level {
			t.Fatalf("level = %d, want %d", got, level)
		}
		correct, _ := answerKeys(t, svc, s)
		res, err := svc.SubmitAnswer(context.Background(), s.ID(), correct)
		if err != nil {
			t.Fatalf("submit level %d: %v", level, err)
		}
		if !res.Correct || res.Ended {
			t.Fatalf("level %d result: %+v", level, res)
		}
	}

	correct, _ := answerKeys(t, svc, s)
	res, err := svc.SubmitAnswer(context.Background(), s.ID(), correct)
	if err != nil {
		t.Fatalf("final submit: %v", err)
	}
	if !res.Ended || res.Prize != 1000000 {
		t.Fatalf("final result = %+v, want win with 1000000", res)
	}
	if res.Outcome == nil || res.Outcome.Type != domain.OutcomeWin {
		t.Fatalf("outcome = %+v, want win", res.Outcome)
	}
	if sessionStatus(s) != domain.StatusEnded {
		t.Fatalf("status = %q, want ended", sessionStatus(s))
	}
}

func TestClassicSafeHavenPrize(t *testing.T) {
	cases := []struct {
		failAt int
		prize  int
	}{
		{failAt: 4, prize: 0},      // no haven reached yet
		{failAt: 5, prize: 1000},   // haven at level 5
		{failAt: 7, prize: 1000},   // still the level-5 haven
		{failAt: 12, prize: 32000}, // haven at level 10
	}
	for _, tc := range cases {
		svc := newTestService(t)
		s := startedClassic(t, svc, false)
		advanceTo(t, svc, s, tc.failAt)

		_, wrong := answerKeys(t, svc, s)
		res, err := svc.SubmitAnswer(context.Background(), s.ID(), wrong)
		if err != nil {
			t.Fatalf("fail at %d: %v", tc.failAt, err)
		}
		if !res.Ended || res.Correct {
			t.Fatalf("fail at %d: %+v", tc.failAt, res)
		}
		if res.Prize != tc.prize {
			t.Errorf("fail at level %d: prize = %d, want %d", tc.failAt, res.Prize, tc.prize)
		}
		if res.Outcome == nil || res.Outcome.Type != domain.OutcomeLose || res.Outcome.Level != tc.failAt {
			t.Errorf("fail at level %d: outcome = %+v", tc.failAt, res.Outcome)
		}
	}
}

func TestClassicWalkAwayPrize(t *testing.T) {
	cases := []struct {
		atLevel int
		prize   int
	}{
		{atLevel: 1, prize: 0},
		{atLevel: 2, prize: 100},
		{atLevel: 6, prize: 1000},
		{atLevel: 11, prize: 32000},
		{atLevel: 15, prize: 500000},
	}
	for _, tc := range cases {
		svc := newTestService(t)
		s := startedClassic(t, svc, false)
		advanceTo(t, svc, s, tc.atLevel)

		res, err := svc.WalkAway(context.Background(), s.ID())
		if err != nil {
			t.Fatalf("walk away at %d: %v", tc.atLevel, err)
		}
		if !res.Ended {
			t.Fatalf("walk away at %d not ended: %+v", tc.atLevel, res)
		}
		if res.Prize != tc.prize {
			t.Errorf("walk away at level %d: prize = %d, want %d", tc.atLevel, res.Prize, tc.prize)
		}
		if res.Outcome == nil || res.Outcome.Type != domain.OutcomeWalkAway {
			t.Errorf("walk away at level %d: outcome = %+v", tc.atLevel, res.Outcome)
		}
	}
}

func TestClassicLockedStateIgnoresInput(t *testing.T) {
	svc := newTestService(t)
	s := startedClassic(t, svc, false)

	s.Update(func(d *domain.Session) { d.Current.Locked = true })

	correct, _ := answerKeys(t, svc, s)
	res, err := svc.SubmitAnswer(context.Background(), s.ID(), correct)
	if err != nil {
		t.Fatalf("submit while locked: %v", err)
	}
	if res.Applied {
		t.Fatalf("locked submit applied: %+v", res)
	}
	if walk, _ := svc.WalkAway(context.Background(), s.ID()); walk.Applied {
		t.Fatalf("locked walk-away applied: %+v", walk)
	}
	if lifeline, _ := svc.UseLifeline(context.Background(), s.ID(), domain.LifelineFiftyFifty); lifeline.Applied {
		t.Fatalf("locked lifeline applied: %+v", lifeline)
	}
}

func TestClassicEndedSessionIgnoresAnswers(t *testing.T) {
	svc := newTestService(t)
	s := startedClassic(t, svc, false)

	_, wrong := answerKeys(t, svc, s)
	if _, err := svc.SubmitAnswer(context.Background(), s.ID(), wrong); err != nil {
		t.Fatalf("losing submit: %v", err)
	}

	res, err := svc.SubmitAnswer(context.Background(), s.ID(), wrong)
	if err != nil {
		t.Fatalf("post-game submit: %v", err)
	}
	if res.Applied {
		t.Fatalf("answer applied after game over: %+v", res)
	}
}

func TestClassicRestartResetsProgress(t *testing.T) {
	svc := newTestService(t)
	s := startedClassic(t, svc, false)
	advanceTo(t, svc, s, 4)

	untimed := false
	if err := svc.StartClassic(context.Background(), s.ID(), &untimed); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if got := currentLevel(s); got != 1 {
		t.Fatalf("level after restart = %d, want 1", got)
	}
	var lifelines []string
	s.View(func(d *domain.Session) { lifelines = d.Current.UsedLifelines })
	if len(lifelines) != 0 {
		t.Fatalf("lifelines not reset: %v", lifelines)
	}
}

func TestClassicQuestionOrderOnePerLevel(t *testing.T) {
	svc := newTestService(t)
	s := startedClassic(t, svc, false)

	var order []domain.LevelQuestion
	s.View(func(d *domain.Session) { order = d.Current.QuestionOrder })
	if len(order) != domain.LadderLevels {
		t.Fatalf("order length = %d, want %d", len(order), domain.LadderLevels)
	}
	for i, lq := range order {
		if lq.Level != i+1 {
			t.Fatalf("order[%d] level = %d, want %d", i, lq.Level, i+1)
		}
	}
}

func TestClassicQuitEmitsNoOutcome(t *testing.T) {
	recorded := 0
	sink := sinkFunc(func(context.Context, string, string, domain.Outcome) error {
		recorded++
		return nil
	})
	svc := newTestService(t, func(o *Options) { o.Sink = sink })
	s := startedClassic(t, svc, false)

	if err := svc.Quit(context.Background(), s.ID()); err != nil {
		t.Fatalf("quit: %v", err)
	}
	if sessionStatus(s) != domain.StatusEnded {
		t.Fatalf("status = %q, want ended", sessionStatus(s))
	}
	if recorded != 0 {
		t.Fatalf("quit recorded %d outcomes, want 0", recorded)
	}
}

type sinkFunc func(context.Context, string, string, domain.Outcome) error

func (f sinkFunc) RecordOutcome(ctx context.Context, sessionID, hostID string, outcome domain.Outcome) error {
	return f(ctx, sessionID, hostID, outcome)
}
