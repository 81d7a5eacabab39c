package app

import (
	"math/rand"
	"time"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// TimerConfig controls timed classic play. Zero value means untimed.
type TimerConfig struct {
	Enabled bool
	Seconds int
}

// AnswerResolution is the pure result of resolving one answer: everything a
// transport needs to commit the transition, plus everything the presentation
// layer needs for the reveal. Applied is false for ignored actions (locked
// state, no current question).
type AnswerResolution struct {
	Applied       bool
	Selected      string
	Correct       bool
	CorrectOption string
	Ended         bool
	Prize         int
	Next          domain.CurrentState
	Status        domain.Status
	Outcome       *domain.Outcome
}

// buildQuestionOrder draws one MCQ per ladder level, randomly among
// same-level candidates. This draw is the only randomness source for level
// content and stays fixed for the session's lifetime.
func buildQuestionOrder(pack domain.Pack, rng *rand.Rand) []domain.LevelQuestion {
	byLevel := make(map[int][]domain.Question)
	for _, q := range pack.Questions {
		if q.Type == domain.QuestionMCQ {
			byLevel[q.Level] = append(byLevel[q.Level], q)
		}
	}
	order := make([]domain.LevelQuestion, 0, domain.LadderLevels)
	for level := 1; level <= domain.LadderLevels; level++ {
		candidates := byLevel[level]
		if len(candidates) == 0 {
			continue
		}
		pick := candidates[rng.Intn(len(candidates))]
		order = append(order, domain.LevelQuestion{Level: level, QuestionID: pick.ID})
	}
	return order
}

// newClassicState resets progress for a fresh classic game.
func newClassicState(pack domain.Pack, rng *rand.Rand, timer TimerConfig) domain.CurrentState {
	state := domain.CurrentState{
		Level:           1,
		QuestionOrder:   buildQuestionOrder(pack, rng),
		UsedLifelines:   []string{},
		DisabledOptions: []string{},
		ShuffleSeed:     rng.Int63(),
		Shuffles:        make(map[domain.ShuffleKey]domain.ShuffledOptions),
	}
	if timer.Enabled && timer.Seconds > 0 {
		secs := timer.Seconds
		state.TimerSeconds = &secs
	}
	return state
}

// currentQuestionLocked resolves the drawn question for the session's level.
func currentQuestionLocked(d *domain.Session, pack domain.Pack) (domain.Question, bool) {
	id, ok := d.CurrentQuestionID()
	if !ok {
		return domain.Question{}, false
	}
	return pack.QuestionByID(id)
}

// resolveAnswerLocked computes the answer transition without mutating
// anything. The caller holds the session lock.
func resolveAnswerLocked(d *domain.Session, pack domain.Pack, shuffled domain.ShuffledOptions, selected string, refresh TimerConfig, now time.Time) AnswerResolution {
	if d.Status != domain.StatusLive || d.Current.Locked {
		return AnswerResolution{}
	}

	correct := selected == shuffled.CorrectOption
	next := cloneState(d.Current)
	next.Locked = true

	res := AnswerResolution{
		Applied:       true,
		Selected:      selected,
		Correct:       correct,
		CorrectOption: shuffled.CorrectOption,
		Status:        domain.StatusLive,
	}

	elapsed := int64(0)
	if !d.StartedAt.IsZero() {
		elapsed = now.Sub(d.StartedAt).Milliseconds()
	}
	lifelines := append([]string(nil), d.Current.UsedLifelines...)

	switch {
	case correct && d.Current.Level >= domain.LadderLevels:
		next.Feedback = pack.Config.Messages.WinMessage
		next.FeedbackTone = "good"
		res.Ended = true
		res.Prize = pack.Config.TopPrize()
		res.Status = domain.StatusEnded
		res.Outcome = &domain.Outcome{
			Type:          domain.OutcomeWin,
			Level:         d.Current.Level,
			Prize:         res.Prize,
			ElapsedMS:     elapsed,
			LifelinesUsed: lifelines,
		}
	case correct:
		next.Level++
		next.Locked = false
		next.DisabledOptions = []string{}
		next.Feedback = ""
		next.FeedbackTone = ""
		if next.TimerSeconds != nil && refresh.Seconds > 0 {
			secs := refresh.Seconds
			next.TimerSeconds = &secs
		}
	default:
		// Safe haven resolves against the level at the time of the
		// question just answered, not the one failed into.
		res.Prize = pack.Config.SafeHavenPrize(d.Current.Level)
		next.Feedback = "Game over. Safe haven prize: " + domain.FormatMoney(pack.Config.CurrencySymbol, res.Prize)
		next.FeedbackTone = "bad"
		res.Ended = true
		res.Status = domain.StatusEnded
		res.Outcome = &domain.Outcome{
			Type:          domain.OutcomeLose,
			Level:         d.Current.Level,
			Prize:         res.Prize,
			ElapsedMS:     elapsed,
			LifelinesUsed: lifelines,
		}
	}

	res.Next = next
	return res
}

// resolveWalkAwayLocked banks the last cleared rung: ladder amount at
// level-1 regardless of safe-haven status.
func resolveWalkAwayLocked(d *domain.Session, pack domain.Pack, now time.Time) AnswerResolution {
	if d.Status != domain.StatusLive || d.Current.Locked {
		return AnswerResolution{}
	}

	prize := pack.Config.WalkAwayPrize(d.Current.Level)
	next := cloneState(d.Current)
	next.Locked = true
	next.Feedback = "Walked away with " + domain.FormatMoney(pack.Config.CurrencySymbol, prize) + "."
	next.FeedbackTone = "good"

	elapsed := int64(0)
	if !d.StartedAt.IsZero() {
		elapsed = now.Sub(d.StartedAt).Milliseconds()
	}

	return AnswerResolution{
		Applied: true,
		Ended:   true,
		Prize:   prize,
		Next:    next,
		Status:  domain.StatusEnded,
		Outcome: &domain.Outcome{
			Type:          domain.OutcomeWalkAway,
			Level:         d.Current.Level,
			Prize:         prize,
			ElapsedMS:     elapsed,
			LifelinesUsed: append([]string(nil), d.Current.UsedLifelines...),
		},
	}
}

func cloneState(c domain.CurrentState) domain.CurrentState {
	next := c
	next.QuestionOrder = append([]domain.LevelQuestion(nil), c.QuestionOrder...)
	next.UsedLifelines = append([]string(nil), c.UsedLifelines...)
	next.DisabledOptions = append([]string(nil), c.DisabledOptions...)
	if c.TimerSeconds != nil {
		secs := *c.TimerSeconds
		next.TimerSeconds = &secs
	}
	next.Shuffles = nil
	return next
}
