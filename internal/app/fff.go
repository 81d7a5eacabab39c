package app

import (
	"sort"
	"time"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// FFFRound identifies one fastest-finger round. Latency is always measured
// against StartedAt as recorded here, never against client wall clocks.
type FFFRound struct {
	ID           string
	StartedAt    time.Time
	TimerSeconds int
}

// scoreFFF grades a submission against the canonical answer: option
// equality for single-option questions, exact sequence equality for ordering
// questions. No partial credit.
func scoreFFF(q domain.Question, ans domain.FFFAnswer) bool {
	if q.CorrectOption != "" {
		return ans.Option == q.CorrectOption
	}
	if len(q.CorrectOrder) == 0 || len(ans.Order) != len(q.CorrectOrder) {
		return false
	}
	for i, item := range q.CorrectOrder {
		if ans.Order[i] != item {
			return false
		}
	}
	return true
}

// RankSubmissions computes the round winner. Submissions from other rounds
// are filtered at read time rather than deleted, so a late write from a slow
/// client can never resurrect a finished round. The order is total: correct
// beats incorrect, then lower latency, then arrival order.
func RankSubmissions(subs map[string]domain.FFFSubmission, roundID string) (string, bool) {
	candidates := make([]domain.FFFSubmission, 0, len(subs))
	for _, sub := range subs {
		if roundID != "" && sub.RoundID != roundID {
			continue
		}
		candidates = append(candidates, sub)
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.IsCorrect != b.IsCorrect {
			return a.IsCorrect
		}
		if a.LatencyMS != b.LatencyMS {
			return a.LatencyMS < b.LatencyMS
		}
		return a.Seq < b.Seq
	})
	return candidates[0].ParticipantID, true
}

// tallyFFF counts current-round votes per option key for the host screen.
func tallyFFF(subs map[string]domain.FFFSubmission, roundID string, q domain.Question) map[string]int {
	counts := make(map[string]int, len(q.Options))
	for _, label := range domain.OptionKeys {
		if _, ok := q.Options[label]; ok {
			counts[label] = 0
		}
	}
	for _, sub := range subs {
		if roundID != "" && sub.RoundID != roundID {
			continue
		}
		if _, ok := counts[sub.Answer.Option]; ok {
			counts[sub.Answer.Option]++
		}
	}
	return counts
}
