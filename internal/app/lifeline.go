package app

import (
	"math/rand"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// FriendHint is the simulated phone-a-friend response.
type FriendHint struct {
	Option      string `json:"option"`
	Reliability int    `json:"reliability"`
}

// LifelineResult carries the presentation payload of a lifeline. Applied is
// false when the lifeline was already used or no question is active.
type LifelineResult struct {
	Applied  bool           `json:"applied"`
	Key      string         `json:"key"`
	Disabled []string       `json:"disabled,omitempty"`
	Poll     map[string]int `json:"poll,omitempty"`
	Friend   *FriendHint    `json:"friend,omitempty"`
}

// resolveLifelineLocked spends a lifeline and produces its hint data. Hints
// are generated against the same shuffled correct key used for scoring, so a
// displayed poll can never contradict the answer that will be graded.
func resolveLifelineLocked(d *domain.Session, shuffled domain.ShuffledOptions, key string, rng *rand.Rand) (LifelineResult, domain.CurrentState) {
	if d.Status != domain.StatusLive || d.Current.Locked || d.Current.UsedLifeline(key) {
		return LifelineResult{}, domain.CurrentState{}
	}

	next := cloneState(d.Current)
	next.UsedLifelines = append(next.UsedLifelines, key)
	res := LifelineResult{Applied: true, Key: key}

	switch key {
	case domain.LifelineFiftyFifty:
		incorrect := make([]string, 0, len(domain.OptionKeys)-1)
		for _, label := range domain.OptionKeys {
			if label != shuffled.CorrectOption {
				incorrect = append(incorrect, label)
			}
		}
		rng.Shuffle(len(incorrect), func(i, j int) {
			incorrect[i], incorrect[j] = incorrect[j], incorrect[i]
		})
		// Exactly two wrong options go dark, leaving the correct key
		// and one decoy.
		res.Disabled = incorrect[:2]
		next.DisabledOptions = append([]string(nil), res.Disabled...)
	case domain.LifelineAskAudience:
		res.Poll = audiencePoll(d.Current.Level, shuffled.CorrectOption, rng)
	case domain.LifelinePhoneFriend:
		hint := phoneFriendHint(d.Current.Level, shuffled.CorrectOption, rng)
		res.Friend = &hint
	}

	return res, next
}

// audiencePoll simulates a poll biased toward the correct answer. The
// correct share starts at 65% and shrinks two points per level, floored at
// 35 and capped at 80, so hint confidence never increases with level. Shares
// always sum to 100 and the correct option always holds the strict maximum.
func audiencePoll(level int, correct string, rng *rand.Rand) map[string]int {
	base := 65 - level*2
	share := base + rng.Intn(10)
	if share < 35 {
		share = 35
	}
	if share > 80 {
		share = 80
	}

	others := make([]string, 0, len(domain.OptionKeys)-1)
	for _, label := range domain.OptionKeys {
		if label != correct {
			others = append(others, label)
		}
	}
	rng.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	remaining := 100 - share
	poll := map[string]int{correct: share}
	poll[others[0]] = remaining * 50 / 100
	poll[others[1]] = remaining * 30 / 100
	poll[others[2]] = remaining - poll[others[0]] - poll[others[1]]
	return poll
}

// phoneFriendHint simulates the friend: right with probability equal to a
// reliability score that declines three points per level, floored at 35.
func phoneFriendHint(level int, correct string, rng *rand.Rand) FriendHint {
	reliability := 80 - level*3
	if reliability < 35 {
		reliability = 35
	}
	if rng.Intn(100) < reliability {
		return FriendHint{Option: correct, Reliability: reliability}
	}
	others := make([]string, 0, len(domain.OptionKeys)-1)
	for _, label := range domain.OptionKeys {
		if label != correct {
			others = append(others, label)
		}
	}
	return FriendHint{Option: others[rng.Intn(len(others))], Reliability: reliability}
}
