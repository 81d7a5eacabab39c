package app

import (
	"reflect"
	"testing"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

func sampleQuestion() domain.Question {
	return domain.Question{
		ID:    "q7",
		Level: 7,
		Type:  domain.QuestionMCQ,
		Options: map[string]string{
			"A": "alpha", "B": "bravo", "C": "charlie", "D": "delta",
		},
		CorrectOption: "B",
	}
}

func TestShuffleStableForSameKey(t *testing.T) {
	q := sampleQuestion()
	cache := make(map[domain.ShuffleKey]domain.ShuffledOptions)

	first := shuffledOptions(q, 42, cache)
	second := shuffledOptions(q, 42, cache)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeat read differs:\n%+v\n%+v", first, second)
	}

	// A fresh cache with the same seed reproduces the same order.
	rebuilt := shuffledOptions(q, 42, make(map[domain.ShuffleKey]domain.ShuffledOptions))
	if !reflect.DeepEqual(first, rebuilt) {
		t.Fatalf("same seed not deterministic:\n%+v\n%+v", first, rebuilt)
	}
}

func TestShuffleRemapsCorrectOption(t *testing.T) {
	q := sampleQuestion()
	for seed := int64(0); seed < 50; seed++ {
		shuffled := shuffledOptions(q, seed, make(map[domain.ShuffleKey]domain.ShuffledOptions))
		if got := shuffled.Options[shuffled.CorrectOption]; got != "bravo" {
			t.Fatalf("seed %d: correct key %s holds %q, want bravo", seed, shuffled.CorrectOption, got)
		}
		values := map[string]bool{}
		for _, key := range domain.OptionKeys {
			values[shuffled.Options[key]] = true
		}
		if len(values) != 4 {
			t.Fatalf("seed %d: shuffle lost options: %+v", seed, shuffled.Options)
		}
	}
}

func TestShuffleCacheKeyedBySeed(t *testing.T) {
	q := sampleQuestion()
	cache := make(map[domain.ShuffleKey]domain.ShuffledOptions)
	shuffledOptions(q, 1, cache)
	shuffledOptions(q, 2, cache)
	if len(cache) != 2 {
		t.Fatalf("cache entries = %d, want one per (question, seed)", len(cache))
	}
}

func TestIdentityOptionsPassThrough(t *testing.T) {
	q := sampleQuestion()
	plain := identityOptions(q)
	if plain.CorrectOption != "B" {
		t.Fatalf("correct = %q, want B", plain.CorrectOption)
	}
	if !reflect.DeepEqual(plain.Options, q.Options) {
		t.Fatalf("options changed: %+v", plain.Options)
	}
}
