package app

import (
	"hash/fnv"
	"math/rand"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// shuffledOptions returns the display order for one question under the
// session's seed, remapping the correct answer to its shuffled label.
// Results are cached under the composite (questionID, seed) key so repeated
// reads return bit-identical orderings.
func shuffledOptions(q domain.Question, seed int64, cache map[domain.ShuffleKey]domain.ShuffledOptions) domain.ShuffledOptions {
	key := domain.ShuffleKey{QuestionID: q.ID, Seed: seed}
	if cached, ok := cache[key]; ok {
		return cached
	}

	rng := rand.New(rand.NewSource(seed ^ int64(hashString(q.ID))))
	values := make([]string, len(domain.OptionKeys))
	for i, label := range domain.OptionKeys {
		values[i] = q.Options[label]
	}
	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	options := make(map[string]string, len(domain.OptionKeys))
	for i, label := range domain.OptionKeys {
		options[label] = values[i]
	}

	// Correctness follows the original label's value through the shuffle.
	correctValue := q.Options[q.CorrectOption]
	correct := q.CorrectOption
	for _, label := range domain.OptionKeys {
		if options[label] == correctValue {
			correct = label
			break
		}
	}

	shuffled := domain.ShuffledOptions{Options: options, CorrectOption: correct}
	cache[key] = shuffled
	return shuffled
}

// identityOptions is the live-classic path: options are transmitted
// unshuffled so every client sees the same order.
func identityOptions(q domain.Question) domain.ShuffledOptions {
	options := make(map[string]string, len(q.Options))
	for label, value := range q.Options {
		options[label] = value
	}
	return domain.ShuffledOptions{Options: options, CorrectOption: q.CorrectOption}
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
