package domain

import (
	"errors"
	"fmt"
	"testing"
)

func validPack() Pack {
	pack := Pack{
		ID: "p1",
		Config: PackConfig{
			CurrencySymbol:   "$",
			Amounts:          []int{100, 200, 300, 500, 1000, 2000, 4000, 8000, 16000, 32000, 64000, 125000, 250000, 500000, 1000000},
			GuaranteedLevels: []int{5, 10, 15},
		},
	}
	for level := 1; level <= LadderLevels; level++ {
		pack.Questions = append(pack.Questions, Question{
			ID:            fmt.Sprintf("q%d", level),
			Level:         level,
			Type:          QuestionMCQ,
			Prompt:        "?",
			Options:       map[string]string{"A": "1", "B": "2", "C": "3", "D": "4"},
			CorrectOption: "A",
		})
	}
	return pack
}

func TestValidateAcceptsWellFormedPack(t *testing.T) {
	pack := validPack()
	if err := pack.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsMalformedPacks(t *testing.T) {
	cases := map[string]func(*Pack){
		"short ladder":     func(p *Pack) { p.Config.Amounts = p.Config.Amounts[:10] },
		"non-ascending":    func(p *Pack) { p.Config.Amounts[3] = p.Config.Amounts[2] },
		"haven range":      func(p *Pack) { p.Config.GuaranteedLevels = []int{16} },
		"level range":      func(p *Pack) { p.Questions[0].Level = 0 },
		"missing correct":  func(p *Pack) { p.Questions[2].CorrectOption = "E" },
		"unknown type":     func(p *Pack) { p.Questions[4].Type = "ESSAY" },
		"two fff questions": func(p *Pack) {
			p.Questions = append(p.Questions,
				Question{ID: "f1", Type: QuestionFFF, CorrectOption: "A"},
				Question{ID: "f2", Type: QuestionFFF, CorrectOption: "B"},
			)
		},
	}
	for name, mutate := range cases {
		pack := validPack()
		mutate(&pack)
		if err := pack.Validate(); !errors.Is(err, ErrInvalidPack) {
			t.Errorf("%s: expected ErrInvalidPack, got %v", name, err)
		}
	}
}

func TestNormalizeForcesMandatoryHavens(t *testing.T) {
	pack := validPack()
	pack.Config.GuaranteedLevels = []int{7}
	pack.Normalize()

	want := []int{5, 7, 10, 15}
	if len(pack.Config.GuaranteedLevels) != len(want) {
		t.Fatalf("havens = %v, want %v", pack.Config.GuaranteedLevels, want)
	}
	for i, level := range want {
		if pack.Config.GuaranteedLevels[i] != level {
			t.Fatalf("havens = %v, want %v", pack.Config.GuaranteedLevels, want)
		}
	}
	if pack.Config.Messages.WinMessage == "" {
		t.Fatal("normalize left win message empty")
	}
}

func TestSafeHavenPrize(t *testing.T) {
	cfg := validPack().Config
	cases := []struct {
		loseAt int
		want   int
	}{
		{1, 0},
		{4, 0},
		{5, 1000},
		{7, 1000},
		{10, 32000},
		{12, 32000},
		{15, 1000000},
	}
	for _, tc := range cases {
		if got := cfg.SafeHavenPrize(tc.loseAt); got != tc.want {
			t.Errorf("SafeHavenPrize(%d) = %d, want %d", tc.loseAt, got, tc.want)
		}
	}
}

func TestWalkAwayPrize(t *testing.T) {
	cfg := validPack().Config
	cases := []struct {
		atLevel int
		want    int
	}{
		{1, 0},
		{2, 100},
		{3, 200},
		{7, 2000},
		{15, 500000},
	}
	for _, tc := range cases {
		if got := cfg.WalkAwayPrize(tc.atLevel); got != tc.want {
			t.Errorf("WalkAwayPrize(%d) = %d, want %d", tc.atLevel, got, tc.want)
		}
	}
}

func TestTopPrizeAndHavens(t *testing.T) {
	cfg := validPack().Config
	if got := cfg.TopPrize(); got != 1000000 {
		t.Fatalf("top prize = %d", got)
	}
	if !cfg.IsGuaranteed(10) || cfg.IsGuaranteed(9) {
		t.Fatal("IsGuaranteed misreports havens")
	}
}
