package domain

import (
	"fmt"
	"sort"
)

// QuestionType discriminates ladder questions from fastest-finger ones.
type QuestionType string

const (
	QuestionMCQ QuestionType = "MCQ"
	QuestionFFF QuestionType = "FFF"
)

// Ladder length is fixed: 15 prize levels, index = level-1.
const LadderLevels = 15

// OptionKeys are the canonical MCQ labels, in display order.
var OptionKeys = []string{"A", "B", "C", "D"}

// Lifeline keys shipped with every pack.
const (
	LifelineFiftyFifty  = "fifty_fifty"
	LifelineAskAudience = "ask_audience"
	LifelinePhoneFriend = "phone_friend"
)

// Lifeline is a pack-configured lifeline definition.
type Lifeline struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Enabled     bool   `json:"enabled"`
}

// OutcomeMessages are the templates shown on terminal screens.
type OutcomeMessages struct {
	WinTitle        string `json:"winTitle"`
	WinMessage      string `json:"winMessage"`
	LoseTitle       string `json:"loseTitle"`
	LoseMessage     string `json:"loseMessage"`
	WalkAwayTitle   string `json:"walkAwayTitle"`
	WalkAwayMessage string `json:"walkAwayMessage"`
}

// PackConfig holds the prize ladder and game rules for a pack.
type PackConfig struct {
	CurrencySymbol   string          `json:"currencySymbol"`
	Amounts          []int           `json:"amounts"`
	GuaranteedLevels []int           `json:"guaranteedLevels"`
	Lifelines        []Lifeline      `json:"lifelines"`
	Messages         OutcomeMessages `json:"messages"`
}

// Question models one MCQ or FFF question. MCQ correctness is defined
// against the original option labels; shuffling remaps labels without
// losing that reference.
type Question struct {
	ID            string            `json:"id"`
	Level         int               `json:"level"`
	Type          QuestionType      `json:"type"`
	Prompt        string            `json:"promptText"`
	Options       map[string]string `json:"options,omitempty"`
	OrderItems    []string          `json:"orderItems,omitempty"`
	CorrectOption string            `json:"correctOption,omitempty"`
	CorrectOrder  []string          `json:"correctOrder,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
	Image         string            `json:"image,omitempty"`
}

// Pack is an author-supplied question pack.
type Pack struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Config      PackConfig `json:"config"`
	Questions   []Question `json:"questions"`
}

// Validate reports malformed pack data. This is the programmer-error class:
// packs that fail here must never reach a session.
func (p Pack) Validate() error {
	if len(p.Config.Amounts) != LadderLevels {
		return fmt.Errorf("%w: ladder has %d amounts, want %d", ErrInvalidPack, len(p.Config.Amounts), LadderLevels)
	}
	for i := 1; i < len(p.Config.Amounts); i++ {
		if p.Config.Amounts[i] <= p.Config.Amounts[i-1] {
			return fmt.Errorf("%w: ladder amounts must ascend (index %d)", ErrInvalidPack, i)
		}
	}
	for _, level := range p.Config.GuaranteedLevels {
		if level < 1 || level > LadderLevels {
			return fmt.Errorf("%w: guaranteed level %d out of range", ErrInvalidPack, level)
		}
	}
	fffCount := 0
	for _, q := range p.Questions {
		switch q.Type {
		case QuestionMCQ:
			if q.Level < 1 || q.Level > LadderLevels {
				return fmt.Errorf("%w: question %s level %d out of range", ErrInvalidPack, q.ID, q.Level)
			}
			if q.CorrectOption == "" || q.Options[q.CorrectOption] == "" {
				return fmt.Errorf("%w: question %s has no correct option", ErrInvalidPack, q.ID)
			}
		case QuestionFFF:
			fffCount++
			if q.CorrectOption == "" && len(q.CorrectOrder) == 0 {
				return fmt.Errorf("%w: FFF question %s has no answer reference", ErrInvalidPack, q.ID)
			}
		default:
			return fmt.Errorf("%w: question %s has unknown type %q", ErrInvalidPack, q.ID, q.Type)
		}
	}
	if fffCount > 1 {
		return fmt.Errorf("%w: pack holds %d FFF questions, at most one allowed", ErrInvalidPack, fffCount)
	}
	return nil
}

// Normalize fills defaults the authoring flow may omit: guaranteed levels
// always include 5, 10 and 15, sorted ascending, and the outcome message
// templates fall back to the stock ones.
func (p *Pack) Normalize() {
	guaranteed := map[int]bool{5: true, 10: true, LadderLevels: true}
	for _, level := range p.Config.GuaranteedLevels {
		guaranteed[level] = true
	}
	levels := make([]int, 0, len(guaranteed))
	for level := range guaranteed {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	p.Config.GuaranteedLevels = levels

	msgs := &p.Config.Messages
	if msgs.WinTitle == "" {
		msgs.WinTitle = "Congratulations!"
	}
	if msgs.WinMessage == "" {
		msgs.WinMessage = "You are a millionaire!"
	}
	if msgs.LoseTitle == "" {
		msgs.LoseTitle = "Game Over"
	}
	if msgs.LoseMessage == "" {
		msgs.LoseMessage = "Better luck next time!"
	}
	if msgs.WalkAwayTitle == "" {
		msgs.WalkAwayTitle = "Well Played!"
	}
	if msgs.WalkAwayMessage == "" {
		msgs.WalkAwayMessage = "You walked away with:"
	}
}

// QuestionByID returns the question with the given id.
func (p Pack) QuestionByID(id string) (Question, bool) {
	for _, q := range p.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// FFFQuestion returns the pack's single fastest-finger question.
func (p Pack) FFFQuestion() (Question, bool) {
	for _, q := range p.Questions {
		if q.Type == QuestionFFF {
			return q, true
		}
	}
	return Question{}, false
}

// IsGuaranteed reports whether level is a safe haven.
func (c PackConfig) IsGuaranteed(level int) bool {
	for _, l := range c.GuaranteedLevels {
		if l == level {
			return true
		}
	}
	return false
}

// TopPrize is the level-15 amount.
func (c PackConfig) TopPrize() int {
	return c.Amounts[LadderLevels-1]
}

// SafeHavenPrize resolves a loss on the given level's question: the amount
// at the highest guaranteed level at or below that level, or 0 if none was
// reached.
func (c PackConfig) SafeHavenPrize(level int) int {
	best := 0
	for _, l := range c.GuaranteedLevels {
		if l <= level && l > best {
			best = l
		}
	}
	if best == 0 {
		return 0
	}
	return c.Amounts[best-1]
}

// WalkAwayPrize banks the last cleared rung regardless of safe havens:
// the amount at level-1, or 0 when no question has been answered yet.
// Deliberately asymmetric with SafeHavenPrize.
func (c PackConfig) WalkAwayPrize(level int) int {
	idx := level - 2
	if idx < 0 {
		return 0
	}
	return c.Amounts[idx]
}
