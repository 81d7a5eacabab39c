package memory

import "github.com/ismailukman/millionaire-live/internal/domain"

// DefaultPackID identifies the bundled pack every deployment ships with.
const DefaultPackID = "pack_default"

// DefaultPack returns the bundled 15-question pack plus one fastest-finger
// question. Callers get a fresh copy each time.
func DefaultPack() domain.Pack {
	return domain.Pack{
		ID:          DefaultPackID,
		OwnerID:     "system",
		Title:       "Millionaire Questions",
		Description: "A cinematic mix of pop culture, history, and science.",
		Config: domain.PackConfig{
			CurrencySymbol:   "$",
			Amounts:          []int{100, 200, 300, 500, 1000, 2000, 4000, 8000, 16000, 32000, 64000, 125000, 250000, 500000, 1000000},
			GuaranteedLevels: []int{5, 10, 15},
			Lifelines: []domain.Lifeline{
				{Key: domain.LifelineFiftyFifty, DisplayName: "50:50", Enabled: true},
				{Key: domain.LifelineAskAudience, DisplayName: "Ask the Audience", Enabled: true},
				{Key: domain.LifelinePhoneFriend, DisplayName: "Phone a Friend", Enabled: true},
			},
			Messages: domain.OutcomeMessages{
				WinTitle:        "Congratulations!",
				WinMessage:      "You are a millionaire!",
				LoseTitle:       "Game Over",
				LoseMessage:     "Better luck next time!",
				WalkAwayTitle:   "Well Played!",
				WalkAwayMessage: "You walked away with:",
			},
		},
		Questions: []domain.Question{
			{
				ID: "q1", Level: 1, Type: domain.QuestionMCQ,
				Prompt:        "Which planet is known as the Red Planet?",
				Options:       map[string]string{"A": "Mars", "B": "Venus", "C": "Jupiter", "D": "Mercury"},
				CorrectOption: "A",
				Explanation:   "Mars appears red due to iron oxide on its surface.",
			},
			{
				ID: "q2", Level: 2, Type: domain.QuestionMCQ,
				Prompt:        "What is the capital of Canada?",
				Options:       map[string]string{"A": "Toronto", "B": "Vancouver", "C": "Ottawa", "D": "Montreal"},
				CorrectOption: "C",
			},
			{
				ID: "q3", Level: 3, Type: domain.QuestionMCQ,
				Prompt:        "Which instrument has 88 keys?",
				Options:       map[string]string{"A": "Harp", "B": "Piano", "C": "Accordion", "D": "Organ"},
				CorrectOption: "B",
			},
			{
				ID: "q4", Level: 4, Type: domain.QuestionMCQ,
				Prompt:        "The Great Barrier Reef is located off the coast of which country?",
				Options:       map[string]string{"A": "Mexico", "B": "Australia", "C": "South Africa", "D": "Brazil"},
				CorrectOption: "B",
			},
			{
				ID: "q5", Level: 5, Type: domain.QuestionMCQ,
				Prompt:        "Which element has the chemical symbol O?",
				Options:       map[string]string{"A": "Gold", "B": "Oxygen", "C": "Osmium", "D": "Tin"},
				CorrectOption: "B",
			},
			{
				ID: "q6", Level: 6, Type: domain.QuestionMCQ,
				Prompt:        "Who wrote 'Pride and Prejudice'?",
				Options:       map[string]string{"A": "Charlotte Bronte", "B": "Jane Austen", "C": "Mary Shelley", "D": "Emily Dickinson"},
				CorrectOption: "B",
			},
			{
				ID: "q7", Level: 7, Type: domain.QuestionMCQ,
				Prompt:        "Which ocean is the largest on Earth?",
				Options:       map[string]string{"A": "Atlantic", "B": "Indian", "C": "Pacific", "D": "Arctic"},
				CorrectOption: "C",
			},
			{
				ID: "q8", Level: 8, Type: domain.QuestionMCQ,
				Prompt:        "What is the name of the first artificial satellite launched into space?",
				Options:       map[string]string{"A": "Voyager", "B": "Sputnik", "C": "Apollo", "D": "Pioneer"},
				CorrectOption: "B",
			},
			{
				ID: "q9", Level: 9, Type: domain.QuestionMCQ,
				Prompt:        "Which city hosted the 2012 Summer Olympics?",
				Options:       map[string]string{"A": "London", "B": "Beijing", "C": "Rio de Janeiro", "D": "Tokyo"},
				CorrectOption: "A",
			},
			{
				ID: "q10", Level: 10, Type: domain.QuestionMCQ,
				Prompt:        "What is the hardest natural substance?",
				Options:       map[string]string{"A": "Diamond", "B": "Quartz", "C": "Granite", "D": "Platinum"},
				CorrectOption: "A",
			},
			{
				ID: "q11", Level: 11, Type: domain.QuestionMCQ,
				Prompt:        "Which artist painted the ceiling of the Sistine Chapel?",
				Options:       map[string]string{"A": "Raphael", "B": "Michelangelo", "C": "Da Vinci", "D": "Caravaggio"},
				CorrectOption: "B",
			},
			{
				ID: "q12", Level: 12, Type: domain.QuestionMCQ,
				Prompt:        "What is the longest river in the world?",
				Options:       map[string]string{"A": "Amazon", "B": "Nile", "C": "Yangtze", "D": "Mississippi"},
				CorrectOption: "B",
			},
			{
				ID: "q13", Level: 13, Type: domain.QuestionMCQ,
				Prompt:        "Which gas makes up the majority of Earth's atmosphere?",
				Options:       map[string]string{"A": "Oxygen", "B": "Nitrogen", "C": "Carbon Dioxide", "D": "Argon"},
				CorrectOption: "B",
			},
			{
				ID: "q14", Level: 14, Type: domain.QuestionMCQ,
				Prompt:        "What is the largest desert in the world?",
				Options:       map[string]string{"A": "Sahara", "B": "Gobi", "C": "Antarctic Desert", "D": "Arabian"},
				CorrectOption: "C",
			},
			{
				ID: "q15", Level: 15, Type: domain.QuestionMCQ,
				Prompt:        "Which physicist developed the theory of general relativity?",
				Options:       map[string]string{"A": "Isaac Newton", "B": "Albert Einstein", "C": "Niels Bohr", "D": "Marie Curie"},
				CorrectOption: "B",
			},
			{
				ID: "fff1", Level: 0, Type: domain.QuestionFFF,
				Prompt:        "Fastest Finger: Which Surah is known as The Opening?",
				Options:       map[string]string{"A": "Al-Fatihah", "B": "Al-Baqarah", "C": "Al-Ikhlas", "D": "Al-Kahf"},
				CorrectOption: "A",
			},
		},
	}
}
