// Package packcsv imports author-supplied question packs from CSV, the
// format pack authors exchange outside the app.
//
// Expected columns: level,question,a,b,c,d,correct[,explanation]. A header
// row is detected and skipped. Rows with level 0 define the optional
// fastest-finger question.
package packcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// ParseQuestions reads CSV rows into questions. Exactly one question per
// ladder level 1..15 is required; one level-0 fastest-finger row is
// optional.
func ParseQuestions(r io.Reader) ([]domain.Question, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var questions []domain.Question
	seenLevels := make(map[int]bool)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv: %v", domain.ErrInvalidPack, err)
		}
		line++
		if line == 1 && isHeader(record) {
			continue
		}
		if len(record) < 7 {
			return nil, fmt.Errorf("%w: line %d has %d columns, want at least 7", domain.ErrInvalidPack, line, len(record))
		}

		level, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d level %q is not a number", domain.ErrInvalidPack, line, record[0])
		}
		if level < 0 || level > domain.LadderLevels {
			return nil, fmt.Errorf("%w: line %d level %d out of range", domain.ErrInvalidPack, line, level)
		}
		if seenLevels[level] {
			return nil, fmt.Errorf("%w: duplicate question for level %d", domain.ErrInvalidPack, level)
		}
		seenLevels[level] = true

		correct := strings.ToUpper(strings.TrimSpace(record[6]))
		validKey := false
		for _, key := range domain.OptionKeys {
			if correct == key {
				validKey = true
				break
			}
		}
		if !validKey {
			return nil, fmt.Errorf("%w: line %d correct option %q, want one of A-D", domain.ErrInvalidPack, line, record[6])
		}

		q := domain.Question{
			Level:  level,
			Type:   domain.QuestionMCQ,
			Prompt: strings.TrimSpace(record[1]),
			Options: map[string]string{
				"A": strings.TrimSpace(record[2]),
				"B": strings.TrimSpace(record[3]),
				"C": strings.TrimSpace(record[4]),
				"D": strings.TrimSpace(record[5]),
			},
			CorrectOption: correct,
		}
		if level == 0 {
			q.Type = domain.QuestionFFF
			q.ID = "fff1"
		} else {
			q.ID = fmt.Sprintf("q%d", level)
		}
		if len(record) > 7 {
			q.Explanation = strings.TrimSpace(record[7])
		}
		if q.Prompt == "" {
			return nil, fmt.Errorf("%w: line %d has an empty question", domain.ErrInvalidPack, line)
		}
		questions = append(questions, q)
	}

	for level := 1; level <= domain.LadderLevels; level++ {
		if !seenLevels[level] {
			return nil, fmt.Errorf("%w: no question for level %d", domain.ErrInvalidPack, level)
		}
	}
	return questions, nil
}

// BuildPack assembles a validated pack from parsed questions and a ladder
// config. The config is normalized before validation so imports always end
// up with the mandatory safe-haven levels.
func BuildPack(id, ownerID, title string, questions []domain.Question, config domain.PackConfig) (domain.Pack, error) {
	pack := domain.Pack{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Config:    config,
		Questions: questions,
	}
	pack.Normalize()
	if err := pack.Validate(); err != nil {
		return domain.Pack{}, err
	}
	return pack, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(record[0]))
	return err != nil
}
