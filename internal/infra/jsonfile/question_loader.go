package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"heresy-trivia-service/internal/domain"
)

// QuestionSetLoader reads a questions.json document from disk. The layout is
// the original browser game's: questions grouped under easy/medium/hard.
type QuestionSetLoader struct {
	path string
}

func NewQuestionSetLoader(path string) *QuestionSetLoader {
	return &QuestionSetLoader{path: path}
}

func (l *QuestionSetLoader) LoadQuestionSet(_ context.Context) (domain.QuestionSet, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("read questions file: %w", err)
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("parse questions file: %w", err)
	}
	return set, nil
}
