package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"heresy-trivia-service/internal/domain"
)

// QuestionSetLoader loads the question-set JSONB document from Postgres.
type QuestionSetLoader struct {
	pool  *pgxpool.Pool
	setID string
}

// NewQuestionSetLoader reads the named set; an empty setID means "default".
func NewQuestionSetLoader(pool *pgxpool.Pool, setID string) *QuestionSetLoader {
	if setID == "" {
		setID = "default"
	}
	return &QuestionSetLoader{pool: pool, setID: setID}
}

func (l *QuestionSetLoader) LoadQuestionSet(ctx context.Context) (domain.QuestionSet, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE id=$1`, l.setID).Scan(&raw)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load question set: %w", err)
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("unmarshal question set: %w", err)
	}
	return set, nil
}
