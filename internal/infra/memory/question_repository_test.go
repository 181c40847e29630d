package memory

import (
	"context"
	"testing"
	"time"

	"heresy-trivia-service/internal/domain"
)

func TestQuestionSetRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionSetLoader: NewStaticQuestionLoader(sampleSet()),
	}
	repo := NewQuestionSetRepository(loader, time.Minute)

	if _, err := repo.GetQuestionSet(context.Background()); err != nil {
		t.Fatalf("get set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	set, err := repo.GetQuestionSet(context.Background())
	if err != nil {
		t.Fatalf("get set 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(set.Easy) != 1 || set.Easy[0].ID != 1 {
		t.Fatalf("unexpected cached content: %+v", set)
	}
}

type countingLoader struct {
	QuestionSetLoader
	calls int
}

func (l *countingLoader) LoadQuestionSet(ctx context.Context) (domain.QuestionSet, error) {
	l.calls++
	return l.QuestionSetLoader.LoadQuestionSet(ctx)
}

func sampleSet() domain.QuestionSet {
	return domain.QuestionSet{
		Easy: []domain.Question{
			{ID: 1, Text: "What council was in 325 AD?", Options: []string{"Nicaea", "Trent"}, Answer: "Nicaea", Council: "Nicaea", HeresyPoints: 1, TimeLimitSeconds: 30},
		},
	}
}
