package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"heresy-trivia-service/internal/domain"
	"heresy-trivia-service/internal/infra/memory"
)

func TestQuestionSetRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuestionSetLoader: memory.NewStaticQuestionLoader(sampleSet()),
	}
	repo := NewQuestionSetRepository(client, loader, time.Minute)

	set, err := repo.GetQuestionSet(context.Background())
	if err != nil {
		t.Fatalf("get set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(set.Easy) != 1 {
		t.Fatalf("unexpected set content: %+v", set)
	}
	if !mr.Exists(questionSetKey) {
		t.Fatalf("expected cached key in redis")
	}

	// Second call should hit the redis cache, loader not incremented.
	set, err = repo.GetQuestionSet(context.Background())
	if err != nil {
		t.Fatalf("get set 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if set.Easy[0].Answer != "Nicaea" {
		t.Fatalf("cache round-trip lost content: %+v", set.Easy[0])
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

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
