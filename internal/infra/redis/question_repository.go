package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"heresy-trivia-service/internal/domain"
)

// QuestionSetLoader fetches question content from a backing store
// (Postgres, a questions.json document, or the built-in set).
type QuestionSetLoader interface {
	LoadQuestionSet(ctx context.Context) (domain.QuestionSet, error)
}

const questionSetKey = "questions:set"

// QuestionSetRepository caches the serialized question set in Redis and
// falls back to the loader on cache miss. Singleflight collapses concurrent
// misses into one loader call per process.
type QuestionSetRepository struct {
	client *redis.Client
	loader QuestionSetLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionSetRepository(client *redis.Client, loader QuestionSetLoader, ttl time.Duration) *QuestionSetRepository {
	return &QuestionSetRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionSetRepository) GetQuestionSet(ctx context.Context) (domain.QuestionSet, error) {
	if set, ok := r.fromCache(ctx); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(questionSetKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.fromCache(ctx); ok {
			return set, nil
		}

		set, err := r.loader.LoadQuestionSet(ctx)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		if data, err := json.Marshal(set); err == nil {
			// Best-effort cache fill; a failed write just means a reload.
			_ = r.client.Set(ctx, questionSetKey, data, r.ttlWithJitter()).Err()
		}
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

func (r *QuestionSetRepository) fromCache(ctx context.Context) (domain.QuestionSet, bool) {
	raw, err := r.client.Get(ctx, questionSetKey).Bytes()
	if err != nil || len(raw) == 0 {
		return domain.QuestionSet{}, false
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return domain.QuestionSet{}, false
	}
	return set, true
}

func (r *QuestionSetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
