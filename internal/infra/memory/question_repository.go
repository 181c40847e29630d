package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"heresy-trivia-service/internal/domain"
)

// QuestionSetLoader fetches question content from a backing store
// (Postgres, a questions.json document, or the built-in set).
type QuestionSetLoader interface {
	LoadQuestionSet(ctx context.Context) (domain.QuestionSet, error)
}

// QuestionSetRepository caches the loaded set with a TTL to avoid repeated
// backing-store hits when sessions start in bursts.
type QuestionSetRepository struct {
	loader QuestionSetLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    domain.QuestionSet
	hasCache  bool
	expiresAt time.Time
}

func NewQuestionSetRepository(loader QuestionSetLoader, ttl time.Duration) *QuestionSetRepository {
	return &QuestionSetRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionSetRepository) GetQuestionSet(ctx context.Context) (domain.QuestionSet, error) {
	now := r.clock()

	r.mu.RLock()
	if r.hasCache && r.expiresAt.After(now) {
		set := r.cached
		r.mu.RUnlock()
		return set, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("questions", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.hasCache && r.expiresAt.After(now) {
			set := r.cached
			r.mu.RUnlock()
			return set, nil
		}
		r.mu.RUnlock()

		set, err := r.loader.LoadQuestionSet(ctx)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		r.mu.Lock()
		r.cached = set
		r.hasCache = true
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

// StaticQuestionLoader serves a fixed in-memory set (tests, demos, and the
// last-resort fallback).
type StaticQuestionLoader struct {
	set domain.QuestionSet
}

func NewStaticQuestionLoader(set domain.QuestionSet) *StaticQuestionLoader {
	return &StaticQuestionLoader{set: set}
}

func (l *StaticQuestionLoader) LoadQuestionSet(_ context.Context) (domain.QuestionSet, error) {
	return l.set, nil
}

func (r *QuestionSetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
