package memory

import (
	"context"
	"sync"

	"heresy-trivia-service/internal/domain"
)

// UsedQuestionStore keeps served-question keys in process memory. It backs
// tests and redis-less deployments; history does not survive a restart.
type UsedQuestionStore struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

func NewUsedQuestionStore() *UsedQuestionStore {
	return &UsedQuestionStore{sets: make(map[string]map[string]struct{})}
}

func (s *UsedQuestionStore) Load(_ context.Context, playerID string, d domain.Difficulty) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.sets[s.key(playerID, d)]
	out := make(map[string]struct{}, len(stored))
	for k := range stored {
		out[k] = struct{}{}
	}
	return out, nil
}

func (s *UsedQuestionStore) Add(_ context.Context, playerID string, d domain.Difficulty, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.sets[s.key(playerID, d)]
	if bucket == nil {
		bucket = make(map[string]struct{})
		s.sets[s.key(playerID, d)] = bucket
	}
	bucket[key] = struct{}{}
	return nil
}

func (s *UsedQuestionStore) Clear(_ context.Context, playerID string, d domain.Difficulty) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, s.key(playerID, d))
	return nil
}

func (s *UsedQuestionStore) key(playerID string, d domain.Difficulty) string {
	return playerID + "|" + string(d)
}
