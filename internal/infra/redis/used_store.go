package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"heresy-trivia-service/internal/domain"
)

// UsedQuestionStore persists served-question keys as one Redis set per
// player and difficulty, so non-repeat selection survives restarts. Each
// served question is one SADD; there is no batching to lose on shutdown.
type UsedQuestionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUsedQuestionStore creates the store. ttl bounds how long a player's
// history is kept; zero means keep forever.
func NewUsedQuestionStore(client *redis.Client, ttl time.Duration) *UsedQuestionStore {
	return &UsedQuestionStore{client: client, ttl: ttl}
}

func (s *UsedQuestionStore) Load(ctx context.Context, playerID string, d domain.Difficulty) (map[string]struct{}, error) {
	members, err := s.client.SMembers(ctx, s.key(playerID, d)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(members))
	for _, m := range members {
		out[m] = struct{}{}
	}
	return out, nil
}

func (s *UsedQuestionStore) Add(ctx context.Context, playerID string, d domain.Difficulty, key string) error {
	redisKey := s.key(playerID, d)
	if err := s.client.SAdd(ctx, redisKey, key).Err(); err != nil {
		return err
	}
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, redisKey, s.ttl).Err()
	}
	return nil
}

func (s *UsedQuestionStore) Clear(ctx context.Context, playerID string, d domain.Difficulty) error {
	return s.client.Del(ctx, s.key(playerID, d)).Err()
}

func (s *UsedQuestionStore) key(playerID string, d domain.Difficulty) string {
	return "player:" + playerID + ":used:" + string(d)
}
