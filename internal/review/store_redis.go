package review

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "review:pending_batch_ids:"

// RedisBatchStore keeps one reviewer's outstanding list in a redis list, so it follows
// the reviewer across machines.
type RedisBatchStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisBatchStore stores userID's list in client.
func NewRedisBatchStore(client redis.UniversalClient, userID string) *RedisBatchStore {
	return &RedisBatchStore{client: client, key: redisKeyPrefix + userID}
}

var _ BatchStore = (*RedisBatchStore)(nil)

func (s *RedisBatchStore) Load(ctx context.Context) ([]string, error) {
	ids, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange %s: %w", s.key, err)
	}
	return ids, nil
}

func (s *RedisBatchStore) Save(ctx context.Context, batchIDs []string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(batchIDs) > 0 {
			values := make([]any, len(batchIDs))
			for i, id := range batchIDs {
				values[i] = id
			}
			pipe.RPush(ctx, s.key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", s.key, err)
	}
	return nil
}
