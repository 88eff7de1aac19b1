// README: Wallet store backed by Redis; one stringified-integer key per user.
package wallet

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"ndjele/internal/types"
)

const balanceKeyPrefix = "ndjele:wallet:%s"

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) Balance(ctx context.Context, userID types.ID) (int64, error) {
	val, err := s.redis.Get(ctx, balanceKey(userID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

func (s *Store) Add(ctx context.Context, userID types.ID, delta int64) (int64, error) {
	return s.redis.IncrBy(ctx, balanceKey(userID), delta).Result()
}

func balanceKey(userID types.ID) string {
	return fmt.Sprintf(balanceKeyPrefix, string(userID))
}
