// README: Matching store backed by Redis: driver directions and recent searches.
package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ndjele/internal/types"
)

const (
	directionKeyPrefix = "ndjele:matching:driver:%s:direction"
	recentKeyPrefix    = "ndjele:matching:user:%s:recent"
	// A stale direction should not keep matching a driver who went home.
	directionTTL = 12 * time.Hour

	recentSearchLimit = 5
)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) SetDirection(ctx context.Context, driverID types.ID, direction string) error {
	return s.redis.Set(ctx, directionKey(driverID), direction, directionTTL).Err()
}

func (s *Store) Direction(ctx context.Context, driverID types.ID) (string, error) {
	val, err := s.redis.Get(ctx, directionKey(driverID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// PushRecentSearch prepends a destination to the user's search history,
// keeping only the most recent entries.
func (s *Store) PushRecentSearch(ctx context.Context, userID types.ID, destination string) error {
	pipe := s.redis.Pipeline()
	key := recentKey(userID)
	pipe.LRem(ctx, key, 0, destination)
	pipe.LPush(ctx, key, destination)
	pipe.LTrim(ctx, key, 0, recentSearchLimit-1)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) RecentSearches(ctx context.Context, userID types.ID) ([]string, error) {
	vals, err := s.redis.LRange(ctx, recentKey(userID), 0, recentSearchLimit-1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	return vals, err
}

func directionKey(driverID types.ID) string {
	return fmt.Sprintf(directionKeyPrefix, string(driverID))
}

func recentKey(userID types.ID) string {
	return fmt.Sprintf(recentKeyPrefix, string(userID))
}
