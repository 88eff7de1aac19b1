// README: Profile store backed by Redis; JSON documents per user.
package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ndjele/internal/types"
)

const (
	profileKeyPrefix  = "ndjele:profile:%s"
	contactsKeyPrefix = "ndjele:contacts:%s"
)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) Get(ctx context.Context, userID types.ID) (*UserProfile, error) {
	val, err := s.redis.Get(ctx, profileKey(userID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var p UserProfile
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Save(ctx context.Context, p *UserProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, profileKey(p.ID), raw, 0).Err()
}

func (s *Store) Contacts(ctx context.Context, userID types.ID) ([]Contact, error) {
	vals, err := s.redis.LRange(ctx, contactsKey(userID), 0, -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	contacts := make([]Contact, 0, len(vals))
	for _, v := range vals {
		var c Contact
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func (s *Store) AppendContact(ctx context.Context, userID types.ID, c Contact) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.redis.RPush(ctx, contactsKey(userID), raw).Err()
}

func profileKey(userID types.ID) string {
	return fmt.Sprintf(profileKeyPrefix, string(userID))
}

func contactsKey(userID types.ID) string {
	return fmt.Sprintf(contactsKeyPrefix, string(userID))
}
