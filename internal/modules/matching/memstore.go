// README: In-memory Directions store for tests.
package matching

import (
	"context"
	"sync"

	"ndjele/internal/types"
)

type MemStore struct {
	mu         sync.Mutex
	directions map[types.ID]string
	recent     map[types.ID][]string
}

func NewMemStore() *MemStore {
	return &MemStore{
		directions: make(map[types.ID]string),
		recent:     make(map[types.ID][]string),
	}
}

func (m *MemStore) SetDirection(_ context.Context, driverID types.ID, direction string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.directions[driverID] = direction
	return nil
}

func (m *MemStore) Direction(_ context.Context, driverID types.ID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.directions[driverID], nil
}

func (m *MemStore) PushRecentSearch(_ context.Context, userID types.ID, destination string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.recent[userID]
	filtered := make([]string, 0, len(list)+1)
	filtered = append(filtered, destination)
	for _, d := range list {
		if d != destination {
			filtered = append(filtered, d)
		}
	}
	if len(filtered) > recentSearchLimit {
		filtered = filtered[:recentSearchLimit]
	}
	m.recent[userID] = filtered
	return nil
}

func (m *MemStore) RecentSearches(_ context.Context, userID types.ID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.recent[userID]...), nil
}
