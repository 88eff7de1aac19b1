// README: In-memory wallet Storage for tests.
package wallet

import (
	"context"
	"sync"

	"ndjele/internal/types"
)

type MemStore struct {
	mu       sync.Mutex
	balances map[types.ID]int64
}

func NewMemStore() *MemStore {
	return &MemStore{balances: make(map[types.ID]int64)}
}

func (m *MemStore) Balance(_ context.Context, userID types.ID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

func (m *MemStore) Add(_ context.Context, userID types.ID, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] += delta
	return m.balances[userID], nil
}
