// README: In-memory profile Storage for tests.
package profile

import (
	"context"
	"sync"

	"ndjele/internal/types"
)

type MemStore struct {
	mu       sync.Mutex
	profiles map[types.ID]UserProfile
	contacts map[types.ID][]Contact
}

func NewMemStore() *MemStore {
	return &MemStore{
		profiles: make(map[types.ID]UserProfile),
		contacts: make(map[types.ID][]Contact),
	}
}

func (m *MemStore) Get(_ context.Context, userID types.ID) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *MemStore) Save(_ context.Context, p *UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = *p
	return nil
}

func (m *MemStore) Contacts(_ context.Context, userID types.ID) ([]Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Contact(nil), m.contacts[userID]...), nil
}

func (m *MemStore) AppendContact(_ context.Context, userID types.ID, c Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts[userID] = append(m.contacts[userID], c)
	return nil
}
