// README: In-memory Storage used by tests and single-node development.
package order

import (
	"context"
	"sync"
	"time"

	"ndjele/internal/types"
)

// MemStore implements Storage with a mutex-guarded map. It honors the same
// compare-and-swap contract as the Postgres store so the service's
// concurrency behavior is identical under test.
type MemStore struct {
	mu     sync.RWMutex
	orders map[types.ID]*Order
	events []*Event
	nextID int64
}

func NewMemStore() *MemStore {
	return &MemStore{orders: make(map[types.ID]*Order)}
}

func (m *MemStore) Create(_ context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *MemStore) Get(_ context.Context, id types.ID) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MemStore) UpdateStatus(_ context.Context, id types.ID, from, to Status, version int, provider *ProviderInfo) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return false, ErrNotFound
	}
	if o.Status != from || o.StatusVersion != version {
		return false, nil
	}
	now := time.Now()
	o.Status = to
	o.StatusVersion++
	if provider != nil {
		pid := provider.ID
		pname, pref := provider.Name, provider.Ref
		o.ProviderID = &pid
		o.ProviderName = &pname
		o.ProviderRef = &pref
	}
	switch to {
	case StatusAccepted:
		o.AcceptedAt = &now
	case StatusInProgress:
		o.StartedAt = &now
	case StatusPickedUp:
		o.PickedUpAt = &now
	case StatusCompleted:
		o.CompletedAt = &now
	case StatusDisputed:
		o.DisputedAt = &now
	case StatusRefunded:
		o.RefundedAt = &now
	case StatusCancelled, StatusRejected:
		o.CancelledAt = &now
	}
	return true, nil
}

func (m *MemStore) AppendEvent(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *e
	cp.ID = m.nextID
	m.events = append(m.events, &cp)
	return nil
}

func (m *MemStore) HasActiveByRequester(_ context.Context, requesterID types.ID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.RequesterID == requesterID && isActive(o.Status) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) ListActiveByRequester(_ context.Context, requesterID types.ID) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Order
	for _, o := range m.orders {
		if o.RequesterID == requesterID && isActive(o.Status) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemStore) ListByStatus(_ context.Context, status Status) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Order
	for _, o := range m.orders {
		if o.Status == status {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemStore) ListDisputedBefore(_ context.Context, cutoff time.Time) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Order
	for _, o := range m.orders {
		if o.Status == StatusDisputed && o.DisputedAt != nil && !o.DisputedAt.After(cutoff) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemStore) SetLocationShared(_ context.Context, id types.ID, shared bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.IsLocationShared = shared
	return nil
}

func (m *MemStore) SetCancelReason(_ context.Context, id types.ID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.CancelReason = &reason
	return nil
}

// Events returns a snapshot of the audit trail for assertions.
func (m *MemStore) Events() []*Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Event, len(m.events))
	copy(out, m.events)
	return out
}

func isActive(s Status) bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}
