// README: Wallet service: per-user FCFA balances, escrow movements, withdrawals.
package wallet

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"ndjele/internal/modules/pricing"
	"ndjele/internal/types"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Storage persists one integer balance per user.
type Storage interface {
	Balance(ctx context.Context, userID types.ID) (int64, error)
	Add(ctx context.Context, userID types.ID, delta int64) (int64, error)
}

// Service serializes updates per user: the balance is a single-writer
// aggregate, so every mutation for a given user goes through one lock.
type Service struct {
	store Storage
	locks [64]sync.Mutex
}

func NewService(store Storage) *Service {
	return &Service{store: store}
}

func (s *Service) Balance(ctx context.Context, userID types.ID) (int64, error) {
	return s.store.Balance(ctx, userID)
}

func (s *Service) Credit(ctx context.Context, userID types.ID, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()
	_, err := s.store.Add(ctx, userID, amount)
	return err
}

func (s *Service) Debit(ctx context.Context, userID types.ID, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()
	balance, err := s.store.Balance(ctx, userID)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientBalance
	}
	_, err = s.store.Add(ctx, userID, -amount)
	return err
}

// WithdrawResult describes a mobile-money payout.
type WithdrawResult struct {
	// Net is what reaches the user's mobile-money account after the
	// platform commission.
	Net int64
	Fee int64
	// NewBalance reflects the full requested amount leaving the wallet.
	NewBalance int64
}

func (s *Service) Withdraw(ctx context.Context, userID types.ID, amount int64) (WithdrawResult, error) {
	if amount <= 0 {
		return WithdrawResult{}, ErrInvalidAmount
	}
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()
	balance, err := s.store.Balance(ctx, userID)
	if err != nil {
		return WithdrawResult{}, err
	}
	if balance < amount {
		return WithdrawResult{}, ErrInsufficientBalance
	}
	newBalance, err := s.store.Add(ctx, userID, -amount)
	if err != nil {
		return WithdrawResult{}, err
	}
	return WithdrawResult{
		Net:        pricing.WithdrawNet(amount),
		Fee:        pricing.Fee(amount),
		NewBalance: newBalance,
	}, nil
}

func (s *Service) lockFor(userID types.ID) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &s.locks[h.Sum32()%uint32(len(s.locks))]
}
