// README: Profile service: identity, role, subscription, terms, SOS contacts.
package profile

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"ndjele/internal/types"
)

var (
	ErrNotFound   = errors.New("profile not found")
	ErrBadRequest = errors.New("invalid profile data")
)

// Storage persists profiles and their append-only contact lists.
type Storage interface {
	Get(ctx context.Context, userID types.ID) (*UserProfile, error)
	Save(ctx context.Context, p *UserProfile) error
	Contacts(ctx context.Context, userID types.ID) ([]Contact, error)
	AppendContact(ctx context.Context, userID types.ID, c Contact) error
}

type Service struct {
	store Storage
}

func NewService(store Storage) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, userID types.ID) (*UserProfile, error) {
	return s.store.Get(ctx, userID)
}

// Save creates or updates a profile. Role and subscription default for new
// profiles; an update keeps whatever the user had.
func (s *Service) Save(ctx context.Context, p *UserProfile) error {
	if p == nil || p.ID == "" || strings.TrimSpace(p.Name) == "" {
		return ErrBadRequest
	}
	existing, err := s.store.Get(ctx, p.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		if p.Role == "" {
			p.Role = existing.Role
		}
		if p.Subscription == "" {
			p.Subscription = existing.Subscription
		}
		p.TermsAccepted = p.TermsAccepted || existing.TermsAccepted
	}
	if p.Role == "" {
		p.Role = RoleClient
	}
	if _, err := ParseRole(string(p.Role)); err != nil {
		return ErrBadRequest
	}
	if p.Subscription == "" {
		p.Subscription = TierFree
	}
	return s.store.Save(ctx, p)
}

func (s *Service) SetRole(ctx context.Context, userID types.ID, role string) (Role, error) {
	r, err := ParseRole(role)
	if err != nil {
		return "", ErrBadRequest
	}
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	p.Role = r
	return r, s.store.Save(ctx, p)
}

func (s *Service) SetSubscription(ctx context.Context, userID types.ID, tier SubscriptionTier) error {
	if tier != TierFree && tier != TierPremium {
		return ErrBadRequest
	}
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}
	p.Subscription = tier
	return s.store.Save(ctx, p)
}

// AcceptTerms is one-way: there is no operation to un-accept.
func (s *Service) AcceptTerms(ctx context.Context, userID types.ID) error {
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}
	p.TermsAccepted = true
	return s.store.Save(ctx, p)
}

func (s *Service) Contacts(ctx context.Context, userID types.ID) ([]Contact, error) {
	return s.store.Contacts(ctx, userID)
}

func (s *Service) AddContact(ctx context.Context, userID types.ID, name, phone string) (Contact, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return Contact{}, ErrBadRequest
	}
	// SOS contacts are trusted by construction; there is no operation to
	// distrust one later.
	c := Contact{ID: newID(), Name: name, Phone: phone, Trusted: true}
	if err := s.store.AppendContact(ctx, userID, c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func newID() types.ID {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return types.ID(hex.EncodeToString(b))
}
