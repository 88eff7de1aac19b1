// README: Matching service: driver direction, AI auto-detect, pending-request filter.
package matching

import (
	"context"
	"errors"
	"log"
	"strings"

	"ndjele/internal/ai"
	"ndjele/internal/modules/order"
	"ndjele/internal/types"
)

var ErrEmptyDirection = errors.New("empty direction")

// fallbackDirection is used when the AI cannot predict a next destination.
const fallbackDirection = "Aéroport Léon Mba"

// Directions persists driver directions and user search history.
type Directions interface {
	SetDirection(ctx context.Context, driverID types.ID, direction string) error
	Direction(ctx context.Context, driverID types.ID) (string, error)
	PushRecentSearch(ctx context.Context, userID types.ID, destination string) error
	RecentSearches(ctx context.Context, userID types.ID) ([]string, error)
}

// OrderLister exposes the pending requests a driver can be matched against.
type OrderLister interface {
	ListPending(ctx context.Context) ([]*order.Order, error)
}

type Service struct {
	store   Directions
	orders  OrderLister
	advisor ai.Advisor
}

func NewService(store Directions, orders OrderLister, advisor ai.Advisor) *Service {
	return &Service{store: store, orders: orders, advisor: advisor}
}

func (s *Service) SetDirection(ctx context.Context, driverID types.ID, direction string) error {
	direction = strings.TrimSpace(direction)
	if direction == "" {
		return ErrEmptyDirection
	}
	return s.store.SetDirection(ctx, driverID, direction)
}

func (s *Service) Direction(ctx context.Context, driverID types.ID) (string, error) {
	return s.store.Direction(ctx, driverID)
}

// AutoDetectDirection asks the AI for the driver's likely next destination
// based on their recent rides, stores it as the current direction and
// returns it. The AI is advisory: any failure falls back to a fixed hub.
func (s *Service) AutoDetectDirection(ctx context.Context, driverID types.ID, history []string) (string, error) {
	direction := fallbackDirection
	if s.advisor != nil {
		predicted, err := s.advisor.PredictNextDirection(ctx, history)
		if err != nil {
			log.Printf("matching: direction prediction failed for %s: %v", driverID, err)
		} else if strings.TrimSpace(predicted) != "" {
			direction = strings.TrimSpace(predicted)
		}
	}
	if err := s.store.SetDirection(ctx, driverID, direction); err != nil {
		return "", err
	}
	return direction, nil
}

// MatchedRequests returns the pending orders whose destination lies along
// the driver's stored direction.
func (s *Service) MatchedRequests(ctx context.Context, driverID types.ID) ([]*order.Order, error) {
	direction, err := s.store.Direction(ctx, driverID)
	if err != nil {
		return nil, err
	}
	pending, err := s.orders.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return Match(direction, pending, func(o *order.Order) string { return o.Destination }), nil
}

func (s *Service) RecordSearch(ctx context.Context, userID types.ID, destination string) error {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return ErrEmptyDirection
	}
	return s.store.PushRecentSearch(ctx, userID, destination)
}

func (s *Service) RecentSearches(ctx context.Context, userID types.ID) ([]string, error) {
	return s.store.RecentSearches(ctx, userID)
}
