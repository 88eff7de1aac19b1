// README: Price negotiation service; the AI collaborator plays the driver.
package negotiation

import (
	"context"
	"errors"
	"log"
	"sync"

	"ndjele/internal/ai"
	"ndjele/internal/types"
)

var (
	ErrInvalidOffer = errors.New("invalid offer")
	ErrInFlight     = errors.New("negotiation already in progress")
)

// Fallback used whenever the AI cannot answer: accept the client's offer.
const fallbackReply = "On y va."

// Context carries the ride conditions the driver haggles over.
type Context struct {
	Road       string
	Weather    string
	Passengers int
	HasLuggage bool
}

// Result is the driver's answer to a counter-offer.
type Result struct {
	Message    string `json:"message"`
	FinalPrice int64  `json:"finalPrice"`
}

type Service struct {
	advisor ai.Advisor

	mu       sync.Mutex
	inFlight map[types.ID]struct{}
}

func NewService(advisor ai.Advisor) *Service {
	return &Service{advisor: advisor, inFlight: make(map[types.ID]struct{})}
}

// Negotiate asks the AI driver persona to answer a counter-offer. A second
// submit for the same order while one is pending is rejected, which is what
// the double-tap guard on the client button used to do.
func (s *Service) Negotiate(ctx context.Context, orderID types.ID, basePrice, offer int64, nctx Context) (Result, error) {
	if basePrice <= 0 || offer <= 0 {
		return Result{}, ErrInvalidOffer
	}
	if err := s.begin(orderID); err != nil {
		return Result{}, err
	}
	defer s.end(orderID)

	if s.advisor == nil {
		return fallback(offer), nil
	}
	res, err := s.advisor.NegotiatePrice(ctx, basePrice, offer, ai.NegotiationContext{
		Road:       nctx.Road,
		Weather:    nctx.Weather,
		Passengers: nctx.Passengers,
		HasLuggage: nctx.HasLuggage,
	})
	if err != nil {
		log.Printf("negotiation: AI unavailable for order %s: %v", orderID, err)
		return fallback(offer), nil
	}
	if res.FinalPrice <= 0 {
		return fallback(offer), nil
	}
	return Result{Message: res.Reply, FinalPrice: res.FinalPrice}, nil
}

func (s *Service) begin(orderID types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[orderID]; busy {
		return ErrInFlight
	}
	s.inFlight[orderID] = struct{}{}
	return nil
}

func (s *Service) end(orderID types.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, orderID)
}

func fallback(offer int64) Result {
	return Result{Message: fallbackReply, FinalPrice: offer}
}
