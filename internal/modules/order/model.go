// README: Order aggregate, status set, and the escrow transition table.
package order

import (
	"time"

	"ndjele/internal/modules/pricing"
	"ndjele/internal/types"
)

// Kind distinguishes the lifecycle variants. Every kind shares the same state
// machine; only deliveries pass through the pickup/validation sub-chain.
type Kind string

const (
	KindRide        Kind = "ride"
	KindDelivery    Kind = "delivery"
	KindMarketplace Kind = "marketplace"
	KindArtisan     Kind = "artisan"
	KindPharmacy    Kind = "pharmacy"
)

type Status string

const (
	StatusNone              Status = "none"
	StatusPending           Status = "pending"
	StatusAccepted          Status = "accepted"
	StatusInProgress        Status = "in_progress"
	StatusPickedUp          Status = "picked_up"
	StatusWaitingValidation Status = "waiting_client_validation"
	StatusCompleted         Status = "completed"
	StatusDisputed          Status = "disputed"
	StatusRefunded          Status = "refunded"
	StatusRejected          Status = "rejected"
	StatusCancelled         Status = "cancelled"
)

// Order is the unit of exchange between a requester and a provider.
type Order struct {
	ID            types.ID
	Kind          Kind
	RequesterID   types.ID
	RequesterName string
	ProviderID    *types.ID
	ProviderName  *string
	// ProviderRef is the provider's public identifier: vehicle plate for
	// rides, shop id for marketplace orders.
	ProviderRef *string
	Destination string
	Status      Status
	// StatusVersion guards concurrent transitions; every successful
	// transition increments it.
	StatusVersion int
	BasePrice     types.Money
	FinalPrice    types.Money
	Passengers    int
	HasLuggage    bool
	// IsLocationShared is toggled by the SOS flow, independent of status.
	IsLocationShared bool
	CreatedAt        time.Time
	AcceptedAt       *time.Time
	StartedAt        *time.Time
	PickedUpAt       *time.Time
	CompletedAt      *time.Time
	DisputedAt       *time.Time
	RefundedAt       *time.Time
	CancelledAt      *time.Time
	CancelReason     *string
}

// PlatformFee is always derived from the final price, never stored, so the
// fee can never drift from the single shared rate.
func (o *Order) PlatformFee() int64 {
	return pricing.Fee(o.FinalPrice.Amount)
}

// Event records one state transition for the audit trail.
type Event struct {
	ID         int64
	OrderID    types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the escrow state flow as code. Transitions
// are one-directional: nothing ever returns to pending, and the only path
// out of disputed is the refund.
var AllowedTransitions = map[Status][]Status{
	StatusPending:           {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:          {StatusInProgress, StatusPickedUp, StatusCompleted, StatusDisputed},
	StatusInProgress:        {StatusCompleted, StatusDisputed},
	StatusPickedUp:          {StatusWaitingValidation},
	StatusWaitingValidation: {StatusCompleted, StatusDisputed},
	StatusDisputed:          {StatusRefunded},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(s Status) bool {
	return len(AllowedTransitions[s]) == 0
}

// ActiveStatuses are the states shown in active-order listings.
var ActiveStatuses = []Status{
	StatusPending, StatusAccepted, StatusInProgress,
	StatusPickedUp, StatusWaitingValidation, StatusDisputed,
}
