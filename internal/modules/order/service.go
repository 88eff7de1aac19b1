// README: Order service implements escrow state transitions, fund movements, and the arbitration worker.
package order

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"ndjele/internal/modules/pricing"
	"ndjele/internal/types"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("order not found")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("order state conflict")
	ErrForbidden    = errors.New("actor does not own this transition")
	ErrActiveOrder  = errors.New("requester has active order")
)

// ProviderInfo identifies the provider claiming an order.
type ProviderInfo struct {
	ID   types.ID
	Name string
	Ref  string
}

// Storage is the persistence contract for orders. UpdateStatus must perform a
// compare-and-swap on (status, status_version) and report whether it won.
type Storage interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id types.ID) (*Order, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, provider *ProviderInfo) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
	HasActiveByRequester(ctx context.Context, requesterID types.ID) (bool, error)
	ListActiveByRequester(ctx context.Context, requesterID types.ID) ([]*Order, error)
	ListByStatus(ctx context.Context, status Status) ([]*Order, error)
	ListDisputedBefore(ctx context.Context, cutoff time.Time) ([]*Order, error)
	SetLocationShared(ctx context.Context, id types.ID, shared bool) error
	SetCancelReason(ctx context.Context, id types.ID, reason string) error
}

// Ledger moves funds between the escrow and user wallets.
type Ledger interface {
	Credit(ctx context.Context, userID types.ID, amount int64) error
	Debit(ctx context.Context, userID types.ID, amount int64) error
}

// Publisher emits order state events to the broker. May be nil.
type Publisher interface {
	Publish(key, value []byte)
}

type Service struct {
	store  Storage
	ledger Ledger
	events Publisher
	// arbitrationDelay is how long a dispute sits before the automatic refund.
	arbitrationDelay time.Duration
	arbitrationTick  time.Duration
}

func NewService(store Storage, ledger Ledger, events Publisher, arbitrationDelay, arbitrationTick time.Duration) *Service {
	if arbitrationDelay <= 0 {
		arbitrationDelay = 3 * time.Second
	}
	if arbitrationTick <= 0 {
		arbitrationTick = time.Second
	}
	return &Service{
		store:            store,
		ledger:           ledger,
		events:           events,
		arbitrationDelay: arbitrationDelay,
		arbitrationTick:  arbitrationTick,
	}
}

type CreateCommand struct {
	Kind          Kind
	RequesterID   types.ID
	RequesterName string
	Destination   string
	BasePrice     int64
	// FinalPrice is the post-negotiation price; zero means "no negotiation
	// happened", in which case the base price stands.
	FinalPrice int64
	Passengers int
	HasLuggage bool
}

type AcceptCommand struct {
	OrderID  types.ID
	Provider ProviderInfo
}

type RejectCommand struct {
	OrderID    types.ID
	ProviderID types.ID
}

type CancelCommand struct {
	OrderID     types.ID
	RequesterID types.ID
	Reason      string
}

type StartCommand struct {
	OrderID    types.ID
	ProviderID types.ID
}

type CompleteCommand struct {
	OrderID     types.ID
	RequesterID types.ID
}

type DisputeCommand struct {
	OrderID     types.ID
	RequesterID types.ID
}

type PickUpCommand struct {
	OrderID    types.ID
	ProviderID types.ID
}

type MarkDeliveredCommand struct {
	OrderID    types.ID
	ProviderID types.ID
}

type ConfirmDeliveryCommand struct {
	OrderID     types.ID
	RequesterID types.ID
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.RequesterID == "" || cmd.Destination == "" || cmd.BasePrice <= 0 {
		return "", ErrBadRequest
	}
	switch cmd.Kind {
	case KindRide, KindDelivery, KindMarketplace, KindArtisan, KindPharmacy:
	default:
		return "", ErrBadRequest
	}
	active, err := s.store.HasActiveByRequester(ctx, cmd.RequesterID)
	if err != nil {
		return "", err
	}
	if active {
		return "", ErrActiveOrder
	}

	final := cmd.FinalPrice
	if final <= 0 {
		final = cmd.BasePrice
	}
	id := newID()
	now := time.Now()
	o := &Order{
		ID:            id,
		Kind:          cmd.Kind,
		RequesterID:   cmd.RequesterID,
		RequesterName: cmd.RequesterName,
		Destination:   cmd.Destination,
		Status:        StatusPending,
		StatusVersion: 0,
		BasePrice:     types.FCFA(cmd.BasePrice),
		FinalPrice:    types.FCFA(final),
		Passengers:    cmd.Passengers,
		HasLuggage:    cmd.HasLuggage,
		CreatedAt:     now,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return "", err
	}
	s.record(ctx, o, StatusNone, StatusPending, actorRequester, &cmd.RequesterID)
	return id, nil
}

// Accept is provider-owned. The escrow hold (final price + platform fee) is
// taken from the requester here, not at creation, so a cancelled or rejected
// pending order never moves funds.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) error {
	if cmd.Provider.ID == "" {
		return ErrBadRequest
	}
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if o.Status == StatusAccepted {
		// Idempotent for the provider who already holds the order; any
		// other provider lost the race.
		if o.ProviderID != nil && *o.ProviderID == cmd.Provider.ID {
			return nil
		}
		return ErrInvalidState
	}
	if !CanTransition(o.Status, StatusAccepted) {
		return ErrInvalidState
	}

	charge := pricing.Charge(o.FinalPrice.Amount)
	if s.ledger != nil {
		if err := s.ledger.Debit(ctx, o.RequesterID, charge); err != nil {
			return err
		}
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusAccepted, o.StatusVersion, &cmd.Provider)
	if err != nil || !ok {
		// Return the hold; someone else won the transition.
		if s.ledger != nil {
			if cerr := s.ledger.Credit(ctx, o.RequesterID, charge); cerr != nil {
				log.Printf("order %s: returning hold of %d to %s failed: %v", o.ID, charge, o.RequesterID, cerr)
			}
		}
		if err != nil {
			return err
		}
		return ErrConflict
	}
	s.record(ctx, o, o.Status, StatusAccepted, actorProvider, &cmd.Provider.ID)
	return nil
}

// Reject is provider-owned and terminal. No funds have moved yet.
func (s *Service) Reject(ctx context.Context, cmd RejectCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if o.Status == StatusRejected {
		return nil
	}
	if !CanTransition(o.Status, StatusRejected) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusRejected, o.StatusVersion, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.record(ctx, o, o.Status, StatusRejected, actorProvider, &cmd.ProviderID)
	return nil
}

// Cancel is requester-owned and only legal while pending.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if o.RequesterID != cmd.RequesterID {
		return ErrForbidden
	}
	if o.Status == StatusCancelled {
		return nil
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusCancelled, o.StatusVersion, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	if cmd.Reason != "" {
		if err := s.store.SetCancelReason(ctx, o.ID, cmd.Reason); err != nil {
			log.Printf("order %s: storing cancel reason failed: %v", o.ID, err)
		}
	}
	s.record(ctx, o, o.Status, StatusCancelled, actorRequester, &cmd.RequesterID)
	return nil
}

// Start moves an accepted order into the tracking leg. Provider-owned.
func (s *Service) Start(ctx context.Context, cmd StartCommand) error {
	return s.providerTransition(ctx, cmd.OrderID, cmd.ProviderID, StatusInProgress)
}

// Complete is the requester's "confirm arrival/receipt" action: the final
// price is released from escrow to the provider. The platform fee stays with
// the platform.
func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if o.RequesterID != cmd.RequesterID {
		return ErrForbidden
	}
	return s.release(ctx, o, actorRequester, &cmd.RequesterID)
}

// Dispute is requester-owned; the arbitration worker resolves it later.
func (s *Service) Dispute(ctx context.Context, cmd DisputeCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if o.RequesterID != cmd.RequesterID {
		return ErrForbidden
	}
	if o.Status == StatusDisputed {
		return nil
	}
	if !CanTransition(o.Status, StatusDisputed) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusDisputed, o.StatusVersion, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.record(ctx, o, o.Status, StatusDisputed, actorRequester, &cmd.RequesterID)
	return nil
}

// PickUp is the courier's pickup confirmation; delivery-family orders only.
func (s *Service) PickUp(ctx context.Context, cmd PickUpCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if o.Kind != KindDelivery && o.Kind != KindMarketplace && o.Kind != KindPharmacy {
		return ErrInvalidState
	}
	return s.providerTransition(ctx, cmd.OrderID, cmd.ProviderID, StatusPickedUp)
}

// MarkDelivered puts the order in waiting_client_validation. Provider-owned.
func (s *Service) MarkDelivered(ctx context.Context, cmd MarkDeliveredCommand) error {
	return s.providerTransition(ctx, cmd.OrderID, cmd.ProviderID, StatusWaitingValidation)
}

// ConfirmDelivery is the client's definitive confirmation and releases the
// escrow. Only the requester may fire it; the courier can move the order into
// waiting_client_validation but never past it.
func (s *Service) ConfirmDelivery(ctx context.Context, cmd ConfirmDeliveryCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if o.RequesterID != cmd.RequesterID {
		return ErrForbidden
	}
	return s.release(ctx, o, actorRequester, &cmd.RequesterID)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListActive(ctx context.Context, requesterID types.ID) ([]*Order, error) {
	return s.store.ListActiveByRequester(ctx, requesterID)
}

// ListPending returns every pending order, used by the matching filter.
func (s *Service) ListPending(ctx context.Context) ([]*Order, error) {
	return s.store.ListByStatus(ctx, StatusPending)
}

// SetLocationShared toggles the SOS location flag, independent of status.
func (s *Service) SetLocationShared(ctx context.Context, id types.ID, shared bool) error {
	return s.store.SetLocationShared(ctx, id, shared)
}

// RunArbitrationWorker resolves disputes that have aged past the arbitration
// delay. Every dispute resolves to a refund; there is no provider-favoring
// outcome in the modeled lifecycle.
func (s *Service) RunArbitrationWorker(ctx context.Context) {
	ticker := time.NewTicker(s.arbitrationTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.resolveAgedDisputes(ctx)
		}
	}
}

func (s *Service) resolveAgedDisputes(ctx context.Context) {
	cutoff := time.Now().Add(-s.arbitrationDelay)
	disputed, err := s.store.ListDisputedBefore(ctx, cutoff)
	if err != nil {
		return
	}
	for _, o := range disputed {
		_ = s.refund(ctx, o)
	}
}

// Refund resolves one dispute immediately. The requester gets the final price
// minus the platform fee; the provider receives nothing.
func (s *Service) refund(ctx context.Context, o *Order) error {
	if o.Status == StatusRefunded {
		return nil
	}
	if !CanTransition(o.Status, StatusRefunded) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusRefunded, o.StatusVersion, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	if s.ledger != nil {
		refund := pricing.Refund(o.FinalPrice.Amount)
		if err := s.ledger.Credit(ctx, o.RequesterID, refund); err != nil {
			// The status has already flipped; leave a trace so the
			// missing payout can be reconciled from the logs.
			log.Printf("order %s: refund credit of %d to %s failed: %v", o.ID, refund, o.RequesterID, err)
		}
	}
	s.record(ctx, o, o.Status, StatusRefunded, actorSystem, nil)
	return nil
}

// release completes an order and pays the provider the full final price.
func (s *Service) release(ctx context.Context, o *Order, actorType string, actorID *types.ID) error {
	if o.Status == StatusCompleted {
		return nil
	}
	if !CanTransition(o.Status, StatusCompleted) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusCompleted, o.StatusVersion, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	if s.ledger != nil && o.ProviderID != nil {
		if err := s.ledger.Credit(ctx, *o.ProviderID, o.FinalPrice.Amount); err != nil {
			log.Printf("order %s: payout credit of %d to %s failed: %v", o.ID, o.FinalPrice.Amount, *o.ProviderID, err)
		}
	}
	s.record(ctx, o, o.Status, StatusCompleted, actorType, actorID)
	return nil
}

func (s *Service) providerTransition(ctx context.Context, orderID, providerID types.ID, to Status) error {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o.ProviderID == nil || *o.ProviderID != providerID {
		return ErrForbidden
	}
	if o.Status == to {
		return nil
	}
	if !CanTransition(o.Status, to) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, to, o.StatusVersion, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.record(ctx, o, o.Status, to, actorProvider, &providerID)
	return nil
}

const (
	actorRequester = "requester"
	actorProvider  = "provider"
	actorSystem    = "system"
)

// record appends the audit event and publishes it to the broker. Both are
// best-effort; the transition itself has already committed.
func (s *Service) record(ctx context.Context, o *Order, from, to Status, actorType string, actorID *types.ID) {
	e := &Event{
		OrderID:    o.ID,
		FromStatus: from,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	}
	_ = s.store.AppendEvent(ctx, e)
	s.publish(o, e)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
