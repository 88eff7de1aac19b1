// README: Order service tests (transition table, escrow flows, fund movements).
package order

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"ndjele/internal/modules/pricing"
	"ndjele/internal/types"
)

// TestCanTransition verifies the state machine transition table.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusPending, StatusAccepted, true},
		{StatusAccepted, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusAccepted, StatusCompleted, true},
		// rejection and cancellation, pending only
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusAccepted, StatusCancelled, false},
		{StatusInProgress, StatusCancelled, false},
		// dispute path
		{StatusAccepted, StatusDisputed, true},
		{StatusInProgress, StatusDisputed, true},
		{StatusDisputed, StatusRefunded, true},
		{StatusDisputed, StatusCompleted, false}, // no provider-favoring outcome
		// delivery sub-chain, strictly forward
		{StatusAccepted, StatusPickedUp, true},
		{StatusPickedUp, StatusWaitingValidation, true},
		{StatusWaitingValidation, StatusCompleted, true},
		{StatusWaitingValidation, StatusPickedUp, false},
		{StatusPickedUp, StatusAccepted, false},
		// no silent reversion to pending from anywhere
		{StatusAccepted, StatusPending, false},
		{StatusDisputed, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusRefunded, StatusPending, false},
		// terminal states have no outgoing transitions
		{StatusCompleted, StatusDisputed, false},
		{StatusRefunded, StatusAccepted, false},
		{StatusRejected, StatusAccepted, false},
		{StatusCancelled, StatusAccepted, false},
		// skipping states
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusDisputed, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusRefunded, StatusRejected, StatusCancelled} {
		if !IsTerminal(s) {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusAccepted, StatusInProgress, StatusPickedUp, StatusWaitingValidation, StatusDisputed} {
		if IsTerminal(s) {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}

// fakeLedger tracks balances as signed deltas. When strict, debits beyond the
// funded balance fail like the real wallet.
type fakeLedger struct {
	mu       sync.Mutex
	balances map[types.ID]int64
	strict   bool
}

var errNoFunds = errors.New("insufficient balance")

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[types.ID]int64)}
}

func (l *fakeLedger) Credit(_ context.Context, userID types.ID, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] += amount
	return nil
}

func (l *fakeLedger) Debit(_ context.Context, userID types.ID, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.strict && l.balances[userID] < amount {
		return errNoFunds
	}
	l.balances[userID] -= amount
	return nil
}

func (l *fakeLedger) balance(userID types.ID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID]
}

func newTestService(t *testing.T) (*Service, *MemStore, *fakeLedger) {
	t.Helper()
	store := NewMemStore()
	ledger := newFakeLedger()
	svc := NewService(store, ledger, nil, time.Millisecond, time.Millisecond)
	return svc, store, ledger
}

func mustCreate(t *testing.T, svc *Service, requester types.ID, base, final int64) types.ID {
	t.Helper()
	id, err := svc.Create(context.Background(), CreateCommand{
		Kind:          KindRide,
		RequesterID:   requester,
		RequesterName: "Client Test",
		Destination:   "Owendo",
		BasePrice:     base,
		FinalPrice:    final,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return id
}

func mustAccept(t *testing.T, svc *Service, orderID types.ID) {
	t.Helper()
	err := svc.Accept(context.Background(), AcceptCommand{
		OrderID:  orderID,
		Provider: ProviderInfo{ID: "drv1", Name: "Jean-Paul", Ref: "GA-123-LBV"},
	})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
}

func assertStatus(t *testing.T, svc *Service, orderID types.ID, want Status) {
	t.Helper()
	o, err := svc.Get(context.Background(), orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if o.Status != want {
		t.Fatalf("expected status %s, got %s", want, o.Status)
	}
}

// TestEscrowCompletedPath: offer 500 negotiated to 1000, fee 90, charge
// 1090, provider paid 1000 on completion.
func TestEscrowCompletedPath(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client1", 500, 1000)
	assertStatus(t, svc, orderID, StatusPending)

	mustAccept(t, svc, orderID)
	assertStatus(t, svc, orderID, StatusAccepted)
	if got := ledger.balance("client1"); got != -1090 {
		t.Fatalf("expected requester debited 1090, balance delta = %d", got)
	}

	if err := svc.Start(ctx, StartCommand{OrderID: orderID, ProviderID: "drv1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	assertStatus(t, svc, orderID, StatusInProgress)

	if err := svc.Complete(ctx, CompleteCommand{OrderID: orderID, RequesterID: "client1"}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	assertStatus(t, svc, orderID, StatusCompleted)

	if got := ledger.balance("drv1"); got != 1000 {
		t.Fatalf("expected provider credited exactly finalPrice 1000, got %d", got)
	}
}

// TestEscrowRefundPath: on dispute resolution the requester gets back
// finalPrice minus the platform fee, and the provider receives nothing.
func TestEscrowRefundPath(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client2", 500, 1000)
	mustAccept(t, svc, orderID)

	if err := svc.Dispute(ctx, DisputeCommand{OrderID: orderID, RequesterID: "client2"}); err != nil {
		t.Fatalf("dispute: %v", err)
	}
	assertStatus(t, svc, orderID, StatusDisputed)

	// Let the dispute age past the 1ms test delay.
	time.Sleep(2 * time.Millisecond)
	svc.resolveAgedDisputes(ctx)
	assertStatus(t, svc, orderID, StatusRefunded)

	// Charged 1090, refunded 910: the fee is retained on both legs.
	if got := ledger.balance("client2"); got != -1090+910 {
		t.Fatalf("expected requester net -180 after refund, got %d", got)
	}
	if got := ledger.balance("drv1"); got != 0 {
		t.Fatalf("expected provider to receive nothing on refund, got %d", got)
	}
}

func TestDeliveryChainClientConfirms(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	orderID, err := svc.Create(ctx, CreateCommand{
		Kind:          KindMarketplace,
		RequesterID:   "client3",
		RequesterName: "Marie",
		Destination:   "Nzeng-Ayong",
		BasePrice:     4500,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Accept(ctx, AcceptCommand{OrderID: orderID, Provider: ProviderInfo{ID: "liv1", Name: "Bruno", Ref: "moto-07"}}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := svc.PickUp(ctx, PickUpCommand{OrderID: orderID, ProviderID: "liv1"}); err != nil {
		t.Fatalf("pickup: %v", err)
	}
	assertStatus(t, svc, orderID, StatusPickedUp)

	if err := svc.MarkDelivered(ctx, MarkDeliveredCommand{OrderID: orderID, ProviderID: "liv1"}); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	assertStatus(t, svc, orderID, StatusWaitingValidation)

	// The courier cannot self-confirm the final delivery.
	if err := svc.ConfirmDelivery(ctx, ConfirmDeliveryCommand{OrderID: orderID, RequesterID: "liv1"}); err != ErrForbidden {
		t.Fatalf("courier self-confirm: expected ErrForbidden, got %v", err)
	}

	if err := svc.ConfirmDelivery(ctx, ConfirmDeliveryCommand{OrderID: orderID, RequesterID: "client3"}); err != nil {
		t.Fatalf("confirm delivery: %v", err)
	}
	assertStatus(t, svc, orderID, StatusCompleted)

	if got := ledger.balance("liv1"); got != 4500 {
		t.Fatalf("expected courier credited 4500, got %d", got)
	}
}

func TestPickUpRejectedForRides(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client4", 1000, 0)
	mustAccept(t, svc, orderID)

	if err := svc.PickUp(ctx, PickUpCommand{OrderID: orderID, ProviderID: "drv1"}); err != ErrInvalidState {
		t.Fatalf("pickup on ride: expected ErrInvalidState, got %v", err)
	}
}

// TestCancelPendingMovesNoFunds: a cancelled pending order disappears from
// active listings and never touched a wallet.
func TestCancelPendingMovesNoFunds(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client5", 800, 0)
	if err := svc.Cancel(ctx, CancelCommand{OrderID: orderID, RequesterID: "client5", Reason: "changed my mind"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	assertStatus(t, svc, orderID, StatusCancelled)

	active, err := svc.ListActive(ctx, "client5")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active orders, got %d", len(active))
	}
	if got := ledger.balance("client5"); got != 0 {
		t.Fatalf("expected no funds moved, balance delta = %d", got)
	}

	if err := svc.Accept(ctx, AcceptCommand{OrderID: orderID, Provider: ProviderInfo{ID: "drv1"}}); err != ErrInvalidState {
		t.Fatalf("accept after cancel: expected ErrInvalidState, got %v", err)
	}
}

func TestRejectPendingMovesNoFunds(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client6", 800, 0)
	if err := svc.Reject(ctx, RejectCommand{OrderID: orderID, ProviderID: "drv9"}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	assertStatus(t, svc, orderID, StatusRejected)
	if got := ledger.balance("client6"); got != 0 {
		t.Fatalf("expected no funds moved, balance delta = %d", got)
	}
}

func TestCancelNotAllowedAfterAccept(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client7", 800, 0)
	mustAccept(t, svc, orderID)

	if err := svc.Cancel(ctx, CancelCommand{OrderID: orderID, RequesterID: "client7"}); err != ErrInvalidState {
		t.Fatalf("cancel after accept: expected ErrInvalidState, got %v", err)
	}
}

func TestActorOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client8", 800, 0)
	mustAccept(t, svc, orderID)

	if err := svc.Cancel(ctx, CancelCommand{OrderID: orderID, RequesterID: "intruder"}); err != ErrForbidden {
		t.Fatalf("cancel by stranger: expected ErrForbidden, got %v", err)
	}
	if err := svc.Complete(ctx, CompleteCommand{OrderID: orderID, RequesterID: "intruder"}); err != ErrForbidden {
		t.Fatalf("complete by stranger: expected ErrForbidden, got %v", err)
	}
	if err := svc.Dispute(ctx, DisputeCommand{OrderID: orderID, RequesterID: "intruder"}); err != ErrForbidden {
		t.Fatalf("dispute by stranger: expected ErrForbidden, got %v", err)
	}
	if err := svc.Start(ctx, StartCommand{OrderID: orderID, ProviderID: "other_driver"}); err != ErrForbidden {
		t.Fatalf("start by wrong provider: expected ErrForbidden, got %v", err)
	}
}

// TestTerminalIdempotence: re-invoking a transition from the state it targets
// is a no-op, not an error.
func TestTerminalIdempotence(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client9", 500, 1000)
	mustAccept(t, svc, orderID)
	if err := svc.Complete(ctx, CompleteCommand{OrderID: orderID, RequesterID: "client9"}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := svc.Complete(ctx, CompleteCommand{OrderID: orderID, RequesterID: "client9"}); err != nil {
		t.Fatalf("repeat complete: expected no-op, got %v", err)
	}
	// The repeat must not pay the provider twice.
	if got := ledger.balance("drv1"); got != 1000 {
		t.Fatalf("expected a single payout of 1000, got %d", got)
	}
	// A different transition from the terminal state is still an error.
	if err := svc.Dispute(ctx, DisputeCommand{OrderID: orderID, RequesterID: "client9"}); err != ErrInvalidState {
		t.Fatalf("dispute after completion: expected ErrInvalidState, got %v", err)
	}
}

func TestAcceptInsufficientFunds(t *testing.T) {
	store := NewMemStore()
	ledger := newFakeLedger()
	ledger.strict = true
	svc := NewService(store, ledger, nil, time.Millisecond, time.Millisecond)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "broke_client", 500, 1000)
	err := svc.Accept(ctx, AcceptCommand{OrderID: orderID, Provider: ProviderInfo{ID: "drv1"}})
	if err != errNoFunds {
		t.Fatalf("expected ledger error to propagate, got %v", err)
	}
	assertStatus(t, svc, orderID, StatusPending)
}

func TestActiveOrderBlocksSecondRequest(t *testing.T) {
	svc, _, _ := newTestService(t)

	mustCreate(t, svc, "client10", 800, 0)
	_, err := svc.Create(context.Background(), CreateCommand{
		Kind:        KindRide,
		RequesterID: "client10",
		Destination: "Louis",
		BasePrice:   700,
	})
	if err != ErrActiveOrder {
		t.Fatalf("expected ErrActiveOrder, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateCommand{
		{Kind: KindRide, RequesterID: "", Destination: "Owendo", BasePrice: 500},
		{Kind: KindRide, RequesterID: "c", Destination: "", BasePrice: 500},
		{Kind: KindRide, RequesterID: "c", Destination: "Owendo", BasePrice: 0},
		{Kind: Kind("bus"), RequesterID: "c", Destination: "Owendo", BasePrice: 500},
	}
	for i, cmd := range cases {
		if _, err := svc.Create(ctx, cmd); err != ErrBadRequest {
			t.Errorf("case %d: expected ErrBadRequest, got %v", i, err)
		}
	}
}

func TestGetUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestArbitrationWorkerWaitsForDelay(t *testing.T) {
	store := NewMemStore()
	ledger := newFakeLedger()
	svc := NewService(store, ledger, nil, time.Hour, time.Millisecond)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client11", 500, 1000)
	mustAccept(t, svc, orderID)
	if err := svc.Dispute(ctx, DisputeCommand{OrderID: orderID, RequesterID: "client11"}); err != nil {
		t.Fatalf("dispute: %v", err)
	}

	// The dispute is younger than the delay: nothing resolves yet.
	svc.resolveAgedDisputes(ctx)
	assertStatus(t, svc, orderID, StatusDisputed)

	svc.arbitrationDelay = 0
	svc.resolveAgedDisputes(ctx)
	assertStatus(t, svc, orderID, StatusRefunded)
}

func TestLocationSharedIndependentOfStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client12", 800, 0)
	if err := svc.SetLocationShared(ctx, orderID, true); err != nil {
		t.Fatalf("share location: %v", err)
	}
	o, err := svc.Get(ctx, orderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !o.IsLocationShared {
		t.Fatal("expected location shared flag to be set")
	}
	if o.Status != StatusPending {
		t.Fatalf("flag must not affect status, got %s", o.Status)
	}
}

func TestPlatformFeeSingleConstant(t *testing.T) {
	if pricing.Fee(1000) != 90 {
		t.Fatalf("Fee(1000) = %d, want 90", pricing.Fee(1000))
	}
	o := &Order{FinalPrice: types.FCFA(1000)}
	if o.PlatformFee() != pricing.Fee(1000) {
		t.Fatal("order fee must come from the shared pricing constant")
	}
}

func TestCancelReasonPersisted(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client14", 800, 0)
	if err := svc.Cancel(ctx, CancelCommand{OrderID: orderID, RequesterID: "client14", Reason: "found another driver"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	o, err := svc.Get(ctx, orderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o.CancelReason == nil || *o.CancelReason != "found another driver" {
		t.Fatalf("cancel reason not stored, got %v", o.CancelReason)
	}

	// No reason given leaves the field empty.
	orderID = mustCreate(t, svc, "client15", 800, 0)
	if err := svc.Cancel(ctx, CancelCommand{OrderID: orderID, RequesterID: "client15"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	o, err = svc.Get(ctx, orderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o.CancelReason != nil {
		t.Fatalf("expected no cancel reason, got %q", *o.CancelReason)
	}
}

// brokenLedger accepts debits but fails every credit, like a wallet store
// that went away mid-flight.
type brokenLedger struct{}

func (brokenLedger) Credit(context.Context, types.ID, int64) error {
	return errors.New("wallet unavailable")
}

func (brokenLedger) Debit(context.Context, types.ID, int64) error { return nil }

func TestRefundCreditFailureIsLogged(t *testing.T) {
	store := NewMemStore()
	svc := NewService(store, brokenLedger{}, nil, time.Millisecond, time.Millisecond)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client16", 500, 1000)
	mustAccept(t, svc, orderID)
	if err := svc.Dispute(ctx, DisputeCommand{OrderID: orderID, RequesterID: "client16"}); err != nil {
		t.Fatalf("dispute: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	svc.resolveAgedDisputes(ctx)

	// The transition still lands; the missed payout is traceable.
	assertStatus(t, svc, orderID, StatusRefunded)
	if !strings.Contains(buf.String(), "refund credit") {
		t.Fatalf("expected the failed refund credit to be logged, got %q", buf.String())
	}
}

func TestPayoutCreditFailureIsLogged(t *testing.T) {
	store := NewMemStore()
	svc := NewService(store, brokenLedger{}, nil, time.Millisecond, time.Millisecond)
	ctx := context.Background()

	orderID := mustCreate(t, svc, "client17", 500, 1000)
	mustAccept(t, svc, orderID)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	if err := svc.Complete(ctx, CompleteCommand{OrderID: orderID, RequesterID: "client17"}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	assertStatus(t, svc, orderID, StatusCompleted)
	if !strings.Contains(buf.String(), "payout credit") {
		t.Fatalf("expected the failed payout credit to be logged, got %q", buf.String())
	}
}
