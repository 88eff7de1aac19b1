// README: Order store backed by PostgreSQL with optimistic status versioning.
package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ndjele/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const orderColumns = `
	id, kind, requester_id, requester_name,
	provider_id, provider_name, provider_ref,
	destination, status, status_version,
	base_price, final_price, passengers, has_luggage, is_location_shared,
	created_at, accepted_at, started_at, picked_up_at,
	completed_at, disputed_at, refunded_at, cancelled_at, cancel_reason`

func (s *Store) Create(ctx context.Context, o *Order) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO orders (
			id, kind, requester_id, requester_name,
			destination, status, status_version,
			base_price, final_price, passengers, has_luggage, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(o.ID),
		string(o.Kind),
		string(o.RequesterID),
		o.RequesterName,
		o.Destination,
		string(o.Status),
		o.StatusVersion,
		o.BasePrice.Amount,
		o.FinalPrice.Amount,
		o.Passengers,
		o.HasLuggage,
		o.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, string(id))
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, provider *ProviderInfo) (bool, error) {
	var pid, pname, pref *string
	if provider != nil {
		v := string(provider.ID)
		pid, pname, pref = &v, &provider.Name, &provider.Ref
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = $1,
			status_version = status_version + 1,
			provider_id = COALESCE($2, provider_id),
			provider_name = COALESCE($3, provider_name),
			provider_ref = COALESCE($4, provider_ref),
			accepted_at = CASE WHEN $1 = 'accepted' THEN NOW() ELSE accepted_at END,
			started_at = CASE WHEN $1 = 'in_progress' THEN NOW() ELSE started_at END,
			picked_up_at = CASE WHEN $1 = 'picked_up' THEN NOW() ELSE picked_up_at END,
			completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END,
			disputed_at = CASE WHEN $1 = 'disputed' THEN NOW() ELSE disputed_at END,
			refunded_at = CASE WHEN $1 = 'refunded' THEN NOW() ELSE refunded_at END,
			cancelled_at = CASE WHEN $1 IN ('cancelled', 'rejected') THEN NOW() ELSE cancelled_at END
		WHERE id = $5 AND status = $6 AND status_version = $7`,
		string(to),
		pid, pname, pref,
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO order_state_events (
			order_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.OrderID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		toStringPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

func (s *Store) HasActiveByRequester(ctx context.Context, requesterID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE requester_id = $1
			  AND status IN ('pending','accepted','in_progress','picked_up','waiting_client_validation','disputed')
		)`, string(requesterID),
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) ListActiveByRequester(ctx context.Context, requesterID types.ID) ([]*Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE requester_id = $1
		  AND status IN ('pending','accepted','in_progress','picked_up','waiting_client_validation','disputed')
		ORDER BY created_at DESC`, string(requesterID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (s *Store) ListByStatus(ctx context.Context, status Status) ([]*Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC`, string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (s *Store) ListDisputedBefore(ctx context.Context, cutoff time.Time) ([]*Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = 'disputed' AND disputed_at <= $1
		ORDER BY disputed_at ASC`, cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (s *Store) SetLocationShared(ctx context.Context, id types.ID, shared bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE orders SET is_location_shared = $1 WHERE id = $2`, shared, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetCancelReason(ctx context.Context, id types.ID, reason string) error {
	tag, err := s.db.Exec(ctx, `UPDATE orders SET cancel_reason = $1 WHERE id = $2`, reason, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var providerID, providerName, providerRef, cancelReason sql.NullString
	var acceptedAt, startedAt, pickedUpAt, completedAt, disputedAt, refundedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&o.ID, &o.Kind, &o.RequesterID, &o.RequesterName,
		&providerID, &providerName, &providerRef,
		&o.Destination, &o.Status, &o.StatusVersion,
		&o.BasePrice.Amount, &o.FinalPrice.Amount, &o.Passengers, &o.HasLuggage, &o.IsLocationShared,
		&o.CreatedAt, &acceptedAt, &startedAt, &pickedUpAt,
		&completedAt, &disputedAt, &refundedAt, &cancelledAt, &cancelReason,
	)
	if err != nil {
		return nil, err
	}
	o.BasePrice.Currency = "XAF"
	o.FinalPrice.Currency = "XAF"
	if providerID.Valid {
		v := types.ID(providerID.String)
		o.ProviderID = &v
	}
	if providerName.Valid {
		o.ProviderName = &providerName.String
	}
	if providerRef.Valid {
		o.ProviderRef = &providerRef.String
	}
	if cancelReason.Valid {
		o.CancelReason = &cancelReason.String
	}
	o.AcceptedAt = toTimePtr(acceptedAt)
	o.StartedAt = toTimePtr(startedAt)
	o.PickedUpAt = toTimePtr(pickedUpAt)
	o.CompletedAt = toTimePtr(completedAt)
	o.DisputedAt = toTimePtr(disputedAt)
	o.RefundedAt = toTimePtr(refundedAt)
	o.CancelledAt = toTimePtr(cancelledAt)
	return &o, nil
}

func scanOrders(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]*Order, error) {
	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
