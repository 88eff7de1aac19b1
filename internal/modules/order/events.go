// README: Broker event envelope for order state transitions.
package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const EventTypeStatusChanged = "OrderStatusChanged"

// Envelope is the JSON message published for every state transition.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id"`
	Payload       json.RawMessage `json:"payload"`
}

type StatusChangedPayload struct {
	OrderID    string `json:"order_id"`
	Kind       string `json:"kind"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorType  string `json:"actor_type"`
	FinalPrice int64  `json:"final_price"`
	// PlatformFee is included so downstream consumers never recompute the rate.
	PlatformFee int64 `json:"platform_fee"`
}

func (s *Service) publish(o *Order, e *Event) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(StatusChangedPayload{
		OrderID:     string(o.ID),
		Kind:        string(o.Kind),
		FromStatus:  string(e.FromStatus),
		ToStatus:    string(e.ToStatus),
		ActorType:   e.ActorType,
		FinalPrice:  o.FinalPrice.Amount,
		PlatformFee: o.PlatformFee(),
	})
	if err != nil {
		return
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventTypeStatusChanged,
		EventVersion:  1,
		OccurredAt:    e.CreatedAt,
		Producer:      "ndjele-api",
		CorrelationID: string(o.ID),
		Payload:       payload,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return
	}
	s.events.Publish([]byte(o.ID), value)
}
