package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Outcome is the provider-neutral result extracted from a webhook event.
type Outcome string

const (
	OutcomePaid      Outcome = "PAID"
	OutcomeFailed    Outcome = "FAILED"
	OutcomeExpired   Outcome = "EXPIRED"
	OutcomeCancelled Outcome = "CANCELLED"
)

// PaymentEvent is one verified webhook delivery, appended for audit.
// Rows are never updated or deleted.
type PaymentEvent struct {
	ID         uuid.UUID       `db:"id"`
	PaymentID  uuid.UUID       `db:"payment_id"`
	Gateway    Gateway         `db:"gateway"`
	EventType  string          `db:"event_type"`
	Outcome    Outcome         `db:"outcome"`
	RawPayload json.RawMessage `db:"raw_payload"`
	ReceivedAt time.Time       `db:"received_at"`
}
