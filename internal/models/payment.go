package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is a single ledger entry. The payment ID doubles as the
// order_id sent to the gateway, so webhook notifications correlate back
// to the row by primary key.
type Payment struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uuid.UUID

	// Amount in the smallest currency unit. Negative amounts are
	// compensating entries written by a withdrawal sweep.
	Amount int64

	Status        string
	PaymentMethod *string
}
