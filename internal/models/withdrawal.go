package models

import (
	"time"

	"github.com/google/uuid"
)

// Withdrawal records one balance sweep for a school. Amount equals the
// sum of all positive balances zeroed in the same transaction.
type Withdrawal struct {
	ID        uuid.UUID
	CreatedAt time.Time
	SchoolID  uuid.UUID
	UserID    uuid.UUID
	Amount    int64
}
