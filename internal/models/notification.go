package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeTransaction = "transaction"
)

type Notification struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uuid.UUID
	PaymentID *uuid.UUID
	Message   string
	Type      string

	// Mirrors the triggering payment's status when applicable
	Status string
	Read   bool
}
