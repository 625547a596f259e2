package models

import (
	"time"

	"github.com/google/uuid"
)

type School struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Address   string
	Contact   string

	// Short join code students use to attach themselves to the school
	Code string
}
