package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Name           string
	Email          string
	HashedPassword string
	Role           string
	SchoolID       *uuid.UUID

	// Accumulated travel savings in the smallest currency unit.
	// Credited by completed payments only, zeroed by a school withdrawal.
	Balance int64
}

// FirstName returns the first token of the full name.
func (u User) FirstName() string {
	first, _ := splitName(u.Name)
	return first
}

// LastName returns the last token of the full name.
// For single-token names first and last name are the same value.
func (u User) LastName() string {
	_, last := splitName(u.Name)
	return last
}
