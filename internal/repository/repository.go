package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
)

type CreateUserParams struct {
	Name           string
	Email          string
	HashedPassword string
	Role           string
	SchoolID       *uuid.UUID
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the email exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Attach user to the school with the given join code
	// If no school has the code must return apperrors.ErrSchoolNotFound
	SetSchoolByCode(ctx context.Context, userID uuid.UUID, code string) (models.User, error)

	// Increase user balance by amount and return the updated user
	CreditBalance(ctx context.Context, userID uuid.UUID, amount int64) (models.User, error)

	// Sum of balances for all users, or for one school if schoolID is not nil
	SumBalances(ctx context.Context, schoolID *uuid.UUID) (int64, error)

	// Select school users with balance > 0 and lock their rows until the
	// surrounding transaction finishes. Must be called inside InTx.
	LockPositiveBalances(ctx context.Context, schoolID uuid.UUID) ([]models.User, error)

	// Set balance to zero for the given users
	ZeroBalances(ctx context.Context, userIDs []uuid.UUID) error
}

type CreateSchoolParams struct {
	Name    string
	Address string
	Contact string
	Code    string
}

// School repository interface
type SchoolRepo interface {
	// Create school
	// If the join code is taken must return apperrors.ErrSchoolCodeTaken
	CreateSchool(ctx context.Context, arg CreateSchoolParams) (models.School, error)

	// Get school by id or join code
	// If school not found must return apperrors.ErrSchoolNotFound
	GetSchoolByID(ctx context.Context, schoolID uuid.UUID) (models.School, error)
	GetSchoolByCode(ctx context.Context, code string) (models.School, error)
}

type CreatePaymentParams struct {
	UserID        uuid.UUID
	Amount        int64
	Status        string
	PaymentMethod *string
}

// Payment repository interface
//
// The status-changing methods implement the settlement state machine at the
// row level: completed is terminal, so transitions away from it never happen
// regardless of webhook ordering.
type PaymentRepo interface {
	CreatePayment(ctx context.Context, arg CreatePaymentParams) (models.Payment, error)

	// Get payment by id
	// If payment not found must return apperrors.ErrPaymentNotFound
	GetPayment(ctx context.Context, paymentID uuid.UUID) (models.Payment, error)

	// Delete payment row. Used only as compensating action when the
	// gateway rejects the transaction right after the row was written.
	DeletePayment(ctx context.Context, paymentID uuid.UUID) error

	ListUserPayments(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)

	// Set status to completed unless it is completed already.
	// transitioned reports whether this call changed the row; callers use
	// it to credit the balance exactly once per payment.
	MarkCompleted(ctx context.Context, paymentID uuid.UUID, method *string) (p models.Payment, transitioned bool, err error)

	// Set status to failed if the payment is still pending. Completed and
	// failed are terminal states, a no-op returns the stored row.
	MarkFailed(ctx context.Context, paymentID uuid.UUID) (p models.Payment, transitioned bool, err error)

	// Re-confirm pending status. A no-op returning the stored row when the
	// payment already settled or failed (late webhooks must not regress it).
	MarkPending(ctx context.Context, paymentID uuid.UUID, method *string) (p models.Payment, transitioned bool, err error)
}

type CreateWithdrawalParams struct {
	SchoolID uuid.UUID
	UserID   uuid.UUID
	Amount   int64
}

// Withdrawal repository interface
type WithdrawalRepo interface {
	CreateWithdrawal(ctx context.Context, arg CreateWithdrawalParams) (models.Withdrawal, error)
	ListSchoolWithdrawals(ctx context.Context, schoolID uuid.UUID) ([]models.Withdrawal, error)
}

type CreateNotificationParams struct {
	UserID    uuid.UUID
	PaymentID *uuid.UUID
	Message   string
	Type      string
	Status    string
}

// Notification repository interface
type NotificationRepo interface {
	CreateNotification(ctx context.Context, arg CreateNotificationParams) (models.Notification, error)
	ListUserNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)

	// Set read flag. Scoped by userID so users can't touch foreign rows.
	MarkRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) (models.Notification, error)
}

// Storage combines all repositories sharing one underlying connection
type Storage interface {
	User() UserRepo
	School() SchoolRepo
	Payment() PaymentRepo
	Withdrawal() WithdrawalRepo
	Notification() NotificationRepo

	// Run fn with a Storage bound to a single database transaction.
	// The transaction commits if fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Storage) error) error
}
