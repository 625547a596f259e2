package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository"
)

type PaymentRepo struct {
	DB DBTX
}

const paymentColumns = `id, created_at, updated_at, user_id, amount, status, payment_method`

const createPayment = `-- name: CreatePayment
INSERT INTO payments (id, created_at, updated_at, user_id, amount, status, payment_method)
VALUES ($1, $2, $2, $3, $4, $5, $6)
RETURNING ` + paymentColumns

func (r *PaymentRepo) CreatePayment(ctx context.Context, arg repository.CreatePaymentParams) (models.Payment, error) {
	status := arg.Status
	if status == "" {
		status = models.PaymentStatusPending
	}

	rows, _ := r.DB.Query(ctx, createPayment, uuid.New(), time.Now(), arg.UserID, arg.Amount, status, arg.PaymentMethod)
	payment, err := pgx.CollectOneRow(rows, rowToPayment)
	if err != nil {
		return payment, fmt.Errorf("db error: %w", err)
	}

	return payment, nil
}

const getPayment = `-- name: GetPayment
SELECT ` + paymentColumns + ` FROM payments
WHERE id = $1
`

func (r *PaymentRepo) GetPayment(ctx context.Context, paymentID uuid.UUID) (models.Payment, error) {
	rows, _ := r.DB.Query(ctx, getPayment, paymentID)
	return collectPayment(rows)
}

const deletePayment = `-- name: DeletePayment
DELETE FROM payments
WHERE id = $1
`

func (r *PaymentRepo) DeletePayment(ctx context.Context, paymentID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deletePayment, paymentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPaymentNotFound
	}

	return nil
}

const listUserPayments = `-- name: ListUserPayments
SELECT ` + paymentColumns + ` FROM payments
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *PaymentRepo) ListUserPayments(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	rows, _ := r.DB.Query(ctx, listUserPayments, userID)
	payments, err := pgx.CollectRows(rows, rowToPayment)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return payments, nil
}

// Completed is terminal. The status check belongs to the UPDATE itself so
// two concurrent settlement webhooks can't both observe "not completed yet":
// exactly one of them gets the row back with transitioned = true.
const markCompleted = `-- name: MarkCompleted
UPDATE payments
SET status = 'completed', payment_method = COALESCE($2, payment_method), updated_at = now()
WHERE id = $1 AND status <> 'completed'
RETURNING ` + paymentColumns

func (r *PaymentRepo) MarkCompleted(ctx context.Context, paymentID uuid.UUID, method *string) (models.Payment, bool, error) {
	rows, _ := r.DB.Query(ctx, markCompleted, paymentID, method)
	payment, err := pgx.CollectOneRow(rows, rowToPayment)

	switch {
	case err == nil:
		return payment, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Nothing updated: either already completed or unknown id
		payment, err = r.GetPayment(ctx, paymentID)
		return payment, false, err
	default:
		return payment, false, fmt.Errorf("db error: %w", err)
	}
}

// Failed and completed are both terminal: only a pending payment can fail.
// A cancel or expire webhook arriving after settlement must not reopen the
// row, otherwise a repeated settlement would pass the markCompleted guard
// and credit the balance a second time.
const markFailed = `-- name: MarkFailed
UPDATE payments
SET status = 'failed', updated_at = now()
WHERE id = $1 AND status = 'pending'
RETURNING ` + paymentColumns

func (r *PaymentRepo) MarkFailed(ctx context.Context, paymentID uuid.UUID) (models.Payment, bool, error) {
	rows, _ := r.DB.Query(ctx, markFailed, paymentID)
	payment, err := pgx.CollectOneRow(rows, rowToPayment)

	switch {
	case err == nil:
		return payment, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		payment, err = r.GetPayment(ctx, paymentID)
		return payment, false, err
	default:
		return payment, false, fmt.Errorf("db error: %w", err)
	}
}

const markPending = `-- name: MarkPending
UPDATE payments
SET status = 'pending', payment_method = COALESCE($2, payment_method), updated_at = now()
WHERE id = $1 AND status = 'pending'
RETURNING ` + paymentColumns

func (r *PaymentRepo) MarkPending(ctx context.Context, paymentID uuid.UUID, method *string) (models.Payment, bool, error) {
	rows, _ := r.DB.Query(ctx, markPending, paymentID, method)
	payment, err := pgx.CollectOneRow(rows, rowToPayment)

	switch {
	case err == nil:
		return payment, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		payment, err = r.GetPayment(ctx, paymentID)
		return payment, false, err
	default:
		return payment, false, fmt.Errorf("db error: %w", err)
	}
}

func collectPayment(rows pgx.Rows) (models.Payment, error) {
	payment, err := pgx.CollectOneRow(rows, rowToPayment)

	switch {
	case err == nil:
		return payment, nil
	case errors.Is(err, pgx.ErrNoRows):
		return payment, apperrors.ErrPaymentNotFound
	default:
		return payment, fmt.Errorf("db error: %w", err)
	}
}

func rowToPayment(row pgx.CollectableRow) (models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.UserID, &p.Amount, &p.Status, &p.PaymentMethod)
	return p, err
}
