package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository"
)

type WithdrawalRepo struct {
	DB DBTX
}

const withdrawalColumns = `id, created_at, school_id, user_id, amount`

const createWithdrawal = `-- name: CreateWithdrawal
INSERT INTO withdrawals (id, created_at, school_id, user_id, amount)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + withdrawalColumns

func (r *WithdrawalRepo) CreateWithdrawal(ctx context.Context, arg repository.CreateWithdrawalParams) (models.Withdrawal, error) {
	rows, _ := r.DB.Query(ctx, createWithdrawal, uuid.New(), time.Now(), arg.SchoolID, arg.UserID, arg.Amount)
	withdrawal, err := pgx.CollectOneRow(rows, rowToWithdrawal)
	if err != nil {
		return withdrawal, fmt.Errorf("db error: %w", err)
	}

	return withdrawal, nil
}

const listSchoolWithdrawals = `-- name: ListSchoolWithdrawals
SELECT ` + withdrawalColumns + ` FROM withdrawals
WHERE school_id = $1
ORDER BY created_at DESC
`

func (r *WithdrawalRepo) ListSchoolWithdrawals(ctx context.Context, schoolID uuid.UUID) ([]models.Withdrawal, error) {
	rows, _ := r.DB.Query(ctx, listSchoolWithdrawals, schoolID)
	withdrawals, err := pgx.CollectRows(rows, rowToWithdrawal)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return withdrawals, nil
}

func rowToWithdrawal(row pgx.CollectableRow) (models.Withdrawal, error) {
	var w models.Withdrawal
	err := row.Scan(&w.ID, &w.CreatedAt, &w.SchoolID, &w.UserID, &w.Amount)
	return w, err
}
