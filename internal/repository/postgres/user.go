package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = `id, created_at, updated_at, name, email, password_hash, role, school_id, balance`

const createUser = `-- name: CreateUser
INSERT INTO users (id, created_at, updated_at, name, email, password_hash, role, school_id, balance)
VALUES ($1, $2, $2, $3, $4, $5, $6, $7, 0)
RETURNING ` + userColumns

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	role := arg.Role
	if role == "" {
		role = models.RoleStudent
	}

	rows, _ := r.DB.Query(ctx, createUser, uuid.New(), time.Now(), arg.Name, arg.Email, arg.HashedPassword, role, arg.SchoolID)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}
		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT ` + userColumns + ` FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, userID)
	return collectUser(rows)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT ` + userColumns + ` FROM users
WHERE email = $1
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

const setSchoolByCode = `-- name: SetSchoolByCode
UPDATE users
SET school_id = s.id, updated_at = now()
FROM schools s
WHERE users.id = $1 AND s.code = $2
RETURNING users.id, users.created_at, users.updated_at, users.name, users.email, users.password_hash, users.role, users.school_id, users.balance
`

func (r *UserRepo) SetSchoolByCode(ctx context.Context, userID uuid.UUID, code string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, setSchoolByCode, userID, code)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Either the user or the school code is missing; tell which one apart
		if _, userErr := r.GetUserByID(ctx, userID); userErr != nil {
			return user, userErr
		}
		return user, apperrors.ErrSchoolNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const creditBalance = `-- name: CreditBalance
UPDATE users
SET balance = balance + $2, updated_at = now()
WHERE id = $1
RETURNING ` + userColumns

func (r *UserRepo) CreditBalance(ctx context.Context, userID uuid.UUID, amount int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, creditBalance, userID, amount)
	return collectUser(rows)
}

const sumBalances = `-- name: SumBalances
SELECT COALESCE(SUM(balance), 0) FROM users
WHERE $1::uuid IS NULL OR school_id = $1
`

func (r *UserRepo) SumBalances(ctx context.Context, schoolID *uuid.UUID) (int64, error) {
	var sum int64
	err := r.DB.QueryRow(ctx, sumBalances, schoolID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return sum, nil
}

const lockPositiveBalances = `-- name: LockPositiveBalances
SELECT ` + userColumns + ` FROM users
WHERE school_id = $1 AND balance > 0
ORDER BY id
FOR UPDATE
`

func (r *UserRepo) LockPositiveBalances(ctx context.Context, schoolID uuid.UUID) ([]models.User, error) {
	rows, _ := r.DB.Query(ctx, lockPositiveBalances, schoolID)
	users, err := pgx.CollectRows(rows, rowToUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

const zeroBalances = `-- name: ZeroBalances
UPDATE users
SET balance = 0, updated_at = now()
WHERE id = ANY($1)
`

func (r *UserRepo) ZeroBalances(ctx context.Context, userIDs []uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, zeroBalances, userIDs)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() != int64(len(userIDs)) {
		return fmt.Errorf("expected to zero %d balances, zeroed %d: %w", len(userIDs), tag.RowsAffected(), apperrors.ErrUserNotFound)
	}

	return nil
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Name, &u.Email, &u.HashedPassword, &u.Role, &u.SchoolID, &u.Balance)
	return u, err
}
