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

type SchoolRepo struct {
	DB DBTX
}

const schoolColumns = `id, created_at, updated_at, name, address, contact, code`

const createSchool = `-- name: CreateSchool
INSERT INTO schools (id, created_at, updated_at, name, address, contact, code)
VALUES ($1, $2, $2, $3, $4, $5, $6)
RETURNING ` + schoolColumns

func (r *SchoolRepo) CreateSchool(ctx context.Context, arg repository.CreateSchoolParams) (models.School, error) {
	rows, _ := r.DB.Query(ctx, createSchool, uuid.New(), time.Now(), arg.Name, arg.Address, arg.Contact, arg.Code)
	school, err := pgx.CollectOneRow(rows, rowToSchool)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return school, apperrors.ErrSchoolCodeTaken
		}
		return school, fmt.Errorf("db error: %w", err)
	}

	return school, nil
}

const getSchoolByID = `-- name: GetSchoolByID
SELECT ` + schoolColumns + ` FROM schools
WHERE id = $1
`

func (r *SchoolRepo) GetSchoolByID(ctx context.Context, schoolID uuid.UUID) (models.School, error) {
	rows, _ := r.DB.Query(ctx, getSchoolByID, schoolID)
	return collectSchool(rows)
}

const getSchoolByCode = `-- name: GetSchoolByCode
SELECT ` + schoolColumns + ` FROM schools
WHERE code = $1
`

func (r *SchoolRepo) GetSchoolByCode(ctx context.Context, code string) (models.School, error) {
	rows, _ := r.DB.Query(ctx, getSchoolByCode, code)
	return collectSchool(rows)
}

func collectSchool(rows pgx.Rows) (models.School, error) {
	school, err := pgx.CollectOneRow(rows, rowToSchool)

	switch {
	case err == nil:
		return school, nil
	case errors.Is(err, pgx.ErrNoRows):
		return school, apperrors.ErrSchoolNotFound
	default:
		return school, fmt.Errorf("db error: %w", err)
	}
}

func rowToSchool(row pgx.CollectableRow) (models.School, error) {
	var s models.School
	err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt, &s.Name, &s.Address, &s.Contact, &s.Code)
	return s, err
}
