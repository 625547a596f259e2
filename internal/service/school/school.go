package school

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	// Attempts to generate a non-colliding join code before giving up
	maxCodeRetries = 5
)

type SchoolService struct {
	schoolRepo repository.SchoolRepo
}

func NewService(schoolRepo repository.SchoolRepo) *SchoolService {
	return &SchoolService{
		schoolRepo: schoolRepo,
	}
}

// CreateSchool registers a school with a generated join code
func (s *SchoolService) CreateSchool(ctx context.Context, name string, address string, contact string) (models.School, error) {
	for range maxCodeRetries {
		code, err := generateCode()
		if err != nil {
			return models.School{}, err
		}

		school, err := s.schoolRepo.CreateSchool(ctx, repository.CreateSchoolParams{
			Name:    name,
			Address: address,
			Contact: contact,
			Code:    code,
		})

		switch {
		case err == nil:
			return school, nil
		case errors.Is(err, apperrors.ErrSchoolCodeTaken):
			continue
		default:
			return models.School{}, err
		}
	}

	return models.School{}, fmt.Errorf("can't generate unique school code after %d attempts", maxCodeRetries)
}

func (s *SchoolService) GetSchool(ctx context.Context, schoolID uuid.UUID) (models.School, error) {
	return s.schoolRepo.GetSchoolByID(ctx, schoolID)
}

func (s *SchoolService) GetSchoolByCode(ctx context.Context, code string) (models.School, error) {
	return s.schoolRepo.GetSchoolByCode(ctx, code)
}

func generateCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error while generating school code: %w", err)
	}

	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}

	return string(b), nil
}
