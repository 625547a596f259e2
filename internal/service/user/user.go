package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository"
)

type UserService struct {
	// Repository to access long term data
	userRepo repository.UserRepo
}

func NewService(userRepo repository.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *UserService) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	return user.Balance, nil
}

// JoinSchoolByCode attaches the user to the school with the join code
func (s *UserService) JoinSchoolByCode(ctx context.Context, userID uuid.UUID, code string) (models.User, error) {
	return s.userRepo.SetSchoolByCode(ctx, userID, code)
}

// TotalBalance sums all user balances, or one school's when schoolID is set
func (s *UserService) TotalBalance(ctx context.Context, schoolID *uuid.UUID) (int64, error) {
	return s.userRepo.SumBalances(ctx, schoolID)
}
