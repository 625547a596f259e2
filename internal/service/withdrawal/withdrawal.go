package withdrawal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository"
)

type WithdrawalService struct {
	storage repository.Storage
	logger  logger.Logger
}

func NewService(storage repository.Storage, l logger.Logger) *WithdrawalService {
	return &WithdrawalService{
		storage: storage,
		logger:  l,
	}
}

// SweepResult carries everything the sweep produced, so callers can inform
// the affected users after the transaction committed.
type SweepResult struct {
	Withdrawal models.Withdrawal

	// Users swept, with their pre-sweep balances
	Swept []models.User
}

// Sweep moves all positive balances of a school into one withdrawal record.
// Runs as a single transaction: compensating negative payments, per-user
// notifications, balance zeroing and the withdrawal row all commit together
// or not at all. Users already at zero are untouched.
func (s *WithdrawalService) Sweep(ctx context.Context, schoolID uuid.UUID, initiatorID uuid.UUID) (SweepResult, error) {
	var result SweepResult

	if _, err := s.storage.School().GetSchoolByID(ctx, schoolID); err != nil {
		return result, err
	}
	if _, err := s.storage.User().GetUserByID(ctx, initiatorID); err != nil {
		return result, err
	}

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		users, err := store.User().LockPositiveBalances(ctx, schoolID)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return apperrors.ErrNothingToWithdraw
		}

		var total int64
		userIDs := make([]uuid.UUID, 0, len(users))

		for _, u := range users {
			total += u.Balance
			userIDs = append(userIDs, u.ID)

			// Compensating entry so the ledger still sums to the truth
			payment, err := store.Payment().CreatePayment(ctx, repository.CreatePaymentParams{
				UserID: u.ID,
				Amount: -u.Balance,
				Status: models.PaymentStatusCompleted,
			})
			if err != nil {
				return fmt.Errorf("can't create compensating payment: %w", err)
			}

			_, err = store.Notification().CreateNotification(ctx, repository.CreateNotificationParams{
				UserID:    u.ID,
				PaymentID: &payment.ID,
				Message:   fmt.Sprintf("Your balance of %d has been withdrawn by your school", u.Balance),
				Type:      models.NotificationTypeTransaction,
				Status:    models.PaymentStatusCompleted,
			})
			if err != nil {
				return err
			}
		}

		if err := store.User().ZeroBalances(ctx, userIDs); err != nil {
			return err
		}

		withdrawal, err := store.Withdrawal().CreateWithdrawal(ctx, repository.CreateWithdrawalParams{
			SchoolID: schoolID,
			UserID:   initiatorID,
			Amount:   total,
		})
		if err != nil {
			return err
		}

		result = SweepResult{Withdrawal: withdrawal, Swept: users}
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	s.logger.Info("School balances swept",
		"school_id", schoolID, "withdrawal_id", result.Withdrawal.ID,
		"amount", result.Withdrawal.Amount, "users", len(result.Swept))

	return result, nil
}

func (s *WithdrawalService) ListSchoolWithdrawals(ctx context.Context, schoolID uuid.UUID) ([]models.Withdrawal, error) {
	return s.storage.Withdrawal().ListSchoolWithdrawals(ctx, schoolID)
}
