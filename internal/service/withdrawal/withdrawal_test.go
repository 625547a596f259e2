package withdrawal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository/postgres"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/testutil"
)

func TestSweep(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Helper function to create WithdrawalService within transaction
	withTx := func(t *testing.T, fn func(s *WithdrawalService, storage repository.Storage, school models.School, admin models.User)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			service := NewService(storage, logger.NewNoOpLogger())

			school, err := storage.School().CreateSchool(t.Context(), repository.CreateSchoolParams{
				Name: "SMA 1 Jakarta",
				Code: "AB12CD",
			})
			require.NoError(t, err, "creating school should not fail")

			admin, err := storage.User().CreateUser(t.Context(), repository.CreateUserParams{
				Name:           "Admin User",
				Email:          "admin@example.com",
				HashedPassword: "hash",
				Role:           models.RoleAdmin,
			})
			require.NoError(t, err, "creating admin should not fail")

			fn(service, storage, school, admin)
		})
	}

	createStudent := func(t *testing.T, storage repository.Storage, email string, schoolID uuid.UUID, balance int64) models.User {
		user, err := storage.User().CreateUser(t.Context(), repository.CreateUserParams{
			Name:           "Student",
			Email:          email,
			HashedPassword: "hash",
			SchoolID:       &schoolID,
		})
		require.NoError(t, err)

		if balance > 0 {
			user, err = storage.User().CreditBalance(t.Context(), user.ID, balance)
			require.NoError(t, err)
		}
		return user
	}

	t.Run("sweep ok", func(t *testing.T) {
		withTx(t, func(s *WithdrawalService, storage repository.Storage, school models.School, admin models.User) {
			first := createStudent(t, storage, "first@example.com", school.ID, 1000)
			second := createStudent(t, storage, "second@example.com", school.ID, 2000)
			broke := createStudent(t, storage, "broke@example.com", school.ID, 0)

			result, err := s.Sweep(t.Context(), school.ID, admin.ID)

			require.NoError(t, err, "sweeping should not fail")
			require.Equal(t, int64(3000), result.Withdrawal.Amount, "withdrawal should total all positive balances")
			require.Equal(t, school.ID, result.Withdrawal.SchoolID)
			require.Equal(t, admin.ID, result.Withdrawal.UserID)
			require.Len(t, result.Swept, 2, "zero balances should not be swept")

			// All student balances are zero now
			sum, err := storage.User().SumBalances(t.Context(), &school.ID)
			require.NoError(t, err)
			require.Zero(t, sum, "school balance should be zero after the sweep")

			// Each swept user got a compensating ledger entry and a notification
			for _, u := range []models.User{first, second} {
				payments, err := storage.Payment().ListUserPayments(t.Context(), u.ID)
				require.NoError(t, err)
				require.Len(t, payments, 1)
				require.Equal(t, -u.Balance, payments[0].Amount, "compensating entry should negate the balance")
				require.Equal(t, models.PaymentStatusCompleted, payments[0].Status)

				notifications, err := storage.Notification().ListUserNotifications(t.Context(), u.ID)
				require.NoError(t, err)
				require.Len(t, notifications, 1)
			}

			// Untouched user has no entries
			payments, err := storage.Payment().ListUserPayments(t.Context(), broke.ID)
			require.NoError(t, err)
			require.Empty(t, payments)
		})
	})

	t.Run("nothing to withdraw", func(t *testing.T) {
		withTx(t, func(s *WithdrawalService, storage repository.Storage, school models.School, admin models.User) {
			createStudent(t, storage, "broke@example.com", school.ID, 0)

			_, err := s.Sweep(t.Context(), school.ID, admin.ID)

			require.ErrorIs(t, err, apperrors.ErrNothingToWithdraw)

			withdrawals, err := storage.Withdrawal().ListSchoolWithdrawals(t.Context(), school.ID)
			require.NoError(t, err)
			require.Empty(t, withdrawals, "no withdrawal record for an empty sweep")
		})
	})

	t.Run("unknown school", func(t *testing.T) {
		withTx(t, func(s *WithdrawalService, storage repository.Storage, _ models.School, admin models.User) {
			_, err := s.Sweep(t.Context(), uuid.New(), admin.ID)

			require.ErrorIs(t, err, apperrors.ErrSchoolNotFound)
		})
	})

	t.Run("unknown initiator", func(t *testing.T) {
		withTx(t, func(s *WithdrawalService, storage repository.Storage, school models.School, _ models.User) {
			_, err := s.Sweep(t.Context(), school.ID, uuid.New())

			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("second sweep finds nothing", func(t *testing.T) {
		withTx(t, func(s *WithdrawalService, storage repository.Storage, school models.School, admin models.User) {
			createStudent(t, storage, "student@example.com", school.ID, 5000)

			_, err := s.Sweep(t.Context(), school.ID, admin.ID)
			require.NoError(t, err)

			_, err = s.Sweep(t.Context(), school.ID, admin.ID)

			require.ErrorIs(t, err, apperrors.ErrNothingToWithdraw, "balances are already zero")
		})
	})
}
