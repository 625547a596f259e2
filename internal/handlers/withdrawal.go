package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/handlers/render"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/notifier"
)

func handleCreateWithdrawal(withdrawalService withdrawalService, emitter notificationEmitter, l logger.Logger) http.Handler {
	type request struct {
		UserID   uuid.UUID `json:"userId" validate:"required"`
		SchoolID uuid.UUID `json:"schoolId" validate:"required"`
	}
	type response struct {
		ID        uuid.UUID `json:"id"`
		SchoolID  uuid.UUID `json:"schoolId"`
		UserID    uuid.UUID `json:"userId"`
		Amount    int64     `json:"amount"`
		CreatedAt time.Time `json:"createdAt"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		result, err := withdrawalService.Sweep(r.Context(), data.SchoolID, data.UserID)

		switch {
		case err == nil:
			// Inform swept users out-of-band, after commit
			for _, u := range result.Swept {
				emitter.Notify(notifier.Event{
					UserID:  u.ID,
					Status:  models.PaymentStatusCompleted,
					Message: "Your balance has been withdrawn by your school",
				})
			}
			render.JSONWithStatus(w, response{
				ID:        result.Withdrawal.ID,
				SchoolID:  result.Withdrawal.SchoolID,
				UserID:    result.Withdrawal.UserID,
				Amount:    result.Withdrawal.Amount,
				CreatedAt: result.Withdrawal.CreatedAt,
			}, http.StatusCreated)

		case errors.Is(err, apperrors.ErrSchoolNotFound):
			render.ServiceError(w, "School not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrNothingToWithdraw):
			render.ServiceError(w, "No positive balances to withdraw", http.StatusUnprocessableEntity)
		default:
			l.Error("Failed to sweep balances", "error", err, "school_id", data.SchoolID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListWithdrawals(withdrawalService withdrawalService, l logger.Logger) http.Handler {
	type withdrawalItem struct {
		ID        uuid.UUID `json:"id"`
		SchoolID  uuid.UUID `json:"schoolId"`
		UserID    uuid.UUID `json:"userId"`
		Amount    int64     `json:"amount"`
		CreatedAt time.Time `json:"createdAt"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		schoolID, err := uuid.Parse(r.URL.Query().Get("schoolId"))
		if err != nil {
			render.ServiceError(w, "schoolId query string is required", http.StatusBadRequest)
			return
		}

		withdrawals, err := withdrawalService.ListSchoolWithdrawals(r.Context(), schoolID)
		if err != nil {
			l.Error("Failed to list withdrawals", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]withdrawalItem, 0, len(withdrawals))
		for _, wd := range withdrawals {
			out = append(out, withdrawalItem{
				ID:        wd.ID,
				SchoolID:  wd.SchoolID,
				UserID:    wd.UserID,
				Amount:    wd.Amount,
				CreatedAt: wd.CreatedAt,
			})
		}
		render.JSON(w, out)
	})
}
