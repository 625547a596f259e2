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
)

type paymentResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	PaymentMethod *string   `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toPaymentResponse(p models.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func handleCreatePayment(paymentService paymentService, l logger.Logger) http.Handler {
	// The body may carry a status field; it is accepted and ignored.
	// Payments always start pending, status moves only through gateway
	// notifications or a withdrawal sweep.
	type request struct {
		Amount int64     `json:"amount" validate:"required,gt=0"`
		UserID uuid.UUID `json:"userId" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		baseURL := r.URL.Query().Get("baseUrl")
		if baseURL == "" {
			render.ServiceError(w, "baseUrl query string is required", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		transaction, err := paymentService.CreateTransaction(r.Context(), data.UserID, data.Amount, baseURL)

		switch {
		case err == nil:
			render.JSONWithStatus(w, transaction, http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrGateway):
			l.Error("Gateway transaction creation failed", "error", err)
			render.ServiceError(w, "Payment gateway error", http.StatusInternalServerError)
		default:
			l.Error("Failed to create payment", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleGetPayment(paymentService paymentService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paymentID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid payment id", http.StatusBadRequest)
			return
		}

		payment, err := paymentService.GetPayment(r.Context(), paymentID)

		switch {
		case err == nil:
			render.JSON(w, toPaymentResponse(payment))
		case errors.Is(err, apperrors.ErrPaymentNotFound):
			render.ServiceError(w, "Payment not found", http.StatusNotFound)
		default:
			l.Error("Failed to get payment", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListUserPayments(paymentService paymentService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		payments, err := paymentService.ListUserPayments(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list payments", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]paymentResponse, 0, len(payments))
		for _, p := range payments {
			out = append(out, toPaymentResponse(p))
		}
		render.JSON(w, out)
	})
}
