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

type notificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	PaymentID *uuid.UUID `json:"paymentId"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toNotificationResponse(n models.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		PaymentID: n.PaymentID,
		Message:   n.Message,
		Type:      n.Type,
		Status:    n.Status,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func handleListNotifications(notificationService notificationService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		notifications, err := notificationService.ListUserNotifications(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list notifications", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]notificationResponse, 0, len(notifications))
		for _, n := range notifications {
			out = append(out, toNotificationResponse(n))
		}
		render.JSON(w, out)
	})
}

func handleMarkNotificationRead(notificationService notificationService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		notificationID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid notification id", http.StatusBadRequest)
			return
		}

		notification, err := notificationService.MarkRead(r.Context(), notificationID, user.ID)

		switch {
		case err == nil:
			render.JSON(w, toNotificationResponse(notification))
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Notification not found", http.StatusNotFound)
		default:
			l.Error("Failed to mark notification read", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
