package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/handlers/render"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/notifier"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/payment"
)

// handleMidtransNotification is the single entry point for gateway
// callbacks. The gateway retries deliveries it considers failed, so the
// handler acknowledges with "OK" whenever internal state is settled:
// happy path, unknown order id, and unmapped statuses alike. Only a
// signature mismatch is answered with an error.
func handleMidtransNotification(paymentService paymentService, emitter notificationEmitter, l logger.Logger) http.Handler {
	// Midtrans sends every field as string; payout notifications share
	// the endpoint and simply miss the payment fields.
	type request struct {
		TransactionStatus string `json:"transaction_status"`
		OrderID           string `json:"order_id"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
		FraudStatus       string `json:"fraud_status"`
		PaymentType       string `json:"payment_type"`
	}

	ack := func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var data request
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			render.DecodeError(w, err)
			return
		}

		l.Debug("Midtrans notification received", "order_id", data.OrderID, "transaction_status", data.TransactionStatus)

		p, changed, err := paymentService.ApplyNotification(r.Context(), payment.Notification{
			TransactionStatus: data.TransactionStatus,
			OrderID:           data.OrderID,
			StatusCode:        data.StatusCode,
			GrossAmount:       data.GrossAmount,
			SignatureKey:      data.SignatureKey,
			FraudStatus:       data.FraudStatus,
			PaymentType:       data.PaymentType,
		})

		switch {
		case err == nil:
			// Push out-of-band after the transaction committed; a failed
			// push must never fail the acknowledgement
			if changed {
				emitter.Notify(notifier.Event{
					UserID:    p.UserID,
					PaymentID: &p.ID,
					Status:    p.Status,
					Message:   payment.StatusMessage(p),
				})
			}
			ack(w)

		case errors.Is(err, apperrors.ErrPaymentNotFound):
			// Unknown order: acknowledge so the gateway stops retrying
			l.Info("Notification for unknown order ignored", "order_id", data.OrderID)
			ack(w)

		case errors.Is(err, apperrors.ErrInvalidSignature):
			render.ServiceError(w, "Invalid signature key", http.StatusUnauthorized)

		case errors.Is(err, apperrors.ErrInvalidTransition):
			// Logged by the service; nothing to do with it, still ack
			ack(w)

		default:
			l.Error("Failed to process payment notification", "error", err, "order_id", data.OrderID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
