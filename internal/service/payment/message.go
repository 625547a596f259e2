package payment

import (
	"fmt"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
)

// StatusMessage is the human text shown to the user for a payment's
// current status. Used for both the stored notification row and the
// real-time push event.
func StatusMessage(p models.Payment) string {
	switch p.Status {
	case models.PaymentStatusCompleted:
		return fmt.Sprintf("Your payment of %d has been completed", p.Amount)
	case models.PaymentStatusFailed:
		return fmt.Sprintf("Your payment of %d has failed", p.Amount)
	default:
		return fmt.Sprintf("Your payment of %d is pending", p.Amount)
	}
}
