package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/midtrans"
)

// Gateway statuses Midtrans reports in webhook notifications
const (
	statusCapture    = "capture"
	statusSettlement = "settlement"
	statusCancel     = "cancel"
	statusDeny       = "deny"
	statusExpire     = "expire"
	statusPending    = "pending"

	fraudAccept = "accept"
)

type gateway interface {
	CreateTransaction(ctx context.Context, arg midtrans.CreateTransactionRequest) (midtrans.Transaction, error)
	VerifySignature(orderID string, statusCode string, grossAmount string, signatureKey string) bool
}

// Notification is the body Midtrans posts to the webhook endpoint.
// GrossAmount is a decimal string like "50000.00".
type Notification struct {
	TransactionStatus string
	OrderID           string
	StatusCode        string
	GrossAmount       string
	SignatureKey      string
	FraudStatus       string
	PaymentType       string
}

type PaymentService struct {
	storage repository.Storage
	gateway gateway
	logger  logger.Logger
}

func NewService(storage repository.Storage, gateway gateway, l logger.Logger) *PaymentService {
	return &PaymentService{
		storage: storage,
		gateway: gateway,
		logger:  l,
	}
}

// CreateTransaction writes a pending payment row and opens a hosted
// transaction at the gateway under the payment's id. If the gateway call
// fails the row is deleted again so no orphan pending payment survives.
func (s *PaymentService) CreateTransaction(ctx context.Context, userID uuid.UUID, amount int64, baseURL string) (midtrans.Transaction, error) {
	var transaction midtrans.Transaction

	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return transaction, fmt.Errorf("can't create payment: %w", err)
	}

	payment, err := s.storage.Payment().CreatePayment(ctx, repository.CreatePaymentParams{
		UserID: user.ID,
		Amount: amount,
		Status: models.PaymentStatusPending,
	})
	if err != nil {
		return transaction, fmt.Errorf("can't create payment: %w", err)
	}

	transaction, err = s.gateway.CreateTransaction(ctx, midtrans.CreateTransactionRequest{
		PaymentID:   payment.ID,
		GrossAmount: amount,
		Customer: midtrans.CustomerDetails{
			FirstName: user.FirstName(),
			LastName:  user.LastName(),
			Email:     user.Email,
		},
		BaseURL: baseURL,
	})
	if err != nil {
		// Compensating delete, the payment has no gateway transaction
		// behind it. Detached from the request context so a client gone
		// mid-call can't leave the orphan row in place.
		cleanupCtx := context.WithoutCancel(ctx)
		if delErr := s.storage.Payment().DeletePayment(cleanupCtx, payment.ID); delErr != nil {
			s.logger.Error("Failed to delete payment after gateway error", "payment_id", payment.ID, "error", delErr)
		}
		return transaction, err
	}

	return transaction, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (models.Payment, error) {
	return s.storage.Payment().GetPayment(ctx, paymentID)
}

func (s *PaymentService) ListUserPayments(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	return s.storage.Payment().ListUserPayments(ctx, userID)
}

// ApplyNotification runs one webhook delivery through the settlement state
// machine. changed reports whether the payment row actually transitioned;
// duplicate or stale deliveries come back with changed = false and no side
// effects, which keeps balance crediting idempotent.
//
// The signature is verified before anything else; on mismatch nothing is
// read or written beyond the payment lookup.
func (s *PaymentService) ApplyNotification(ctx context.Context, n Notification) (payment models.Payment, changed bool, err error) {
	orderID, err := uuid.Parse(n.OrderID)
	if err != nil {
		return payment, false, apperrors.ErrPaymentNotFound
	}

	payment, err = s.storage.Payment().GetPayment(ctx, orderID)
	if err != nil {
		return payment, false, err
	}

	if !s.gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		s.logger.Error("Invalid signature key in payment notification", "order_id", n.OrderID)
		return payment, false, apperrors.ErrInvalidSignature
	}

	if gross, perr := decimal.NewFromString(n.GrossAmount); perr == nil && !gross.Equal(decimal.NewFromInt(payment.Amount)) {
		s.logger.Warn("Gateway gross amount differs from payment amount",
			"order_id", n.OrderID, "gross_amount", n.GrossAmount, "amount", payment.Amount)
	}

	var method *string
	if n.PaymentType != "" {
		method = &n.PaymentType
	}

	switch n.TransactionStatus {
	case statusCapture:
		if n.FraudStatus != fraudAccept {
			// Capture with unsettled fraud status is ignored, no transition
			return payment, false, nil
		}
		return s.complete(ctx, payment, method)

	case statusSettlement:
		return s.complete(ctx, payment, method)

	case statusCancel, statusDeny, statusExpire:
		return s.fail(ctx, payment)

	case statusPending:
		return s.pending(ctx, payment, method)

	default:
		s.logger.Error("Unknown transaction status in payment notification",
			"order_id", n.OrderID, "transaction_status", n.TransactionStatus)
		return payment, false, apperrors.ErrInvalidTransition
	}
}

// complete transitions the payment to completed and credits the user's
// balance. Status update, credit and notification row are one transaction:
// all commit or none do. The conditional update inside MarkCompleted makes
// the whole unit apply at most once per payment.
func (s *PaymentService) complete(ctx context.Context, p models.Payment, method *string) (payment models.Payment, changed bool, err error) {
	payment = p

	err = s.storage.InTx(ctx, func(store repository.Storage) error {
		var transitioned bool
		payment, transitioned, err = store.Payment().MarkCompleted(ctx, p.ID, method)
		if err != nil {
			return err
		}
		if !transitioned {
			// Duplicate delivery: no credit, no second notification row
			return nil
		}

		if _, err := store.User().CreditBalance(ctx, payment.UserID, payment.Amount); err != nil {
			return fmt.Errorf("can't credit balance: %w", err)
		}

		_, err = store.Notification().CreateNotification(ctx, repository.CreateNotificationParams{
			UserID:    payment.UserID,
			PaymentID: &payment.ID,
			Message:   StatusMessage(payment),
			Type:      models.NotificationTypeTransaction,
			Status:    models.PaymentStatusCompleted,
		})
		if err != nil {
			return err
		}

		changed = true
		return nil
	})

	return payment, changed, err
}

func (s *PaymentService) fail(ctx context.Context, p models.Payment) (payment models.Payment, changed bool, err error) {
	payment = p

	err = s.storage.InTx(ctx, func(store repository.Storage) error {
		var transitioned bool
		payment, transitioned, err = store.Payment().MarkFailed(ctx, p.ID)
		if err != nil {
			return err
		}
		if !transitioned {
			// Already failed, or a late cancel for a settled payment.
			// Either way the row stays put and no notification is written.
			return nil
		}

		_, err = store.Notification().CreateNotification(ctx, repository.CreateNotificationParams{
			UserID:    payment.UserID,
			PaymentID: &payment.ID,
			Message:   StatusMessage(payment),
			Type:      models.NotificationTypeTransaction,
			Status:    models.PaymentStatusFailed,
		})
		if err != nil {
			return err
		}

		changed = true
		return nil
	})

	return payment, changed, err
}

// pending re-confirms the pending status and refreshes the reported payment
// method. A late pending webhook for a payment that already settled or
// failed returns the stored row untouched.
func (s *PaymentService) pending(ctx context.Context, p models.Payment, method *string) (payment models.Payment, changed bool, err error) {
	if p.Status != models.PaymentStatusPending {
		return p, false, nil
	}

	payment, _, err = s.storage.Payment().MarkPending(ctx, p.ID, method)
	return payment, false, err
}
