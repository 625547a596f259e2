package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/handlers/middleware"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/midtrans"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/notifier"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/payment"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/withdrawal"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	paymentService paymentService,
	withdrawalService withdrawalService,
	userService userService,
	schoolService schoolService,
	notificationService notificationService,
	emitter notificationEmitter,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}
	withAdmin := func(h http.Handler) http.Handler {
		return authMiddleware(middleware.AdminOnly()(h))
	}

	root := http.NewServeMux()

	// Public: gateway callbacks authenticate via payload signature, auth endpoints issue tokens
	root.Handle("POST /webhooks/midtrans-notification", handleMidtransNotification(paymentService, emitter, logger))
	root.Handle("POST /auth/register", handleRegister(authService, logger))
	root.Handle("POST /auth/login", handleLogin(authService, logger))

	// Authenticated user-facing surface
	root.Handle("POST /payments", withAuth(handleCreatePayment(paymentService, logger)))
	root.Handle("GET /payments/{id}", withAuth(handleGetPayment(paymentService, logger)))
	root.Handle("GET /users/me", withAuth(handleUserMe()))
	root.Handle("GET /users/me/balance", withAuth(handleUserBalance()))
	root.Handle("GET /users/me/payments", withAuth(handleListUserPayments(paymentService, logger)))
	root.Handle("PATCH /users/me/school", withAuth(handleJoinSchool(userService, logger)))
	root.Handle("GET /schools/code/{code}", withAuth(handleGetSchoolByCode(schoolService, logger)))
	root.Handle("GET /notifications", withAuth(handleListNotifications(notificationService, logger)))
	root.Handle("PATCH /notifications/{id}/read", withAuth(handleMarkNotificationRead(notificationService, logger)))

	// Admin-only surface
	root.Handle("POST /schools", withAdmin(handleCreateSchool(schoolService, logger)))
	root.Handle("GET /users/total-balance", withAdmin(handleTotalBalance(userService, logger)))
	root.Handle("POST /withdrawals", withAdmin(handleCreateWithdrawal(withdrawalService, emitter, logger)))
	root.Handle("GET /withdrawals", withAdmin(handleListWithdrawals(withdrawalService, logger)))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register user with name, email and password
	// Has to return apperrors.ErrUserAlreadyExists if the email is taken
	Register(ctx context.Context, name string, email string, password string) (models.User, string, error)

	// Login user with email and password
	// Has to return apperrors.ErrUserNotFound on bad credentials
	Login(ctx context.Context, email string, password string) (models.User, string, error)

	// Get request and return user if it authenticated or error
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

type paymentService interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, amount int64, baseURL string) (midtrans.Transaction, error)
	GetPayment(ctx context.Context, paymentID uuid.UUID) (models.Payment, error)
	ListUserPayments(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
	ApplyNotification(ctx context.Context, n payment.Notification) (p models.Payment, changed bool, err error)
}

type withdrawalService interface {
	Sweep(ctx context.Context, schoolID uuid.UUID, initiatorID uuid.UUID) (withdrawal.SweepResult, error)
	ListSchoolWithdrawals(ctx context.Context, schoolID uuid.UUID) ([]models.Withdrawal, error)
}

type userService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	JoinSchoolByCode(ctx context.Context, userID uuid.UUID, code string) (models.User, error)
	TotalBalance(ctx context.Context, schoolID *uuid.UUID) (int64, error)
}

type schoolService interface {
	CreateSchool(ctx context.Context, name string, address string, contact string) (models.School, error)
	GetSchoolByCode(ctx context.Context, code string) (models.School, error)
}

type notificationService interface {
	ListUserNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) (models.Notification, error)
}

// notificationEmitter pushes real-time alerts after state committed.
// Fire and forget: implementations must never block or fail the request.
type notificationEmitter interface {
	Notify(event notifier.Event)
}
