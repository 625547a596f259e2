package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/db"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/handlers"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository/postgres"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/auth"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/midtrans"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/notifier"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/payment"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/school"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/user"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/service/withdrawal"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	notifier *notifier.Notifier
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	authService, err := auth.NewService(auth.Config{SecretKey: c.SecretKey}, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	gateway := midtrans.NewClient(midtrans.Config{
		BaseURL:   c.MidtransBaseURL,
		ServerKey: c.MidtransServerKey,
	}, logger)
	paymentService := payment.NewService(storage, gateway, logger)
	withdrawalService := withdrawal.NewService(storage, logger)
	userService := user.NewService(storage.User())
	schoolService := school.NewService(storage.School())
	eventNotifier := notifier.New(notifier.LogPusher{Logger: logger}, logger)

	mux := handlers.NewRouter(
		authService,
		paymentService,
		withdrawalService,
		userService,
		schoolService,
		storage.Notification(),
		eventNotifier,
		logger,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		notifier:   eventNotifier,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	notifierStopped := s.notifier.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server")
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	<-notifierStopped

	return err
}
