package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository"
)

type NotificationRepo struct {
	DB DBTX
}

const notificationColumns = `id, created_at, updated_at, user_id, payment_id, message, type, status, read`

const createNotification = `-- name: CreateNotification
INSERT INTO notifications (id, created_at, updated_at, user_id, payment_id, message, type, status, read)
VALUES ($1, $2, $2, $3, $4, $5, $6, $7, false)
RETURNING ` + notificationColumns

func (r *NotificationRepo) CreateNotification(ctx context.Context, arg repository.CreateNotificationParams) (models.Notification, error) {
	typ := arg.Type
	if typ == "" {
		typ = models.NotificationTypeTransaction
	}

	rows, _ := r.DB.Query(ctx, createNotification, uuid.New(), time.Now(), arg.UserID, arg.PaymentID, arg.Message, typ, arg.Status)
	notification, err := pgx.CollectOneRow(rows, rowToNotification)
	if err != nil {
		return notification, fmt.Errorf("db error: %w", err)
	}

	return notification, nil
}

const listUserNotifications = `-- name: ListUserNotifications
SELECT ` + notificationColumns + ` FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *NotificationRepo) ListUserNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	rows, _ := r.DB.Query(ctx, listUserNotifications, userID)
	notifications, err := pgx.CollectRows(rows, rowToNotification)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return notifications, nil
}

const markRead = `-- name: MarkRead
UPDATE notifications
SET read = true, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + notificationColumns

func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) (models.Notification, error) {
	rows, _ := r.DB.Query(ctx, markRead, notificationID, userID)
	notification, err := pgx.CollectOneRow(rows, rowToNotification)

	switch {
	case err == nil:
		return notification, nil
	case errors.Is(err, pgx.ErrNoRows):
		return notification, apperrors.ErrUserNotFound
	default:
		return notification, fmt.Errorf("db error: %w", err)
	}
}

func rowToNotification(row pgx.CollectableRow) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt, &n.UserID, &n.PaymentID, &n.Message, &n.Type, &n.Status, &n.Read)
	return n, err
}
