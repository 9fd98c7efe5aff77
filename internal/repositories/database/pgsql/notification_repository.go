package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portsrepo "github.com/hrplane/approval_flow_app/internal/core/ports/repositories"
	"github.com/hrplane/approval_flow_app/internal/models"
	"github.com/hrplane/approval_flow_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNotificationRepository struct {
	BaseRepository
}

// newPgxNotificationRepository creates a new notification repository.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepository {
	return &PgxNotificationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxNotificationRepository implements portsrepo.NotificationRepository
var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

// SaveNotification persists a new notification row.
func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	query := `
		INSERT INTO notifications (
			notification_id, recipient_id, topic, message, document_id, read_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		notification.NotificationID,
		notification.RecipientID,
		string(notification.Topic),
		notification.Message,
		notification.DocumentID,
		notification.ReadAt,
		notification.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewValidationFailedError("notification recipient does not exist")
		}
		return apperrors.NewAppError(500, "failed to insert notification "+notification.NotificationID, err)
	}
	return nil
}

// ListNotificationsByRecipient retrieves notifications newest first.
func (r *PgxNotificationRepository) ListNotificationsByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT notification_id, recipient_id, topic, message, document_id, read_at, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC, notification_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query notifications for "+recipientID, err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var m models.Notification
		scanErr := rows.Scan(
			&m.NotificationID,
			&m.RecipientID,
			&m.Topic,
			&m.Message,
			&m.DocumentID,
			&m.ReadAt,
			&m.CreatedAt,
		)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan notification row", scanErr)
		}
		notifications = append(notifications, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating notification rows", err)
	}
	return mapping.ToDomainNotificationSlice(notifications), nil
}

// MarkNotificationRead stamps read_at once; re-reads keep the original stamp.
func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, recipientID, notificationID string, readAt time.Time) error {
	query := `
		UPDATE notifications
		SET read_at = $3
		WHERE notification_id = $1 AND recipient_id = $2 AND read_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, notificationID, recipientID, readAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark notification "+notificationID+" read", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either missing, not owned by the caller, or already read.
		exists, checkErr := r.notificationOwned(ctx, recipientID, notificationID)
		if checkErr != nil {
			return checkErr
		}
		if !exists {
			return apperrors.ErrNotFound
		}
	}
	return nil
}

func (r *PgxNotificationRepository) notificationOwned(ctx context.Context, recipientID, notificationID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM notifications WHERE notification_id = $1 AND recipient_id = $2);`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, notificationID, recipientID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check notification "+notificationID, err)
	}
	return exists, nil
}
