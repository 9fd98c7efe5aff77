package repositories

import (
	"context"
	"time"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
)

// NotificationRepository defines persistence for workflow notifications.
type NotificationRepository interface {
	// SaveNotification persists a new notification row.
	SaveNotification(ctx context.Context, notification domain.Notification) error

	// ListNotificationsByRecipient retrieves notifications for an employee,
	// newest first.
	ListNotificationsByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]domain.Notification, error)

	// MarkNotificationRead stamps read_at for a notification owned by the recipient.
	MarkNotificationRead(ctx context.Context, recipientID, notificationID string, readAt time.Time) error
}
