package services

import (
	"context"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
)

// NotifierSvc emits workflow notifications. Emission is best-effort: the
// orchestrator calls it only after its transaction has committed, and an
// emission failure must never surface to the workflow caller.
type NotifierSvc interface {
	// Notify records a notification for the recipient. Errors are logged
	// internally, never returned.
	Notify(ctx context.Context, recipientID string, topic domain.NotificationTopic, documentID, message string)

	// ListNotifications retrieves an employee's notifications, newest first.
	ListNotifications(ctx context.Context, recipientID string, limit, offset int) ([]domain.Notification, error)

	// MarkNotificationRead stamps a notification as read by its recipient.
	MarkNotificationRead(ctx context.Context, recipientID, notificationID string) error
}
