package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portsrepo "github.com/hrplane/approval_flow_app/internal/core/ports/repositories"
	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/middleware"
)

// notificationService records workflow notifications. Emission is best-effort
// and decoupled from the caller's transaction: a failed insert is logged and
// swallowed, never returned.
type notificationService struct {
	notificationRepo portsrepo.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo portsrepo.NotificationRepository) portssvc.NotifierSvc {
	return &notificationService{
		notificationRepo: notificationRepo,
	}
}

// Ensure notificationService implements the portssvc.NotifierSvc interface
var _ portssvc.NotifierSvc = (*notificationService)(nil)

// Notify persists the notification asynchronously. The caller's transaction
// has already committed; nothing here may affect its outcome.
func (s *notificationService) Notify(ctx context.Context, recipientID string, topic domain.NotificationTopic, documentID, message string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	notification := domain.Notification{
		NotificationID: uuid.NewString(),
		RecipientID:    recipientID,
		Topic:          topic,
		Message:        message,
		DocumentID:     documentID,
		CreatedAt:      time.Now().UTC(),
	}

	go func() {
		// Detached from the request context so an aborted request does not
		// cancel the write.
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.notificationRepo.SaveNotification(saveCtx, notification); err != nil {
			logger.Error("Failed to record notification",
				slog.String("notification_id", notification.NotificationID),
				slog.String("recipient_id", recipientID),
				slog.String("topic", string(topic)),
				slog.String("document_id", documentID),
				slog.String("error", err.Error()))
			return
		}
		logger.Debug("Notification recorded",
			slog.String("notification_id", notification.NotificationID),
			slog.String("recipient_id", recipientID),
			slog.String("topic", string(topic)))
	}()
}

// ListNotifications retrieves an employee's notifications, newest first.
func (s *notificationService) ListNotifications(ctx context.Context, recipientID string, limit, offset int) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.ListNotificationsByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for %s: %w", recipientID, err)
	}
	return notifications, nil
}

// MarkNotificationRead stamps a notification as read by its recipient.
func (s *notificationService) MarkNotificationRead(ctx context.Context, recipientID, notificationID string) error {
	if err := s.notificationRepo.MarkNotificationRead(ctx, recipientID, notificationID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	return nil
}
