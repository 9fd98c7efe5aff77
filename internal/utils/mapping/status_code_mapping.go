package mapping

import (
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	"github.com/hrplane/approval_flow_app/internal/models"
)

// ToDomainStatusCode converts a model StatusCode to a domain StatusCode
func ToDomainStatusCode(m models.StatusCode) domain.StatusCode {
	return domain.StatusCode{
		StatusCodeID: m.StatusCodeID,
		Category:     domain.StatusCategory(m.Category),
		Name:         m.Name,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStatusCodeSlice converts a slice of model StatusCodes to domain StatusCodes
func ToDomainStatusCodeSlice(ms []models.StatusCode) []domain.StatusCode {
	ds := make([]domain.StatusCode, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStatusCode(m)
	}
	return ds
}

// ToDomainNotification converts a model Notification to a domain Notification
func ToDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID: m.NotificationID,
		RecipientID:    m.RecipientID,
		Topic:          domain.NotificationTopic(m.Topic),
		Message:        m.Message,
		DocumentID:     m.DocumentID,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainNotificationSlice converts a slice of model Notifications to domain Notifications
func ToDomainNotificationSlice(ms []models.Notification) []domain.Notification {
	ds := make([]domain.Notification, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainNotification(m)
	}
	return ds
}
