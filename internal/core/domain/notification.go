package domain

import "time"

// NotificationTopic classifies why a notification was emitted.
type NotificationTopic string

const (
	TopicReferenced       NotificationTopic = "DOCUMENT_REFERENCED"
	TopicDecisionRequired NotificationTopic = "DECISION_REQUIRED"
	TopicDocumentApproved NotificationTopic = "DOCUMENT_APPROVED"
	TopicDocumentRejected NotificationTopic = "DOCUMENT_REJECTED"
)

// Notification is a best-effort message to an employee about workflow activity.
// Delivery is outside the engine's transactional boundary.
type Notification struct {
	NotificationID string            `json:"notificationID"` // Primary Key (UUID)
	RecipientID    string            `json:"recipientID"`    // EmployeeID
	Topic          NotificationTopic `json:"topic"`
	Message        string            `json:"message"`
	DocumentID     string            `json:"documentID"`
	ReadAt         *time.Time        `json:"readAt,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}
