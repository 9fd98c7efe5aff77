package models

import "time"

// Notification is a persisted workflow notification row.
type Notification struct {
	NotificationID string     `json:"notificationID"`
	RecipientID    string     `json:"recipientID"`
	Topic          string     `json:"topic"`
	Message        string     `json:"message"`
	DocumentID     string     `json:"documentID"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
