package dto

import (
	"time"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
)

// NotificationResponse defines data returned for one notification.
type NotificationResponse struct {
	NotificationID string     `json:"notificationID"`
	Topic          string     `json:"topic"`
	Message        string     `json:"message"`
	DocumentID     string     `json:"documentID"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ToNotificationResponse converts a domain Notification to DTO.
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Topic:          string(n.Topic),
		Message:        n.Message,
		DocumentID:     n.DocumentID,
		ReadAt:         n.ReadAt,
		CreatedAt:      n.CreatedAt,
	}
}

// ListNotificationsResponse wraps a list of notifications.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

// ToListNotificationsResponse converts a slice of domain Notifications to DTO.
func ToListNotificationsResponse(ns []domain.Notification) ListNotificationsResponse {
	list := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		list[i] = ToNotificationResponse(&n)
	}
	return ListNotificationsResponse{Notifications: list}
}
