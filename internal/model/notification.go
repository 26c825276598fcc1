package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeConfirmation NotificationType = "confirmation"
	NotificationTypeInfo         NotificationType = "info"
	NotificationTypeAlert        NotificationType = "alert"
)

type Notification struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	UserID    uuid.UUID        `db:"user_id" json:"user_id"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// NotificationEvent is the payload published to the in-app channel.
type NotificationEvent struct {
	ID             uuid.UUID        `json:"id"`
	NotificationID uuid.UUID        `json:"notification_id"`
	UserID         uuid.UUID        `json:"user_id"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	CreatedAt      time.Time        `json:"created_at"`
}
