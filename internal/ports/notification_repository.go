package ports

import (
	"context"
	"errors"
)

var ErrNotificationNotFound = errors.New("notification not found")

const NotificationCategoryInspection = "inspection"

type NotificationRecord struct {
	NotificationID  uint64
	RecipientID     string
	Category        string
	Title           string
	Message         string
	RelatedEntityID string
	Read            bool
	CreatedAt       string
}

type NotificationCreate struct {
	RecipientID     string
	Category        string
	Title           string
	Message         string
	RelatedEntityID string
	CreatedAt       string
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, input NotificationCreate) (NotificationRecord, error)
	ListNotifications(ctx context.Context, recipientID string, limit int) ([]NotificationRecord, error)
	MarkNotificationRead(ctx context.Context, notificationID uint64) error
}
