package risk

import (
	"context"
	"errors"
	"strings"

	"sitepulse/internal/ports"
)

func (s *Service) ListNotifications(ctx context.Context, recipientID string, limit int) ([]ports.NotificationRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if s.notifications == nil {
		return nil, errors.New("notification repository is required")
	}

	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		recipientID = s.recipient
	}
	if limit <= 0 {
		limit = 20
	}
	return s.notifications.ListNotifications(ctx, recipientID, limit)
}

func (s *Service) MarkNotificationRead(ctx context.Context, notificationID uint64) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if s.notifications == nil {
		return errors.New("notification repository is required")
	}
	return s.notifications.MarkNotificationRead(ctx, notificationID)
}
