package repository

import (
	"context"

	"gorm.io/gorm"

	"sitepulse/internal/errs"
	"sitepulse/internal/infrastructure/persistence/sqlite/model"
	"sitepulse/internal/ports"
)

type NotificationRepository struct {
	db *gorm.DB
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, input ports.NotificationCreate) (ports.NotificationRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.NotificationRecord{}, err
	}

	row := model.Notification{
		RecipientID:     input.RecipientID,
		Category:        input.Category,
		Title:           input.Title,
		Message:         input.Message,
		RelatedEntityID: input.RelatedEntityID,
		CreatedAt:       input.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.NotificationRecord{}, errs.Wrap(err, "insert notification")
	}
	return mapNotification(row), nil
}

func (r *NotificationRepository) ListNotifications(ctx context.Context, recipientID string, limit int) ([]ports.NotificationRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Notification{}).
		Where("recipient_id = ?", recipientID).
		Order("notification_id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.Notification
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query notifications")
	}

	items := make([]ports.NotificationRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapNotification(row))
	}
	return items, nil
}

func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, notificationID uint64) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.Notification{}).
		Where("notification_id = ?", notificationID).
		Update("read", true)
	if result.Error != nil {
		return errs.Wrap(result.Error, "mark notification read")
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotificationNotFound
	}
	return nil
}

func mapNotification(row model.Notification) ports.NotificationRecord {
	return ports.NotificationRecord{
		NotificationID:  row.NotificationID,
		RecipientID:     row.RecipientID,
		Category:        row.Category,
		Title:           row.Title,
		Message:         row.Message,
		RelatedEntityID: row.RelatedEntityID,
		Read:            row.Read,
		CreatedAt:       row.CreatedAt,
	}
}
