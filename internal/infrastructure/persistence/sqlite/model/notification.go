package model

type Notification struct {
	NotificationID  uint64 `gorm:"column:notification_id;primaryKey;autoIncrement"`
	RecipientID     string `gorm:"column:recipient_id;type:text;not null;index"`
	Category        string `gorm:"column:category;type:text;not null"`
	Title           string `gorm:"column:title;type:text;not null"`
	Message         string `gorm:"column:message;type:text;not null"`
	RelatedEntityID string `gorm:"column:related_entity_id;type:text;not null"`
	Read            bool   `gorm:"column:read;not null;default:0"`
	CreatedAt       string `gorm:"column:created_at;type:text;not null"`
}

func (Notification) TableName() string {
	return "notifications"
}
