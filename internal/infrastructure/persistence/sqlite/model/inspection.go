package model

// Inspection rows created by the decision engine carry trigger_source
// "auto_risk" and hold active_auto_key = "<project_id>/<area_id>" while not
// terminal. The unique index on that nullable column is the storage-level
// idempotency boundary: at most one active auto-scheduled inspection per
// area, enforced even across concurrent writers.
type Inspection struct {
	InspectionID     uint64  `gorm:"column:inspection_id;primaryKey;autoIncrement"`
	Ref              string  `gorm:"column:ref;type:text;not null;uniqueIndex"`
	ProjectID        string  `gorm:"column:project_id;type:text;not null;index"`
	AreaID           *string `gorm:"column:area_id;type:text"`
	ConsultantTypeID string  `gorm:"column:consultant_type_id;type:text;not null"`
	ScheduledDate    string  `gorm:"column:scheduled_date;type:text;not null"`
	Status           string  `gorm:"column:status;type:text;not null;index"`
	Notes            string  `gorm:"column:notes;type:text;not null"`
	TriggerSource    string  `gorm:"column:trigger_source;type:text;not null;default:manual"`
	TriggerAreaID    *string `gorm:"column:trigger_area_id;type:text"`
	ActiveAutoKey    *string `gorm:"column:active_auto_key;type:text;uniqueIndex"`
	CreatedAt        string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt        string  `gorm:"column:updated_at;type:text;not null"`
}

func (Inspection) TableName() string {
	return "inspections"
}
