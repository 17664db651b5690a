package model

type ConsultantType struct {
	RowID            uint64 `gorm:"column:row_id;primaryKey;autoIncrement"`
	ConsultantTypeID string `gorm:"column:consultant_type_id;type:text;not null;uniqueIndex"`
	ProjectID        string `gorm:"column:project_id;type:text;not null;index"`
	Name             string `gorm:"column:name;type:text;not null"`
	IsDefault        bool   `gorm:"column:is_default;not null;default:0"`
	CreatedAt        string `gorm:"column:created_at;type:text;not null"`
}

func (ConsultantType) TableName() string {
	return "consultant_types"
}
