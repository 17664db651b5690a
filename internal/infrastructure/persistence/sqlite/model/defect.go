package model

type Defect struct {
	DefectID    uint64 `gorm:"column:defect_id;primaryKey;autoIncrement"`
	ProjectID   string `gorm:"column:project_id;type:text;not null;index:idx_defects_project_area"`
	AreaID      string `gorm:"column:area_id;type:text;not null;index:idx_defects_project_area"`
	Severity    string `gorm:"column:severity;type:text;not null"`
	Category    string `gorm:"column:category;type:text;not null"`
	Status      string `gorm:"column:status;type:text;not null;index"`
	Description string `gorm:"column:description;type:text;not null"`
	CreatedAt   string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt   string `gorm:"column:updated_at;type:text;not null"`
}

func (Defect) TableName() string {
	return "defects"
}
