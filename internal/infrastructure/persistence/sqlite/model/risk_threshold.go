package model

type RiskThreshold struct {
	ThresholdID       uint64  `gorm:"column:threshold_id;primaryKey;autoIncrement"`
	ProjectID         string  `gorm:"column:project_id;type:text;not null;uniqueIndex"`
	LowThreshold      float64 `gorm:"column:low_threshold;not null"`
	MediumThreshold   float64 `gorm:"column:medium_threshold;not null"`
	HighThreshold     float64 `gorm:"column:high_threshold;not null"`
	CriticalThreshold float64 `gorm:"column:critical_threshold;not null"`
	AutoSchedule      bool    `gorm:"column:auto_schedule;not null;default:0"`
	AutoScheduleAt    string  `gorm:"column:auto_schedule_at;type:text;not null"`
	UpdatedAt         string  `gorm:"column:updated_at;type:text;not null"`
}

func (RiskThreshold) TableName() string {
	return "risk_thresholds"
}
