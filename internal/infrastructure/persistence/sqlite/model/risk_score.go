package model

type RiskScore struct {
	ScoreID       uint64  `gorm:"column:score_id;primaryKey;autoIncrement"`
	ProjectID     string  `gorm:"column:project_id;type:text;not null;uniqueIndex:idx_risk_scores_project_area"`
	AreaID        string  `gorm:"column:area_id;type:text;not null;uniqueIndex:idx_risk_scores_project_area"`
	RiskScore     float64 `gorm:"column:risk_score;not null"`
	RiskLevel     string  `gorm:"column:risk_level;type:text;not null;index"`
	SeverityScore float64 `gorm:"column:severity_score;not null"`
	DefectCount   int     `gorm:"column:defect_count;not null"`
	ComputedAt    string  `gorm:"column:computed_at;type:text;not null"`
}

func (RiskScore) TableName() string {
	return "risk_scores"
}
