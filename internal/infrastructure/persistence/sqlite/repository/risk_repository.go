package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sitepulse/internal/domain/risk"
	"sitepulse/internal/errs"
	"sitepulse/internal/infrastructure/persistence/sqlite/model"
	"sitepulse/internal/ports"
)

// RiskRepository persists threshold configs and risk scores.
type RiskRepository struct {
	db *gorm.DB
}

var _ ports.RiskRepository = (*RiskRepository)(nil)

func NewRiskRepository(db *gorm.DB) *RiskRepository {
	return &RiskRepository{db: db}
}

func (r *RiskRepository) GetThresholds(ctx context.Context, projectID string) (ports.RiskThresholdRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.RiskThresholdRecord{}, err
	}

	var row model.RiskThreshold
	if err := db.Where("project_id = ?", projectID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RiskThresholdRecord{}, ports.ErrThresholdsNotFound
		}
		return ports.RiskThresholdRecord{}, errs.Wrap(err, "query risk thresholds")
	}
	return mapThresholds(row), nil
}

// ReplaceThresholds upserts the single threshold row of a project.
func (r *RiskRepository) ReplaceThresholds(ctx context.Context, record ports.RiskThresholdRecord) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.RiskThreshold{
		ProjectID:         record.ProjectID,
		LowThreshold:      record.Thresholds.Low,
		MediumThreshold:   record.Thresholds.Medium,
		HighThreshold:     record.Thresholds.High,
		CriticalThreshold: record.Thresholds.Critical,
		AutoSchedule:      record.Thresholds.AutoSchedule,
		AutoScheduleAt:    record.Thresholds.AutoScheduleAt.String(),
		UpdatedAt:         record.UpdatedAt,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"low_threshold", "medium_threshold", "high_threshold", "critical_threshold",
			"auto_schedule", "auto_schedule_at", "updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert risk thresholds")
	}
	return nil
}

// UpsertScore replaces the score row for (project, area) and returns the
// stored record.
func (r *RiskRepository) UpsertScore(ctx context.Context, input ports.RiskScoreUpsert) (ports.RiskScoreRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.RiskScoreRecord{}, err
	}

	row := model.RiskScore{
		ProjectID:     input.ProjectID,
		AreaID:        input.AreaID,
		RiskScore:     input.RiskScore,
		RiskLevel:     input.RiskLevel.String(),
		SeverityScore: input.SeverityScore,
		DefectCount:   input.DefectCount,
		ComputedAt:    input.ComputedAt,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}, {Name: "area_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"risk_score", "risk_level", "severity_score", "defect_count", "computed_at",
		}),
	}).Create(&row).Error; err != nil {
		return ports.RiskScoreRecord{}, errs.Wrap(err, "upsert risk score")
	}

	// An upsert that hit the conflict path leaves the autoincrement id of
	// the phantom insert in row; read the stored row back.
	return r.GetScore(ctx, input.ProjectID, input.AreaID)
}

func (r *RiskRepository) GetScore(ctx context.Context, projectID string, areaID string) (ports.RiskScoreRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.RiskScoreRecord{}, err
	}

	var row model.RiskScore
	if err := db.Where("project_id = ? AND area_id = ?", projectID, areaID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RiskScoreRecord{}, ports.ErrScoreNotFound
		}
		return ports.RiskScoreRecord{}, errs.Wrap(err, "query risk score")
	}
	return mapScore(row), nil
}

func (r *RiskRepository) ListScores(ctx context.Context, projectID string) ([]ports.RiskScoreRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.RiskScore
	if err := db.
		Where("project_id = ?", projectID).
		Order("area_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query risk scores")
	}

	items := make([]ports.RiskScoreRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapScore(row))
	}
	return items, nil
}

// DeleteAreaScore removes the score row of a deleted area. The only hard
// delete in this store.
func (r *RiskRepository) DeleteAreaScore(ctx context.Context, projectID string, areaID string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	if err := db.
		Where("project_id = ? AND area_id = ?", projectID, areaID).
		Delete(&model.RiskScore{}).Error; err != nil {
		return errs.Wrap(err, "delete risk score")
	}
	return nil
}

func mapThresholds(row model.RiskThreshold) ports.RiskThresholdRecord {
	return ports.RiskThresholdRecord{
		ProjectID: row.ProjectID,
		Thresholds: risk.Thresholds{
			Low:            row.LowThreshold,
			Medium:         row.MediumThreshold,
			High:           row.HighThreshold,
			Critical:       row.CriticalThreshold,
			AutoSchedule:   row.AutoSchedule,
			AutoScheduleAt: risk.Level(row.AutoScheduleAt),
		},
		UpdatedAt: row.UpdatedAt,
	}
}

func mapScore(row model.RiskScore) ports.RiskScoreRecord {
	return ports.RiskScoreRecord{
		ScoreID:       row.ScoreID,
		ProjectID:     row.ProjectID,
		AreaID:        row.AreaID,
		RiskScore:     row.RiskScore,
		RiskLevel:     risk.Level(row.RiskLevel),
		SeverityScore: row.SeverityScore,
		DefectCount:   row.DefectCount,
		ComputedAt:    row.ComputedAt,
	}
}
