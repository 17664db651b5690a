package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sitepulse/internal/domain/risk"
	"sitepulse/internal/errs"
	"sitepulse/internal/infrastructure/persistence/sqlite/model"
	"sitepulse/internal/ports"
)

// DefectRepository is the defect ledger plus the write path that feeds it.
type DefectRepository struct {
	db *gorm.DB
}

var _ ports.DefectRepository = (*DefectRepository)(nil)

func NewDefectRepository(db *gorm.DB) *DefectRepository {
	return &DefectRepository{db: db}
}

func (r *DefectRepository) ListOpenDefects(ctx context.Context, projectID string, areaID string) ([]ports.DefectRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Defect
	if err := db.
		Where("project_id = ? AND area_id = ?", projectID, areaID).
		Where("status NOT IN ?", []string{ports.DefectStatusResolved, ports.DefectStatusClosed}).
		Order("defect_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query open defects")
	}
	return mapDefects(rows), nil
}

func (r *DefectRepository) CreateDefect(ctx context.Context, input ports.DefectCreate) (ports.DefectRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.DefectRecord{}, err
	}

	row := model.Defect{
		ProjectID:   input.ProjectID,
		AreaID:      input.AreaID,
		Severity:    input.Severity.String(),
		Category:    input.Category,
		Status:      ports.DefectStatusOpen,
		Description: input.Description,
		CreatedAt:   input.CreatedAt,
		UpdatedAt:   input.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.DefectRecord{}, errs.Wrap(err, "insert defect")
	}
	return mapDefect(row), nil
}

func (r *DefectRepository) GetDefect(ctx context.Context, defectID uint64) (ports.DefectRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.DefectRecord{}, err
	}

	var row model.Defect
	if err := db.Where("defect_id = ?", defectID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DefectRecord{}, ports.ErrDefectNotFound
		}
		return ports.DefectRecord{}, errs.Wrap(err, "query defect")
	}
	return mapDefect(row), nil
}

func (r *DefectRepository) SetDefectStatus(ctx context.Context, defectID uint64, status string, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.Defect{}).
		Where("defect_id = ?", defectID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update defect status")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDefectNotFound
	}
	return nil
}

func (r *DefectRepository) ListDefects(ctx context.Context, projectID string, areaID string) ([]ports.DefectRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Where("project_id = ?", projectID)
	if areaID != "" {
		query = query.Where("area_id = ?", areaID)
	}

	var rows []model.Defect
	if err := query.Order("defect_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query defects")
	}
	return mapDefects(rows), nil
}

func mapDefects(rows []model.Defect) []ports.DefectRecord {
	items := make([]ports.DefectRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapDefect(row))
	}
	return items
}

func mapDefect(row model.Defect) ports.DefectRecord {
	return ports.DefectRecord{
		DefectID:    row.DefectID,
		ProjectID:   row.ProjectID,
		AreaID:      row.AreaID,
		Severity:    risk.Severity(row.Severity),
		Category:    row.Category,
		Status:      row.Status,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
