package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sitepulse/internal/errs"
	"sitepulse/internal/infrastructure/persistence/sqlite/model"
	"sitepulse/internal/ports"
)

// InspectionRepository owns the inspection store and the active-slot
// uniqueness that backs exactly-once auto-scheduling.
type InspectionRepository struct {
	db *gorm.DB
}

var _ ports.InspectionRepository = (*InspectionRepository)(nil)

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// ActiveAutoKey is the value held in inspections.active_auto_key while an
// auto-scheduled inspection for the area is not terminal.
func ActiveAutoKey(projectID string, areaID string) string {
	return fmt.Sprintf("%s/%s", projectID, areaID)
}

// CreateAutoScheduled inserts the inspection with ON CONFLICT DO NOTHING on
// the active slot. Zero rows affected means another writer already holds
// the slot; callers treat that as "already scheduled".
func (r *InspectionRepository) CreateAutoScheduled(ctx context.Context, input ports.AutoInspectionCreate) (ports.InspectionRecord, bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.InspectionRecord{}, false, err
	}

	areaID := input.AreaID
	activeKey := ActiveAutoKey(input.ProjectID, input.AreaID)
	row := model.Inspection{
		Ref:              input.Ref,
		ProjectID:        input.ProjectID,
		AreaID:           &areaID,
		ConsultantTypeID: input.ConsultantTypeID,
		ScheduledDate:    input.ScheduledDate,
		Status:           ports.InspectionStatusPending,
		Notes:            input.Notes,
		TriggerSource:    ports.TriggerSourceAutoRisk,
		TriggerAreaID:    &areaID,
		ActiveAutoKey:    &activeKey,
		CreatedAt:        input.CreatedAt,
		UpdatedAt:        input.CreatedAt,
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "active_auto_key"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return ports.InspectionRecord{}, false, errs.Wrap(result.Error, "insert auto-scheduled inspection")
	}
	if result.RowsAffected == 0 {
		return ports.InspectionRecord{}, false, nil
	}
	return mapInspection(row), true, nil
}

func (r *InspectionRepository) ListActiveAutoScheduled(ctx context.Context, projectID string, areaID string) ([]ports.InspectionRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Inspection
	if err := db.
		Where("active_auto_key = ?", ActiveAutoKey(projectID, areaID)).
		Order("inspection_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query active auto-scheduled inspections")
	}
	return mapInspections(rows), nil
}

func (r *InspectionRepository) GetInspection(ctx context.Context, inspectionID uint64) (ports.InspectionRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.InspectionRecord{}, err
	}

	var row model.Inspection
	if err := db.Where("inspection_id = ?", inspectionID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.InspectionRecord{}, ports.ErrInspectionNotFound
		}
		return ports.InspectionRecord{}, errs.Wrap(err, "query inspection")
	}
	return mapInspection(row), nil
}

func (r *InspectionRepository) ListInspections(ctx context.Context, projectID string) ([]ports.InspectionRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Inspection
	if err := db.
		Where("project_id = ?", projectID).
		Order("inspection_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query inspections")
	}
	return mapInspections(rows), nil
}

// SetInspectionStatus moves an inspection to the given status. Terminal
// statuses also release the active auto-schedule slot, returning the area
// to Idle in the same statement.
func (r *InspectionRepository) SetInspectionStatus(ctx context.Context, inspectionID uint64, status string, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	updates := map[string]any{
		"status":     status,
		"updated_at": updatedAt,
	}
	if ports.InspectionStatusTerminal(status) {
		updates["active_auto_key"] = nil
	}

	result := db.Model(&model.Inspection{}).
		Where("inspection_id = ?", inspectionID).
		Updates(updates)
	if result.Error != nil {
		return errs.Wrap(result.Error, "update inspection status")
	}
	if result.RowsAffected == 0 {
		return ports.ErrInspectionNotFound
	}
	return nil
}

func mapInspections(rows []model.Inspection) []ports.InspectionRecord {
	items := make([]ports.InspectionRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapInspection(row))
	}
	return items
}

func mapInspection(row model.Inspection) ports.InspectionRecord {
	return ports.InspectionRecord{
		InspectionID:     row.InspectionID,
		Ref:              row.Ref,
		ProjectID:        row.ProjectID,
		AreaID:           row.AreaID,
		ConsultantTypeID: row.ConsultantTypeID,
		ScheduledDate:    row.ScheduledDate,
		Status:           row.Status,
		Notes:            row.Notes,
		TriggerSource:    row.TriggerSource,
		TriggerAreaID:    row.TriggerAreaID,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
