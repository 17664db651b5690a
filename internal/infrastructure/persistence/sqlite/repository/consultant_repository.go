package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sitepulse/internal/errs"
	"sitepulse/internal/infrastructure/persistence/sqlite/model"
	"sitepulse/internal/ports"
)

type ConsultantRepository struct {
	db *gorm.DB
}

var _ ports.ConsultantDirectory = (*ConsultantRepository)(nil)

func NewConsultantRepository(db *gorm.DB) *ConsultantRepository {
	return &ConsultantRepository{db: db}
}

func (r *ConsultantRepository) ResolveDefaultConsultantType(ctx context.Context, projectID string) (ports.ConsultantTypeRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ConsultantTypeRecord{}, err
	}

	// Prefer the explicit default, fall back to the earliest registration.
	var row model.ConsultantType
	if err := db.
		Where("project_id = ?", projectID).
		Order("is_default desc, row_id asc").
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ConsultantTypeRecord{}, ports.ErrNoConsultantType
		}
		return ports.ConsultantTypeRecord{}, errs.Wrap(err, "query consultant types")
	}
	return mapConsultantType(row), nil
}

func (r *ConsultantRepository) RegisterConsultantType(ctx context.Context, record ports.ConsultantTypeRecord) (ports.ConsultantTypeRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ConsultantTypeRecord{}, err
	}

	row := model.ConsultantType{
		ConsultantTypeID: record.ConsultantTypeID,
		ProjectID:        record.ProjectID,
		Name:             record.Name,
		IsDefault:        record.IsDefault,
		CreatedAt:        record.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.ConsultantTypeRecord{}, errs.Wrap(err, "insert consultant type")
	}
	return mapConsultantType(row), nil
}

func (r *ConsultantRepository) ListConsultantTypes(ctx context.Context, projectID string) ([]ports.ConsultantTypeRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.ConsultantType
	if err := db.
		Where("project_id = ?", projectID).
		Order("row_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query consultant types")
	}

	items := make([]ports.ConsultantTypeRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapConsultantType(row))
	}
	return items, nil
}

func mapConsultantType(row model.ConsultantType) ports.ConsultantTypeRecord {
	return ports.ConsultantTypeRecord{
		ConsultantTypeID: row.ConsultantTypeID,
		ProjectID:        row.ProjectID,
		Name:             row.Name,
		IsDefault:        row.IsDefault,
		CreatedAt:        row.CreatedAt,
	}
}
