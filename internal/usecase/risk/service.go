// Package risk wires the scoring pipeline end to end: defect ledger reads,
// score computation and classification, the persisted score upsert, and the
// auto-scheduling decision that may create an inspection and a notification.
package risk

import (
	"context"
	"fmt"
	"time"

	"sitepulse/internal/bootstrap/config"
	domainrisk "sitepulse/internal/domain/risk"
	"sitepulse/internal/ports"
)

type Service struct {
	risk          ports.RiskRepository
	defects       ports.DefectRepository
	inspections   ports.InspectionRepository
	notifications ports.NotificationRepository
	consultants   ports.ConsultantDirectory
	uow           ports.UnitOfWork
	cache         ports.Cache

	weights   domainrisk.Weights
	leadDays  int
	recipient string

	now func() time.Time
}

// NewService builds the risk service from its ports and the risk tuning
// section of the config.
func NewService(
	riskRepo ports.RiskRepository,
	defectRepo ports.DefectRepository,
	inspectionRepo ports.InspectionRepository,
	notificationRepo ports.NotificationRepository,
	consultants ports.ConsultantDirectory,
	uow ports.UnitOfWork,
	cache ports.Cache,
	cfg config.RiskConfig,
) *Service {
	return &Service{
		risk:          riskRepo,
		defects:       defectRepo,
		inspections:   inspectionRepo,
		notifications: notificationRepo,
		consultants:   consultants,
		uow:           uow,
		cache:         cache,
		weights:       cfg.Weights(),
		leadDays:      cfg.ScheduleLeadDays,
		recipient:     cfg.DefaultRecipient,
		now:           time.Now,
	}
}

func (s *Service) nowUTC() time.Time {
	return s.now().UTC()
}

func nowString(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func cacheAreaLevelKey(projectID string, areaID string) string {
	return fmt.Sprintf("risk:level:%s:%s", projectID, areaID)
}

func (s *Service) setCacheBestEffort(ctx context.Context, key string, value string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, value, 0)
}
