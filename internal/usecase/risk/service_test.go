package risk

import (
	"context"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"sitepulse/internal/bootstrap/config"
	"sitepulse/internal/infrastructure/cache"
	"sitepulse/internal/infrastructure/persistence/sqlite/model"
	"sitepulse/internal/infrastructure/persistence/sqlite/repository"
	"sitepulse/internal/infrastructure/persistence/sqlite/uow"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "sitepulse.sqlite") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(
		&model.RiskThreshold{},
		&model.RiskScore{},
		&model.Defect{},
		&model.Inspection{},
		&model.Notification{},
		&model.ConsultantType{},
		&model.RiskKV{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	cfg := config.RiskConfig{
		CriticalWeight:   20,
		MajorWeight:      10,
		MinorWeight:      4,
		CountFactor:      1.25,
		ScheduleLeadDays: 1,
		DefaultRecipient: "project-manager",
	}

	return NewService(
		repository.NewRiskRepository(db),
		repository.NewDefectRepository(db),
		repository.NewInspectionRepository(db),
		repository.NewNotificationRepository(db),
		repository.NewConsultantRepository(db),
		uow.NewUnitOfWork(db),
		cache.NewSQLiteCache(db),
		cfg,
	)
}

func configureThresholds(t *testing.T, svc *Service, projectID string, autoSchedule bool, bar string) {
	t.Helper()

	if err := svc.SetThresholds(context.Background(), SetThresholdsInput{
		ProjectID:         projectID,
		LowThreshold:      25,
		MediumThreshold:   50,
		HighThreshold:     75,
		CriticalThreshold: 90,
		AutoSchedule:      autoSchedule,
		AutoScheduleAt:    bar,
	}); err != nil {
		t.Fatalf("SetThresholds() error = %v", err)
	}
}

func registerConsultant(t *testing.T, svc *Service, projectID string) {
	t.Helper()

	if _, err := svc.RegisterConsultantType(context.Background(), RegisterConsultantTypeInput{
		ProjectID: projectID,
		Name:      "structural engineer",
		IsDefault: true,
	}); err != nil {
		t.Fatalf("RegisterConsultantType() error = %v", err)
	}
}

func reportDefects(t *testing.T, svc *Service, projectID string, areaID string, severities ...string) ReportDefectResult {
	t.Helper()

	var last ReportDefectResult
	for _, severity := range severities {
		result, err := svc.ReportDefect(context.Background(), ReportDefectInput{
			ProjectID:   projectID,
			AreaID:      areaID,
			Severity:    severity,
			Category:    "structural",
			Description: "crack in load-bearing wall",
		})
		if err != nil {
			t.Fatalf("ReportDefect(%s) error = %v", severity, err)
		}
		last = result
	}
	return last
}
