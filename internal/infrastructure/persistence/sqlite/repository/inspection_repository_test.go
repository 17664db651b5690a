package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitepulse/internal/infrastructure/persistence/sqlite/model"
	"sitepulse/internal/ports"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "sitepulse.sqlite")
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
	return db
}

func autoCreateInput(projectID, areaID string) ports.AutoInspectionCreate {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return ports.AutoInspectionCreate{
		Ref:              uuid.NewString(),
		ProjectID:        projectID,
		AreaID:           areaID,
		ConsultantTypeID: "ct-1",
		ScheduledDate:    "2026-08-30",
		Notes:            "[auto-scheduled] risk follow-up for area " + areaID,
		CreatedAt:        now,
	}
}

func TestCreateAutoScheduledHoldsActiveSlot(t *testing.T) {
	repo := NewInspectionRepository(setupDB(t))
	ctx := context.Background()

	first, created, err := repo.CreateAutoScheduled(ctx, autoCreateInput("p1", "area-3"))
	if err != nil {
		t.Fatalf("first CreateAutoScheduled() error = %v", err)
	}
	if !created {
		t.Fatalf("first insert should create")
	}
	if first.Status != ports.InspectionStatusPending {
		t.Fatalf("status = %q, want pending", first.Status)
	}

	_, created, err = repo.CreateAutoScheduled(ctx, autoCreateInput("p1", "area-3"))
	if err != nil {
		t.Fatalf("second CreateAutoScheduled() error = %v", err)
	}
	if created {
		t.Fatalf("second insert must resolve to no-op while slot is held")
	}

	active, err := repo.ListActiveAutoScheduled(ctx, "p1", "area-3")
	if err != nil {
		t.Fatalf("ListActiveAutoScheduled() error = %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active = %d, want 1", len(active))
	}
}

func TestDifferentAreasDoNotContend(t *testing.T) {
	repo := NewInspectionRepository(setupDB(t))
	ctx := context.Background()

	for _, areaID := range []string{"area-1", "area-2", "area-3"} {
		_, created, err := repo.CreateAutoScheduled(ctx, autoCreateInput("p1", areaID))
		if err != nil {
			t.Fatalf("CreateAutoScheduled(%s) error = %v", areaID, err)
		}
		if !created {
			t.Fatalf("area %s should get its own slot", areaID)
		}
	}

	// Same area id under another project is an independent slot too.
	_, created, err := repo.CreateAutoScheduled(ctx, autoCreateInput("p2", "area-1"))
	if err != nil {
		t.Fatalf("CreateAutoScheduled(p2) error = %v", err)
	}
	if !created {
		t.Fatalf("slots must be scoped per project")
	}
}

func TestTerminalStatusReleasesSlot(t *testing.T) {
	repo := NewInspectionRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	first, created, err := repo.CreateAutoScheduled(ctx, autoCreateInput("p1", "area-3"))
	if err != nil || !created {
		t.Fatalf("CreateAutoScheduled() = %v, created=%v", err, created)
	}

	if err := repo.SetInspectionStatus(ctx, first.InspectionID, ports.InspectionStatusCompleted, now); err != nil {
		t.Fatalf("SetInspectionStatus() error = %v", err)
	}

	active, err := repo.ListActiveAutoScheduled(ctx, "p1", "area-3")
	if err != nil {
		t.Fatalf("ListActiveAutoScheduled() error = %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active = %d, want 0 after completion", len(active))
	}

	second, created, err := repo.CreateAutoScheduled(ctx, autoCreateInput("p1", "area-3"))
	if err != nil {
		t.Fatalf("re-create CreateAutoScheduled() error = %v", err)
	}
	if !created {
		t.Fatalf("released slot should accept a new inspection")
	}
	if second.InspectionID == first.InspectionID {
		t.Fatalf("expected a fresh inspection row")
	}

	got, err := repo.GetInspection(ctx, first.InspectionID)
	if err != nil {
		t.Fatalf("GetInspection() error = %v", err)
	}
	if got.Status != ports.InspectionStatusCompleted {
		t.Fatalf("first inspection status = %q, want completed", got.Status)
	}
}

func TestSetInspectionStatusUnknownID(t *testing.T) {
	repo := NewInspectionRepository(setupDB(t))
	ctx := context.Background()

	err := repo.SetInspectionStatus(ctx, 4242, ports.InspectionStatusCancelled, time.Now().UTC().Format(time.RFC3339Nano))
	if err != ports.ErrInspectionNotFound {
		t.Fatalf("SetInspectionStatus() error = %v, want ErrInspectionNotFound", err)
	}
}
