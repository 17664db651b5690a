package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"sitepulse/internal/domain/risk"
	"sitepulse/internal/ports"
)

func TestThresholdsCreateOrReplace(t *testing.T) {
	repo := NewRiskRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	if _, err := repo.GetThresholds(ctx, "p1"); !errors.Is(err, ports.ErrThresholdsNotFound) {
		t.Fatalf("GetThresholds() error = %v, want ErrThresholdsNotFound", err)
	}

	record := ports.RiskThresholdRecord{
		ProjectID: "p1",
		Thresholds: risk.Thresholds{
			Low: 25, Medium: 50, High: 75, Critical: 90,
			AutoSchedule: false, AutoScheduleAt: risk.LevelHigh,
		},
		UpdatedAt: now,
	}
	if err := repo.ReplaceThresholds(ctx, record); err != nil {
		t.Fatalf("ReplaceThresholds() error = %v", err)
	}

	record.Thresholds.AutoSchedule = true
	record.Thresholds.AutoScheduleAt = risk.LevelMedium
	if err := repo.ReplaceThresholds(ctx, record); err != nil {
		t.Fatalf("second ReplaceThresholds() error = %v", err)
	}

	stored, err := repo.GetThresholds(ctx, "p1")
	if err != nil {
		t.Fatalf("GetThresholds() error = %v", err)
	}
	if !stored.Thresholds.AutoSchedule || stored.Thresholds.AutoScheduleAt != risk.LevelMedium {
		t.Fatalf("replace did not overwrite: %+v", stored.Thresholds)
	}
}

func TestScoreUpsertKeepsOneRowPerArea(t *testing.T) {
	repo := NewRiskRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	first, err := repo.UpsertScore(ctx, ports.RiskScoreUpsert{
		ProjectID: "p1", AreaID: "area-3",
		RiskScore: 21.25, RiskLevel: risk.LevelLow,
		SeverityScore: 20, DefectCount: 1, ComputedAt: now,
	})
	if err != nil {
		t.Fatalf("first UpsertScore() error = %v", err)
	}

	second, err := repo.UpsertScore(ctx, ports.RiskScoreUpsert{
		ProjectID: "p1", AreaID: "area-3",
		RiskScore: 85, RiskLevel: risk.LevelHigh,
		SeverityScore: 80, DefectCount: 4, ComputedAt: now,
	})
	if err != nil {
		t.Fatalf("second UpsertScore() error = %v", err)
	}
	if second.ScoreID != first.ScoreID {
		t.Fatalf("upsert created a second row: %d vs %d", second.ScoreID, first.ScoreID)
	}
	if second.RiskScore != 85 || second.RiskLevel != risk.LevelHigh || second.DefectCount != 4 {
		t.Fatalf("upsert did not replace values: %+v", second)
	}

	scores, err := repo.ListScores(ctx, "p1")
	if err != nil {
		t.Fatalf("ListScores() error = %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("scores = %d, want 1", len(scores))
	}
}

func TestDeleteAreaScore(t *testing.T) {
	repo := NewRiskRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	if _, err := repo.UpsertScore(ctx, ports.RiskScoreUpsert{
		ProjectID: "p1", AreaID: "area-3",
		RiskScore: 10, RiskLevel: risk.LevelLow,
		SeverityScore: 8, DefectCount: 2, ComputedAt: now,
	}); err != nil {
		t.Fatalf("UpsertScore() error = %v", err)
	}

	if err := repo.DeleteAreaScore(ctx, "p1", "area-3"); err != nil {
		t.Fatalf("DeleteAreaScore() error = %v", err)
	}
	if _, err := repo.GetScore(ctx, "p1", "area-3"); !errors.Is(err, ports.ErrScoreNotFound) {
		t.Fatalf("GetScore() error = %v, want ErrScoreNotFound", err)
	}
}

func TestOpenDefectFilterExcludesResolved(t *testing.T) {
	db := setupDB(t)
	repo := NewDefectRepository(db)
	ctx := context.Background()

	first, err := repo.CreateDefect(ctx, ports.DefectCreate{
		ProjectID: "p1", AreaID: "area-3",
		Severity: risk.SeverityCritical, Category: "structural",
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		t.Fatalf("CreateDefect() error = %v", err)
	}
	if _, err := repo.CreateDefect(ctx, ports.DefectCreate{
		ProjectID: "p1", AreaID: "area-3",
		Severity: risk.SeverityMinor, Category: "finish",
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}); err != nil {
		t.Fatalf("CreateDefect() error = %v", err)
	}

	if err := repo.SetDefectStatus(ctx, first.DefectID, ports.DefectStatusResolved, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		t.Fatalf("SetDefectStatus() error = %v", err)
	}

	open, err := repo.ListOpenDefects(ctx, "p1", "area-3")
	if err != nil {
		t.Fatalf("ListOpenDefects() error = %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open defects = %d, want 1", len(open))
	}
	if open[0].Severity != risk.SeverityMinor {
		t.Fatalf("open defect severity = %q, want minor", open[0].Severity)
	}
}
