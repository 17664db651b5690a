package risk

import (
	"context"
	"strings"
	"testing"

	domainrisk "sitepulse/internal/domain/risk"
	"sitepulse/internal/ports"
)

func TestAutoScheduleOnHighRiskArea(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	configureThresholds(t, svc, "p1", true, "high")
	registerConsultant(t, svc, "p1")

	result := reportDefects(t, svc, "p1", "area-3", "critical", "critical", "critical", "critical")

	if result.Recompute.RiskScore != 85 {
		t.Fatalf("RiskScore = %.2f, want 85", result.Recompute.RiskScore)
	}
	if result.Recompute.RiskLevel != domainrisk.LevelHigh {
		t.Fatalf("RiskLevel = %q, want high", result.Recompute.RiskLevel)
	}
	if !result.Recompute.AutoScheduled {
		t.Fatalf("expected final recompute to auto-schedule, got %+v", result.Recompute)
	}

	inspections, err := svc.ListInspections(ctx, "p1")
	if err != nil {
		t.Fatalf("ListInspections() error = %v", err)
	}
	if len(inspections) != 1 {
		t.Fatalf("inspections = %d, want 1", len(inspections))
	}

	inspection := inspections[0]
	if inspection.Status != ports.InspectionStatusPending {
		t.Fatalf("inspection status = %q, want pending", inspection.Status)
	}
	if inspection.TriggerSource != ports.TriggerSourceAutoRisk {
		t.Fatalf("trigger source = %q, want auto_risk", inspection.TriggerSource)
	}
	if inspection.TriggerAreaID == nil || *inspection.TriggerAreaID != "area-3" {
		t.Fatalf("trigger area = %v, want area-3", inspection.TriggerAreaID)
	}
	if !strings.Contains(inspection.Notes, "[auto-scheduled]") || !strings.Contains(inspection.Notes, "area-3") {
		t.Fatalf("notes = %q, want marker and area id", inspection.Notes)
	}

	notifications, err := svc.ListNotifications(ctx, "project-manager", 0)
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	if notifications[0].Category != ports.NotificationCategoryInspection {
		t.Fatalf("category = %q, want inspection", notifications[0].Category)
	}
	if !strings.Contains(notifications[0].Title, "Auto-Scheduled") {
		t.Fatalf("title = %q, want Auto-Scheduled marker", notifications[0].Title)
	}
	if notifications[0].RelatedEntityID != inspection.Ref {
		t.Fatalf("related entity = %q, want inspection ref %q", notifications[0].RelatedEntityID, inspection.Ref)
	}
}

func TestLowRiskAreaSchedulesNothing(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	configureThresholds(t, svc, "p1", true, "high")
	registerConsultant(t, svc, "p1")

	result := reportDefects(t, svc, "p1", "area-1", "minor")

	if result.Recompute.RiskLevel != domainrisk.LevelLow {
		t.Fatalf("RiskLevel = %q, want low", result.Recompute.RiskLevel)
	}
	if result.Recompute.AutoScheduled || result.Recompute.AlreadyScheduled {
		t.Fatalf("low-risk area must not schedule: %+v", result.Recompute)
	}

	inspections, err := svc.ListInspections(ctx, "p1")
	if err != nil {
		t.Fatalf("ListInspections() error = %v", err)
	}
	if len(inspections) != 0 {
		t.Fatalf("inspections = %d, want 0", len(inspections))
	}

	notifications, err := svc.ListNotifications(ctx, "project-manager", 0)
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	if len(notifications) != 0 {
		t.Fatalf("notifications = %d, want 0", len(notifications))
	}
}

func TestAutoScheduleDisabledFlagRespected(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	configureThresholds(t, svc, "p1", false, "high")
	registerConsultant(t, svc, "p1")

	result := reportDefects(t, svc, "p1", "area-2", "critical", "critical", "critical", "critical")

	if result.Recompute.RiskScore != 85 {
		t.Fatalf("RiskScore = %.2f, want 85", result.Recompute.RiskScore)
	}
	if result.Recompute.AutoScheduled {
		t.Fatalf("disabled flag ignored: %+v", result.Recompute)
	}

	inspections, err := svc.ListInspections(ctx, "p1")
	if err != nil {
		t.Fatalf("ListInspections() error = %v", err)
	}
	if len(inspections) != 0 {
		t.Fatalf("inspections = %d, want 0 with auto-schedule off", len(inspections))
	}
}

func TestUnconfiguredProjectNeverSchedules(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	registerConsultant(t, svc, "p1")

	result := reportDefects(t, svc, "p1", "area-9", "critical", "critical", "critical", "critical")

	// Absent config is a no-op, not a failure: the score still lands and
	// classifies under the default cutoffs.
	if result.Recompute.RiskLevel != domainrisk.LevelHigh {
		t.Fatalf("RiskLevel = %q, want high under default cutoffs", result.Recompute.RiskLevel)
	}
	if result.Recompute.AutoScheduled || result.Recompute.Warning != "" {
		t.Fatalf("unconfigured project must be a silent no-op: %+v", result.Recompute)
	}

	inspections, err := svc.ListInspections(ctx, "p1")
	if err != nil {
		t.Fatalf("ListInspections() error = %v", err)
	}
	if len(inspections) != 0 {
		t.Fatalf("inspections = %d, want 0", len(inspections))
	}
}

func TestRepeatedRecomputesDeduplicate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	configureThresholds(t, svc, "p1", true, "high")
	registerConsultant(t, svc, "p1")
	reportDefects(t, svc, "p1", "area-3", "critical", "critical", "critical", "critical")

	for i := 0; i < 3; i++ {
		result, err := svc.RecomputeRiskScore(ctx, RecomputeInput{ProjectID: "p1", AreaID: "area-3"})
		if err != nil {
			t.Fatalf("recompute %d error = %v", i, err)
		}
		if result.AutoScheduled {
			t.Fatalf("recompute %d scheduled a duplicate", i)
		}
		if !result.AlreadyScheduled {
			t.Fatalf("recompute %d should report already scheduled", i)
		}
	}

	inspections, err := svc.ListInspections(ctx, "p1")
	if err != nil {
		t.Fatalf("ListInspections() error = %v", err)
	}
	if len(inspections) != 1 {
		t.Fatalf("inspections = %d, want 1 after repeated recomputes", len(inspections))
	}

	notifications, err := svc.ListNotifications(ctx, "project-manager", 0)
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1 per crossing", len(notifications))
	}
}

func TestReTriggerAfterInspectionCompletes(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	configureThresholds(t, svc, "p1", true, "high")
	registerConsultant(t, svc, "p1")
	reportDefects(t, svc, "p1", "area-3", "critical", "critical", "critical", "critical")

	inspections, err := svc.ListInspections(ctx, "p1")
	if err != nil {
		t.Fatalf("ListInspections() error = %v", err)
	}
	if len(inspections) != 1 {
		t.Fatalf("inspections = %d, want 1", len(inspections))
	}

	if err := svc.CompleteInspection(ctx, inspections[0].InspectionID); err != nil {
		t.Fatalf("CompleteInspection() error = %v", err)
	}

	result, err := svc.RecomputeRiskScore(ctx, RecomputeInput{ProjectID: "p1", AreaID: "area-3"})
	if err != nil {
		t.Fatalf("RecomputeRiskScore() error = %v", err)
	}
	if !result.AutoScheduled {
		t.Fatalf("completed inspection should re-arm scheduling: %+v", result)
	}

	inspections, err = svc.ListInspections(ctx, "p1")
	if err != nil {
		t.Fatalf("ListInspections() error = %v", err)
	}
	if len(inspections) != 2 {
		t.Fatalf("inspections = %d, want 2 after re-trigger", len(inspections))
	}

	active := 0
	for _, inspection := range inspections {
		if !ports.InspectionStatusTerminal(inspection.Status) {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("active inspections = %d, want exactly 1", active)
	}
}

func TestMissingConsultantTypeIsWarningNotFailure(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	configureThresholds(t, svc, "p1", true, "high")

	result := reportDefects(t, svc, "p1", "area-3", "critical", "critical", "critical", "critical")

	if result.Recompute.Warning == "" {
		t.Fatalf("expected warning about missing consultant type, got %+v", result.Recompute)
	}
	if result.Recompute.AutoScheduled {
		t.Fatalf("must not schedule without a consultant type")
	}

	inspections, err := svc.ListInspections(ctx, "p1")
	if err != nil {
		t.Fatalf("ListInspections() error = %v", err)
	}
	if len(inspections) != 0 {
		t.Fatalf("inspections = %d, want 0", len(inspections))
	}

	// Registering a consultant type later lets the next write succeed.
	registerConsultant(t, svc, "p1")
	retry, err := svc.RecomputeRiskScore(ctx, RecomputeInput{ProjectID: "p1", AreaID: "area-3"})
	if err != nil {
		t.Fatalf("RecomputeRiskScore() error = %v", err)
	}
	if !retry.AutoScheduled {
		t.Fatalf("retry after registration should schedule: %+v", retry)
	}
}

func TestResolveDefectLowersScore(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	configureThresholds(t, svc, "p1", true, "critical")
	registerConsultant(t, svc, "p1")
	reportDefects(t, svc, "p1", "area-5", "major", "major")

	defects, err := svc.ListDefects(ctx, "p1", "area-5")
	if err != nil {
		t.Fatalf("ListDefects() error = %v", err)
	}
	if len(defects) != 2 {
		t.Fatalf("defects = %d, want 2", len(defects))
	}

	before, err := svc.GetRiskScore(ctx, "p1", "area-5")
	if err != nil {
		t.Fatalf("GetRiskScore() error = %v", err)
	}

	after, err := svc.ResolveDefect(ctx, defects[0].DefectID)
	if err != nil {
		t.Fatalf("ResolveDefect() error = %v", err)
	}
	if after.RiskScore >= before.RiskScore {
		t.Fatalf("score did not drop: before %.2f, after %.2f", before.RiskScore, after.RiskScore)
	}
	if after.DefectCount != 1 {
		t.Fatalf("DefectCount = %d, want 1", after.DefectCount)
	}
}

func TestThresholdValidationRejectedAtBoundary(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	err := svc.SetThresholds(ctx, SetThresholdsInput{
		ProjectID:         "p1",
		LowThreshold:      50,
		MediumThreshold:   25,
		HighThreshold:     75,
		CriticalThreshold: 90,
		AutoSchedule:      true,
		AutoScheduleAt:    "high",
	})
	if err == nil {
		t.Fatalf("non-ascending cutoffs accepted")
	}

	err = svc.SetThresholds(ctx, SetThresholdsInput{
		ProjectID:         "p1",
		LowThreshold:      25,
		MediumThreshold:   50,
		HighThreshold:     75,
		CriticalThreshold: 90,
		AutoSchedule:      true,
		AutoScheduleAt:    "severe",
	})
	if err == nil {
		t.Fatalf("unknown auto-schedule level accepted")
	}
}

func TestThresholdReplaceSemantics(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	configureThresholds(t, svc, "p1", false, "high")
	configureThresholds(t, svc, "p1", true, "medium")

	view, err := svc.GetThresholds(ctx, "p1")
	if err != nil {
		t.Fatalf("GetThresholds() error = %v", err)
	}
	if !view.Configured || !view.AutoSchedule || view.AutoScheduleAt != "medium" {
		t.Fatalf("replace did not take effect: %+v", view)
	}
}

func TestGetRiskSummary(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	configureThresholds(t, svc, "p1", false, "high")
	registerConsultant(t, svc, "p1")
	reportDefects(t, svc, "p1", "area-1", "minor")
	reportDefects(t, svc, "p1", "area-2", "major", "major", "major", "major", "major")
	reportDefects(t, svc, "p1", "area-3", "critical", "critical", "critical", "critical")

	summary, err := svc.GetRiskSummary(ctx, "p1")
	if err != nil {
		t.Fatalf("GetRiskSummary() error = %v", err)
	}
	if summary.AreaCount != 3 {
		t.Fatalf("AreaCount = %d, want 3", summary.AreaCount)
	}
	if summary.CountsByLevel[domainrisk.LevelLow] != 1 {
		t.Fatalf("low count = %d, want 1", summary.CountsByLevel[domainrisk.LevelLow])
	}
	if summary.CountsByLevel[domainrisk.LevelMedium] != 1 {
		t.Fatalf("medium count = %d, want 1", summary.CountsByLevel[domainrisk.LevelMedium])
	}
	if summary.CountsByLevel[domainrisk.LevelHigh] != 1 {
		t.Fatalf("high count = %d, want 1", summary.CountsByLevel[domainrisk.LevelHigh])
	}
	if summary.MaxScore != 85 {
		t.Fatalf("MaxScore = %.2f, want 85", summary.MaxScore)
	}
}
