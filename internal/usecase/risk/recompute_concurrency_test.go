package risk

import (
	"context"
	"sync"
	"testing"

	"sitepulse/internal/ports"
)

// Ten writers pushing the same area over the bar at once must end with one
// active auto-scheduled inspection and one notification, whatever the
// interleaving.
func TestConcurrentRecomputesScheduleExactlyOnce(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	configureThresholds(t, svc, "p1", true, "high")

	// Fill the ledger past the bar while no consultant type exists, so the
	// per-report recomputes warn instead of scheduling and the area is
	// still Idle when the race starts.
	reportDefects(t, svc, "p1", "area-3", "critical", "critical", "critical", "critical")
	registerConsultant(t, svc, "p1")

	const writers = 10
	var wg sync.WaitGroup
	results := make([]RecomputeResult, writers)
	failures := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			result, err := svc.RecomputeRiskScore(ctx, RecomputeInput{ProjectID: "p1", AreaID: "area-3"})
			if err != nil {
				failures[idx] = err
				return
			}
			results[idx] = result
		}(i)
	}
	wg.Wait()

	for idx, err := range failures {
		if err != nil {
			t.Fatalf("recompute %d error = %v", idx, err)
		}
	}

	winners := 0
	for _, result := range results {
		if result.AutoScheduled {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("schedule winners = %d, want exactly 1", winners)
	}

	inspections, err := svc.ListInspections(ctx, "p1")
	if err != nil {
		t.Fatalf("ListInspections() error = %v", err)
	}

	autoScheduled := 0
	active := 0
	for _, inspection := range inspections {
		if inspection.TriggerSource == ports.TriggerSourceAutoRisk {
			autoScheduled++
			if !ports.InspectionStatusTerminal(inspection.Status) {
				active++
			}
		}
	}
	if autoScheduled != 1 || active != 1 {
		t.Fatalf("auto-scheduled = %d (active %d), want exactly 1", autoScheduled, active)
	}

	notifications, err := svc.ListNotifications(ctx, "project-manager", 0)
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want exactly 1", len(notifications))
	}
}
