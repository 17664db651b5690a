package risk

import (
	"context"
	"errors"
	"testing"

	domainrisk "sitepulse/internal/domain/risk"
	"sitepulse/internal/ports"
)

func TestAreaRiskLevelReadThrough(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, err := svc.GetAreaRiskLevel(ctx, "p1", "area-3"); !errors.Is(err, ports.ErrScoreNotFound) {
		t.Fatalf("GetAreaRiskLevel(unscored) error = %v, want ErrScoreNotFound", err)
	}

	// Recompute primes the cache with the stamped level.
	reportDefects(t, svc, "p1", "area-3", "critical", "critical", "critical", "critical")

	level, err := svc.GetAreaRiskLevel(ctx, "p1", "area-3")
	if err != nil {
		t.Fatalf("GetAreaRiskLevel() error = %v", err)
	}
	if level != domainrisk.LevelHigh {
		t.Fatalf("level = %q, want high", level)
	}

	// Drop the stored row behind the service's back: the cached level must
	// still answer, proving the lookup reads the cache first.
	if err := svc.risk.DeleteAreaScore(ctx, "p1", "area-3"); err != nil {
		t.Fatalf("DeleteAreaScore() error = %v", err)
	}
	level, err = svc.GetAreaRiskLevel(ctx, "p1", "area-3")
	if err != nil {
		t.Fatalf("GetAreaRiskLevel(cached) error = %v", err)
	}
	if level != domainrisk.LevelHigh {
		t.Fatalf("cached level = %q, want high", level)
	}

	// With the cache cleared too there is nothing left to answer from.
	if err := svc.cache.Delete(ctx, cacheAreaLevelKey("p1", "area-3")); err != nil {
		t.Fatalf("cache Delete() error = %v", err)
	}
	if _, err := svc.GetAreaRiskLevel(ctx, "p1", "area-3"); !errors.Is(err, ports.ErrScoreNotFound) {
		t.Fatalf("GetAreaRiskLevel(gone) error = %v, want ErrScoreNotFound", err)
	}
}

func TestAreaRiskLevelRePrimesCacheOnMiss(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	reportDefects(t, svc, "p1", "area-9", "minor")

	if err := svc.cache.Delete(ctx, cacheAreaLevelKey("p1", "area-9")); err != nil {
		t.Fatalf("cache Delete() error = %v", err)
	}

	// Miss falls back to the store and re-primes the cache.
	level, err := svc.GetAreaRiskLevel(ctx, "p1", "area-9")
	if err != nil {
		t.Fatalf("GetAreaRiskLevel() error = %v", err)
	}
	if level != domainrisk.LevelLow {
		t.Fatalf("level = %q, want low", level)
	}

	value, found, err := svc.cache.Get(ctx, cacheAreaLevelKey("p1", "area-9"))
	if err != nil || !found {
		t.Fatalf("cache Get() = found=%v, err=%v, want re-primed entry", found, err)
	}
	if value != "low" {
		t.Fatalf("cached value = %q, want low", value)
	}
}
