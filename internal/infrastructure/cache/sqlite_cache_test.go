package cache

import (
	"context"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"sitepulse/internal/infrastructure/persistence/sqlite/model"
)

func setupCache(t *testing.T) *SQLiteCache {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "cache.sqlite")
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
	if err := db.AutoMigrate(&model.RiskKV{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewSQLiteCache(db)
}

func TestCacheSetGetOverwriteDelete(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	if _, found, err := c.Get(ctx, "risk:level:p1:area-3"); err != nil || found {
		t.Fatalf("Get(miss) = found=%v, err=%v", found, err)
	}

	if err := c.Set(ctx, "risk:level:p1:area-3", "high", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Set(ctx, "risk:level:p1:area-3", "critical", 0); err != nil {
		t.Fatalf("overwrite Set() error = %v", err)
	}

	value, found, err := c.Get(ctx, "risk:level:p1:area-3")
	if err != nil || !found {
		t.Fatalf("Get() = found=%v, err=%v", found, err)
	}
	if value != "critical" {
		t.Fatalf("value = %q, want critical", value)
	}

	if err := c.Delete(ctx, "risk:level:p1:area-3"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found, _ := c.Get(ctx, "risk:level:p1:area-3"); found {
		t.Fatalf("value survived delete")
	}
}

func TestCacheRejectsEmptyKey(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "  ", "x", 0); err == nil {
		t.Fatalf("Set with blank key accepted")
	}
	if _, _, err := c.Get(ctx, ""); err == nil {
		t.Fatalf("Get with empty key accepted")
	}
}
