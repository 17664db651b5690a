package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"sitepulse/internal/bootstrap/config"
	"sitepulse/internal/bootstrap/logging"
	"sitepulse/internal/errs"
	"sitepulse/internal/infrastructure/persistence/sqlite/model"
)

// App bundles the loaded config and the database handle. It is built by the
// fx module; the module's OnStop hook owns connection shutdown.
type App struct {
	Config config.Config
	DB     *gorm.DB
}

func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration")

	if err := a.DB.WithContext(ctx).AutoMigrate(
		&model.RiskThreshold{},
		&model.RiskScore{},
		&model.Defect{},
		&model.Inspection{},
		&model.Notification{},
		&model.ConsultantType{},
		&model.RiskKV{},
	); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}

	logging.Info(logCtx, "schema migration completed")
	return nil
}
