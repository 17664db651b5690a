package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"sitepulse/internal/bootstrap/config"
	"sitepulse/internal/bootstrap/database"
	"sitepulse/internal/bootstrap/logging"
	cacheinfra "sitepulse/internal/infrastructure/cache"
	sqliterepo "sitepulse/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "sitepulse/internal/infrastructure/persistence/sqlite/uow"
	"sitepulse/internal/ports"
	riskuc "sitepulse/internal/usecase/risk"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(provideRiskConfig),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewRiskRepository,
			fx.As(new(ports.RiskRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewDefectRepository,
			fx.As(new(ports.DefectRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewInspectionRepository,
			fx.As(new(ports.InspectionRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewNotificationRepository,
			fx.As(new(ports.NotificationRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewConsultantRepository,
			fx.As(new(ports.ConsultantDirectory)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(riskuc.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideRiskConfig(cfg config.Config) config.RiskConfig {
	return cfg.Risk
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}
