package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"sitepulse/internal/bootstrap/logging"
	"sitepulse/internal/domain/risk"
	"sitepulse/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Risk     RiskConfig     `mapstructure:"risk"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// RiskConfig tunes the scoring heuristic and the scheduling boundary.
// Weights are configuration, not contract; see risk.Weights.
type RiskConfig struct {
	CriticalWeight   float64 `mapstructure:"critical_weight"`
	MajorWeight      float64 `mapstructure:"major_weight"`
	MinorWeight      float64 `mapstructure:"minor_weight"`
	CountFactor      float64 `mapstructure:"count_factor"`
	ScheduleLeadDays int     `mapstructure:"schedule_lead_days"`
	DefaultRecipient string  `mapstructure:"default_recipient"`
}

func (c RiskConfig) Weights() risk.Weights {
	return risk.Weights{
		Critical:    c.CriticalWeight,
		Major:       c.MajorWeight,
		Minor:       c.MinorWeight,
		CountFactor: c.CountFactor,
	}
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Defaults and env overrides are enough to run.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if cfg.Database.DSN == "" {
		return Config{}, errors.New("database.dsn is required")
	}
	if err := cfg.Risk.Weights().Validate(); err != nil {
		return Config{}, errs.Wrap(err, "validate risk weights")
	}
	if cfg.Risk.ScheduleLeadDays < 0 {
		return Config{}, errors.New("risk.schedule_lead_days must not be negative")
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
	)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sitepulse")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "state/sitepulse.sqlite")

	defaults := risk.DefaultWeights()
	v.SetDefault("risk.critical_weight", defaults.Critical)
	v.SetDefault("risk.major_weight", defaults.Major)
	v.SetDefault("risk.minor_weight", defaults.Minor)
	v.SetDefault("risk.count_factor", defaults.CountFactor)
	v.SetDefault("risk.schedule_lead_days", 1)
	v.SetDefault("risk.default_recipient", "project-manager")
}
