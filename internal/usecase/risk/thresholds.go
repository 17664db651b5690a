package risk

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"sitepulse/internal/bootstrap/logging"
	domainrisk "sitepulse/internal/domain/risk"
	"sitepulse/internal/errs"
	"sitepulse/internal/ports"
)

type SetThresholdsInput struct {
	ProjectID         string
	LowThreshold      float64
	MediumThreshold   float64
	HighThreshold     float64
	CriticalThreshold float64
	AutoSchedule      bool
	AutoScheduleAt    string
}

type ThresholdsView struct {
	ProjectID         string
	LowThreshold      float64
	MediumThreshold   float64
	HighThreshold     float64
	CriticalThreshold float64
	AutoSchedule      bool
	AutoScheduleAt    string
	Configured        bool
	UpdatedAt         string
}

// SetThresholds validates and create-or-replaces the project's threshold
// configuration. Invalid configs never reach storage, so recompute never
// has to defend against them.
func (s *Service) SetThresholds(ctx context.Context, input SetThresholdsInput) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.risk == nil {
		return errors.New("risk repository is required")
	}

	projectID := strings.TrimSpace(input.ProjectID)
	if projectID == "" {
		return errors.New("project id is required")
	}

	bar, err := domainrisk.ParseLevel(input.AutoScheduleAt)
	if err != nil {
		return err
	}

	thresholds := domainrisk.Thresholds{
		Low:            input.LowThreshold,
		Medium:         input.MediumThreshold,
		High:           input.HighThreshold,
		Critical:       input.CriticalThreshold,
		AutoSchedule:   input.AutoSchedule,
		AutoScheduleAt: bar,
	}
	if err := thresholds.Validate(); err != nil {
		return err
	}

	if err := s.risk.ReplaceThresholds(ctx, ports.RiskThresholdRecord{
		ProjectID:  projectID,
		Thresholds: thresholds,
		UpdatedAt:  nowString(s.nowUTC()),
	}); err != nil {
		return err
	}

	logging.Info(ctx, "risk thresholds replaced",
		slog.String("project_id", projectID),
		slog.Bool("auto_schedule", thresholds.AutoSchedule),
		slog.String("auto_schedule_at", bar.String()),
	)
	return nil
}

// GetThresholds returns the stored config, or the defaults flagged as
// unconfigured when the project never set one. Absent config is not an
// error.
func (s *Service) GetThresholds(ctx context.Context, projectID string) (ThresholdsView, error) {
	if ctx == nil {
		return ThresholdsView{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ThresholdsView{}, errs.Wrap(err, "check context")
	}
	if s.risk == nil {
		return ThresholdsView{}, errors.New("risk repository is required")
	}

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return ThresholdsView{}, errors.New("project id is required")
	}

	record, err := s.risk.GetThresholds(ctx, projectID)
	if err != nil {
		if errors.Is(err, ports.ErrThresholdsNotFound) {
			defaults := domainrisk.DefaultThresholds()
			return ThresholdsView{
				ProjectID:         projectID,
				LowThreshold:      defaults.Low,
				MediumThreshold:   defaults.Medium,
				HighThreshold:     defaults.High,
				CriticalThreshold: defaults.Critical,
				AutoSchedule:      false,
				AutoScheduleAt:    defaults.AutoScheduleAt.String(),
				Configured:        false,
			}, nil
		}
		return ThresholdsView{}, err
	}

	return ThresholdsView{
		ProjectID:         record.ProjectID,
		LowThreshold:      record.Thresholds.Low,
		MediumThreshold:   record.Thresholds.Medium,
		HighThreshold:     record.Thresholds.High,
		CriticalThreshold: record.Thresholds.Critical,
		AutoSchedule:      record.Thresholds.AutoSchedule,
		AutoScheduleAt:    record.Thresholds.AutoScheduleAt.String(),
		Configured:        true,
		UpdatedAt:         record.UpdatedAt,
	}, nil
}
