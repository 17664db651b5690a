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

type RecomputeInput struct {
	ProjectID string
	AreaID    string
}

// RecomputeResult reports the stored assessment plus what the decision
// engine did with it. Warning carries non-fatal conditions such as a
// missing consultant type.
type RecomputeResult struct {
	ProjectID     string
	AreaID        string
	RiskScore     float64
	RiskLevel     domainrisk.Level
	SeverityScore float64
	DefectCount   int
	ComputedAt    string

	AutoScheduled    bool
	AlreadyScheduled bool
	InspectionID     uint64
	InspectionRef    string
	NotificationID   uint64
	Warning          string
}

// RecomputeRiskScore is the single integration seam called after any defect
// change for an area: pull open defects, score, classify under the
// project's current thresholds, upsert, then run the auto-scheduling
// decision.
func (s *Service) RecomputeRiskScore(ctx context.Context, input RecomputeInput) (RecomputeResult, error) {
	if ctx == nil {
		return RecomputeResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return RecomputeResult{}, errs.Wrap(err, "check context")
	}
	if s.risk == nil || s.defects == nil {
		return RecomputeResult{}, errors.New("risk and defect repositories are required")
	}
	if s.uow == nil {
		return RecomputeResult{}, errors.New("unit of work is required")
	}

	projectID := strings.TrimSpace(input.ProjectID)
	areaID := strings.TrimSpace(input.AreaID)
	if projectID == "" || areaID == "" {
		return RecomputeResult{}, errors.New("project id and area id are required")
	}

	defects, err := s.defects.ListOpenDefects(ctx, projectID, areaID)
	if err != nil {
		return RecomputeResult{}, errs.Wrap(err, "list open defects")
	}

	severities := make([]domainrisk.Severity, 0, len(defects))
	for _, defect := range defects {
		severities = append(severities, defect.Severity)
	}
	assessment := domainrisk.Score(severities, s.weights)

	// The stamped level always reflects thresholds current at write time.
	// Unconfigured projects classify under the defaults and never schedule.
	thresholds := domainrisk.DefaultThresholds()
	configured := false
	if record, err := s.risk.GetThresholds(ctx, projectID); err == nil {
		thresholds = record.Thresholds
		configured = true
	} else if !errors.Is(err, ports.ErrThresholdsNotFound) {
		return RecomputeResult{}, errs.Wrap(err, "load risk thresholds")
	}

	level := thresholds.Classify(assessment.RiskScore)
	computedAt := nowString(s.nowUTC())

	stored, err := s.risk.UpsertScore(ctx, ports.RiskScoreUpsert{
		ProjectID:     projectID,
		AreaID:        areaID,
		RiskScore:     assessment.RiskScore,
		RiskLevel:     level,
		SeverityScore: assessment.SeverityScore,
		DefectCount:   assessment.DefectCount,
		ComputedAt:    computedAt,
	})
	if err != nil {
		return RecomputeResult{}, errs.Wrap(err, "upsert risk score")
	}

	result := RecomputeResult{
		ProjectID:     projectID,
		AreaID:        areaID,
		RiskScore:     stored.RiskScore,
		RiskLevel:     stored.RiskLevel,
		SeverityScore: stored.SeverityScore,
		DefectCount:   stored.DefectCount,
		ComputedAt:    stored.ComputedAt,
	}

	if configured {
		decision, err := s.decideAutoSchedule(ctx, stored, thresholds)
		if err != nil {
			return RecomputeResult{}, err
		}
		result.AutoScheduled = decision.Scheduled
		result.AlreadyScheduled = decision.AlreadyScheduled
		result.InspectionID = decision.InspectionID
		result.InspectionRef = decision.InspectionRef
		result.NotificationID = decision.NotificationID
		result.Warning = decision.Warning
	}

	s.setCacheBestEffort(ctx, cacheAreaLevelKey(projectID, areaID), level.String())

	logging.Info(ctx, "risk score recomputed",
		slog.String("project_id", projectID),
		slog.String("area_id", areaID),
		slog.Float64("risk_score", stored.RiskScore),
		slog.String("risk_level", stored.RiskLevel.String()),
		slog.Int("defect_count", stored.DefectCount),
		slog.Bool("auto_scheduled", result.AutoScheduled),
	)

	return result, nil
}
