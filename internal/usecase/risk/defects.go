package risk

import (
	"context"
	"errors"
	"strings"

	domainrisk "sitepulse/internal/domain/risk"
	"sitepulse/internal/errs"
	"sitepulse/internal/ports"
)

type ReportDefectInput struct {
	ProjectID   string
	AreaID      string
	Severity    string
	Category    string
	Description string
}

type ReportDefectResult struct {
	Defect    ports.DefectRecord
	Recompute RecomputeResult
}

// ReportDefect files a defect and immediately recomputes the area's risk,
// which is what drives the auto-scheduling engine in production.
func (s *Service) ReportDefect(ctx context.Context, input ReportDefectInput) (ReportDefectResult, error) {
	if ctx == nil {
		return ReportDefectResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ReportDefectResult{}, errs.Wrap(err, "check context")
	}
	if s.defects == nil {
		return ReportDefectResult{}, errors.New("defect repository is required")
	}

	projectID := strings.TrimSpace(input.ProjectID)
	areaID := strings.TrimSpace(input.AreaID)
	if projectID == "" || areaID == "" {
		return ReportDefectResult{}, errors.New("project id and area id are required")
	}

	severity, err := domainrisk.ParseSeverity(input.Severity)
	if err != nil {
		return ReportDefectResult{}, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "general"
	}

	defect, err := s.defects.CreateDefect(ctx, ports.DefectCreate{
		ProjectID:   projectID,
		AreaID:      areaID,
		Severity:    severity,
		Category:    category,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   nowString(s.nowUTC()),
	})
	if err != nil {
		return ReportDefectResult{}, errs.Wrap(err, "create defect")
	}

	recompute, err := s.RecomputeRiskScore(ctx, RecomputeInput{ProjectID: projectID, AreaID: areaID})
	if err != nil {
		return ReportDefectResult{}, errs.Wrap(err, "recompute after defect report")
	}

	return ReportDefectResult{Defect: defect, Recompute: recompute}, nil
}

// ResolveDefect closes out a defect and recomputes the area so the score
// reflects the shrunken open set.
func (s *Service) ResolveDefect(ctx context.Context, defectID uint64) (RecomputeResult, error) {
	if ctx == nil {
		return RecomputeResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return RecomputeResult{}, errs.Wrap(err, "check context")
	}
	if s.defects == nil {
		return RecomputeResult{}, errors.New("defect repository is required")
	}

	defect, err := s.defects.GetDefect(ctx, defectID)
	if err != nil {
		return RecomputeResult{}, err
	}

	if err := s.defects.SetDefectStatus(ctx, defectID, ports.DefectStatusResolved, nowString(s.nowUTC())); err != nil {
		return RecomputeResult{}, err
	}

	return s.RecomputeRiskScore(ctx, RecomputeInput{ProjectID: defect.ProjectID, AreaID: defect.AreaID})
}

func (s *Service) ListDefects(ctx context.Context, projectID string, areaID string) ([]ports.DefectRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if s.defects == nil {
		return nil, errors.New("defect repository is required")
	}
	return s.defects.ListDefects(ctx, strings.TrimSpace(projectID), strings.TrimSpace(areaID))
}
