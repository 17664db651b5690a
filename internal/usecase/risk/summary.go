package risk

import (
	"context"
	"errors"
	"strings"

	domainrisk "sitepulse/internal/domain/risk"
	"sitepulse/internal/errs"
	"sitepulse/internal/ports"
)

// RiskSummary aggregates a project's current scores for reporting.
type RiskSummary struct {
	ProjectID     string
	AreaCount     int
	CountsByLevel map[domainrisk.Level]int
	AverageScore  float64
	MaxScore      float64
	Areas         []ports.RiskScoreRecord
}

func (s *Service) GetRiskSummary(ctx context.Context, projectID string) (RiskSummary, error) {
	if ctx == nil {
		return RiskSummary{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return RiskSummary{}, errs.Wrap(err, "check context")
	}
	if s.risk == nil {
		return RiskSummary{}, errors.New("risk repository is required")
	}

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return RiskSummary{}, errors.New("project id is required")
	}

	scores, err := s.risk.ListScores(ctx, projectID)
	if err != nil {
		return RiskSummary{}, err
	}

	summary := RiskSummary{
		ProjectID: projectID,
		AreaCount: len(scores),
		CountsByLevel: map[domainrisk.Level]int{
			domainrisk.LevelLow:      0,
			domainrisk.LevelMedium:   0,
			domainrisk.LevelHigh:     0,
			domainrisk.LevelCritical: 0,
		},
		Areas: scores,
	}

	var total float64
	for _, score := range scores {
		summary.CountsByLevel[score.RiskLevel]++
		total += score.RiskScore
		if score.RiskScore > summary.MaxScore {
			summary.MaxScore = score.RiskScore
		}
	}
	if len(scores) > 0 {
		summary.AverageScore = total / float64(len(scores))
	}

	return summary, nil
}

func (s *Service) GetRiskScore(ctx context.Context, projectID string, areaID string) (ports.RiskScoreRecord, error) {
	if ctx == nil {
		return ports.RiskScoreRecord{}, errors.New("context is required")
	}
	if s.risk == nil {
		return ports.RiskScoreRecord{}, errors.New("risk repository is required")
	}
	return s.risk.GetScore(ctx, strings.TrimSpace(projectID), strings.TrimSpace(areaID))
}

// GetAreaRiskLevel answers "how risky is this area right now" from the
// cache when it can, falling back to the score store and re-priming the
// cache on a miss. Only the level is cached; full assessments always come
// from the store.
func (s *Service) GetAreaRiskLevel(ctx context.Context, projectID string, areaID string) (domainrisk.Level, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if s.risk == nil {
		return "", errors.New("risk repository is required")
	}

	projectID = strings.TrimSpace(projectID)
	areaID = strings.TrimSpace(areaID)
	if projectID == "" || areaID == "" {
		return "", errors.New("project id and area id are required")
	}

	key := cacheAreaLevelKey(projectID, areaID)
	if s.cache != nil {
		if value, found, err := s.cache.Get(ctx, key); err == nil && found {
			if level, err := domainrisk.ParseLevel(value); err == nil {
				return level, nil
			}
		}
	}

	score, err := s.risk.GetScore(ctx, projectID, areaID)
	if err != nil {
		return "", err
	}
	s.setCacheBestEffort(ctx, key, score.RiskLevel.String())
	return score.RiskLevel, nil
}

// DeleteAreaScore is the explicit area-deletion cascade: the only path that
// hard-deletes a score row.
func (s *Service) DeleteAreaScore(ctx context.Context, projectID string, areaID string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if s.risk == nil {
		return errors.New("risk repository is required")
	}
	if err := s.risk.DeleteAreaScore(ctx, strings.TrimSpace(projectID), strings.TrimSpace(areaID)); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, cacheAreaLevelKey(strings.TrimSpace(projectID), strings.TrimSpace(areaID)))
	}
	return nil
}
