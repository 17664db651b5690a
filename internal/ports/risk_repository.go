package ports

import (
	"context"
	"errors"

	"sitepulse/internal/domain/risk"
)

var (
	ErrThresholdsNotFound = errors.New("risk thresholds not found")
	ErrScoreNotFound      = errors.New("risk score not found")
	ErrDefectNotFound     = errors.New("defect not found")
)

// RiskThresholdRecord is a project's persisted threshold configuration.
// One row per project, create-or-replace semantics.
type RiskThresholdRecord struct {
	ProjectID  string
	Thresholds risk.Thresholds
	UpdatedAt  string
}

// RiskScoreRecord is the current risk assessment of one area. One logical
// row per (project, area).
type RiskScoreRecord struct {
	ScoreID       uint64
	ProjectID     string
	AreaID        string
	RiskScore     float64
	RiskLevel     risk.Level
	SeverityScore float64
	DefectCount   int
	ComputedAt    string
}

type RiskScoreUpsert struct {
	ProjectID     string
	AreaID        string
	RiskScore     float64
	RiskLevel     risk.Level
	SeverityScore float64
	DefectCount   int
	ComputedAt    string
}

type DefectRecord struct {
	DefectID    uint64
	ProjectID   string
	AreaID      string
	Severity    risk.Severity
	Category    string
	Status      string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

type DefectCreate struct {
	ProjectID   string
	AreaID      string
	Severity    risk.Severity
	Category    string
	Description string
	CreatedAt   string
}

// Defect statuses. Open defects are everything not resolved or closed;
// only open defects count toward risk.
const (
	DefectStatusOpen       = "open"
	DefectStatusInProgress = "in_progress"
	DefectStatusResolved   = "resolved"
	DefectStatusClosed     = "closed"
)

func DefectStatusCountsTowardRisk(status string) bool {
	return status != DefectStatusResolved && status != DefectStatusClosed
}

// DefectLedger is the read seam the risk calculator pulls from. The engine
// never mutates defects through this interface.
type DefectLedger interface {
	ListOpenDefects(ctx context.Context, projectID string, areaID string) ([]DefectRecord, error)
}

// DefectRepository extends the ledger with the write path used by the CLI,
// the HTTP boundary and tests.
type DefectRepository interface {
	DefectLedger
	CreateDefect(ctx context.Context, input DefectCreate) (DefectRecord, error)
	GetDefect(ctx context.Context, defectID uint64) (DefectRecord, error)
	SetDefectStatus(ctx context.Context, defectID uint64, status string, updatedAt string) error
	ListDefects(ctx context.Context, projectID string, areaID string) ([]DefectRecord, error)
}

type RiskRepository interface {
	GetThresholds(ctx context.Context, projectID string) (RiskThresholdRecord, error)
	ReplaceThresholds(ctx context.Context, record RiskThresholdRecord) error

	UpsertScore(ctx context.Context, input RiskScoreUpsert) (RiskScoreRecord, error)
	GetScore(ctx context.Context, projectID string, areaID string) (RiskScoreRecord, error)
	ListScores(ctx context.Context, projectID string) ([]RiskScoreRecord, error)
	DeleteAreaScore(ctx context.Context, projectID string, areaID string) error
}
