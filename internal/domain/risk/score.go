// Package risk holds the pure scoring and classification rules for the
// auto-scheduling engine: defect severities in, a bounded numeric score and
// an ordered risk level out. Nothing in this package touches storage.
package risk

import "fmt"

// Weights maps defect severities to score contributions. CountFactor is
// added once per open defect regardless of severity, so a pile of minor
// defects still pushes the score up.
type Weights struct {
	Critical    float64
	Major       float64
	Minor       float64
	CountFactor float64
}

// DefaultWeights are the tuning shipped out of the box. They are
// configuration, not contract: any assignment satisfying Validate keeps the
// monotonicity guarantee.
func DefaultWeights() Weights {
	return Weights{
		Critical:    20,
		Major:       10,
		Minor:       4,
		CountFactor: 1.25,
	}
}

func (w Weights) Validate() error {
	if w.Minor <= 0 || w.Major <= 0 || w.Critical <= 0 {
		return fmt.Errorf("%w: weights must be positive", ErrInvalidWeights)
	}
	if !(w.Critical > w.Major && w.Major > w.Minor) {
		return fmt.Errorf("%w: require critical > major > minor", ErrInvalidWeights)
	}
	if w.CountFactor < 0 {
		return fmt.Errorf("%w: count factor must not be negative", ErrInvalidWeights)
	}
	return nil
}

func (w Weights) weightOf(severity Severity) float64 {
	switch severity {
	case SeverityCritical:
		return w.Critical
	case SeverityMajor:
		return w.Major
	default:
		return w.Minor
	}
}

// Assessment is the calculator output for one area.
type Assessment struct {
	RiskScore     float64
	SeverityScore float64
	DefectCount   int
}

// Score computes the risk assessment for the open defects of one area.
// Adding a defect never lowers the score; the result is clamped to [0, 100].
func Score(severities []Severity, w Weights) Assessment {
	var severityScore float64
	for _, severity := range severities {
		severityScore += w.weightOf(severity)
	}

	raw := severityScore + float64(len(severities))*w.CountFactor
	return Assessment{
		RiskScore:     clamp(raw, 0, 100),
		SeverityScore: severityScore,
		DefectCount:   len(severities),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
