package risk

import "fmt"

// Thresholds is a project's risk configuration: four ascending cutoffs on
// the 0-100 scale plus the auto-scheduling switch and bar.
type Thresholds struct {
	Low      float64
	Medium   float64
	High     float64
	Critical float64

	AutoSchedule   bool
	AutoScheduleAt Level
}

// DefaultThresholds classify scores for projects that never configured
// thresholds. Auto-scheduling stays off until a project opts in explicitly.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Low:            25,
		Medium:         50,
		High:           75,
		Critical:       90,
		AutoSchedule:   false,
		AutoScheduleAt: LevelHigh,
	}
}

func (t Thresholds) Validate() error {
	cutoffs := []float64{t.Low, t.Medium, t.High, t.Critical}
	for _, c := range cutoffs {
		if c < 0 || c > 100 {
			return fmt.Errorf("%w: cutoff %.2f outside [0, 100]", ErrInvalidThresholds, c)
		}
	}
	if !(t.Low < t.Medium && t.Medium < t.High && t.High < t.Critical) {
		return fmt.Errorf("%w: cutoffs must be strictly ascending", ErrInvalidThresholds)
	}
	if !t.AutoScheduleAt.Valid() {
		return fmt.Errorf("%w: auto-schedule level %q", ErrInvalidThresholds, t.AutoScheduleAt)
	}
	return nil
}

// Classify returns the highest level whose cutoff is at or below the score.
// Scores below the low cutoff still classify as low: there is no band
// beneath it.
func (t Thresholds) Classify(score float64) Level {
	switch {
	case score >= t.Critical:
		return LevelCritical
	case score >= t.High:
		return LevelHigh
	case score >= t.Medium:
		return LevelMedium
	default:
		return LevelLow
	}
}
