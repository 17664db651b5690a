package risk

import (
	"fmt"
	"strings"
)

// Level is a classified risk band for a construction area.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

var levelRanks = map[Level]int{
	LevelLow:      0,
	LevelMedium:   1,
	LevelHigh:     2,
	LevelCritical: 3,
}

// Rank returns the position of the level in the low < medium < high < critical
// total order. Unknown levels rank below low.
func (l Level) Rank() int {
	rank, ok := levelRanks[l]
	if !ok {
		return -1
	}
	return rank
}

func (l Level) Valid() bool {
	_, ok := levelRanks[l]
	return ok
}

// Meets reports whether the level is at or above the given bar.
func (l Level) Meets(bar Level) bool {
	return l.Valid() && bar.Valid() && l.Rank() >= bar.Rank()
}

func (l Level) String() string {
	return string(l)
}

func ParseLevel(raw string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(raw)))
	if !level.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, raw)
	}
	return level, nil
}
