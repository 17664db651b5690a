package risk

import (
	"fmt"
	"strings"
)

// Severity grades a single reported defect.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeverityMajor, SeverityCritical:
		return true
	}
	return false
}

func (s Severity) String() string {
	return string(s)
}

func ParseSeverity(raw string) (Severity, error) {
	severity := Severity(strings.ToLower(strings.TrimSpace(raw)))
	if !severity.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeverity, raw)
	}
	return severity, nil
}
