package ports

import (
	"context"
	"errors"
)

var ErrInspectionNotFound = errors.New("inspection not found")

// Inspection statuses. Terminal statuses release the area's auto-schedule
// slot so a later risk crossing can schedule again.
const (
	InspectionStatusPending    = "pending"
	InspectionStatusScheduled  = "scheduled"
	InspectionStatusInProgress = "in_progress"
	InspectionStatusCompleted  = "completed"
	InspectionStatusCancelled  = "cancelled"
)

func InspectionStatusTerminal(status string) bool {
	return status == InspectionStatusCompleted || status == InspectionStatusCancelled
}

// Trigger sources. The decision engine is the only writer of
// TriggerSourceAutoRisk.
const (
	TriggerSourceManual   = "manual"
	TriggerSourceAutoRisk = "auto_risk"
)

type InspectionRecord struct {
	InspectionID     uint64
	Ref              string
	ProjectID        string
	AreaID           *string
	ConsultantTypeID string
	ScheduledDate    string
	Status           string
	Notes            string
	TriggerSource    string
	TriggerAreaID    *string
	CreatedAt        string
	UpdatedAt        string
}

type AutoInspectionCreate struct {
	Ref              string
	ProjectID        string
	AreaID           string
	ConsultantTypeID string
	ScheduledDate    string
	Notes            string
	CreatedAt        string
}

type InspectionRepository interface {
	// CreateAutoScheduled inserts an auto-scheduled inspection unless the
	// area already holds an active one. The bool reports whether the insert
	// actually happened; a conflict on the active slot resolves to
	// (zero record, false, nil) rather than an error.
	CreateAutoScheduled(ctx context.Context, input AutoInspectionCreate) (InspectionRecord, bool, error)

	ListActiveAutoScheduled(ctx context.Context, projectID string, areaID string) ([]InspectionRecord, error)
	GetInspection(ctx context.Context, inspectionID uint64) (InspectionRecord, error)
	ListInspections(ctx context.Context, projectID string) ([]InspectionRecord, error)

	// SetInspectionStatus updates the status and, on a terminal status,
	// clears the active auto-schedule slot in the same statement scope.
	SetInspectionStatus(ctx context.Context, inspectionID uint64, status string, updatedAt string) error
}
