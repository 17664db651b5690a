package ports

import (
	"context"
	"errors"
)

// ErrNoConsultantType means no consultant type could be resolved for a
// project. Reported as a warning by the decision engine, never fatal.
var ErrNoConsultantType = errors.New("no consultant type available for project")

type ConsultantTypeRecord struct {
	ConsultantTypeID string
	ProjectID        string
	Name             string
	IsDefault        bool
	CreatedAt        string
}

type ConsultantDirectory interface {
	// ResolveDefaultConsultantType picks the project's default consultant
	// type, falling back to the earliest registered one. Returns
	// ErrNoConsultantType when the project has none.
	ResolveDefaultConsultantType(ctx context.Context, projectID string) (ConsultantTypeRecord, error)

	RegisterConsultantType(ctx context.Context, record ConsultantTypeRecord) (ConsultantTypeRecord, error)
	ListConsultantTypes(ctx context.Context, projectID string) ([]ConsultantTypeRecord, error)
}
