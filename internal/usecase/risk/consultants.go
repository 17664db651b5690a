package risk

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"sitepulse/internal/errs"
	"sitepulse/internal/ports"
)

type RegisterConsultantTypeInput struct {
	ProjectID string
	Name      string
	IsDefault bool
}

func (s *Service) RegisterConsultantType(ctx context.Context, input RegisterConsultantTypeInput) (ports.ConsultantTypeRecord, error) {
	if ctx == nil {
		return ports.ConsultantTypeRecord{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.ConsultantTypeRecord{}, errs.Wrap(err, "check context")
	}
	if s.consultants == nil {
		return ports.ConsultantTypeRecord{}, errors.New("consultant directory is required")
	}

	projectID := strings.TrimSpace(input.ProjectID)
	name := strings.TrimSpace(input.Name)
	if projectID == "" || name == "" {
		return ports.ConsultantTypeRecord{}, errors.New("project id and name are required")
	}

	return s.consultants.RegisterConsultantType(ctx, ports.ConsultantTypeRecord{
		ConsultantTypeID: uuid.NewString(),
		ProjectID:        projectID,
		Name:             name,
		IsDefault:        input.IsDefault,
		CreatedAt:        nowString(s.nowUTC()),
	})
}

func (s *Service) ListConsultantTypes(ctx context.Context, projectID string) ([]ports.ConsultantTypeRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if s.consultants == nil {
		return nil, errors.New("consultant directory is required")
	}
	return s.consultants.ListConsultantTypes(ctx, strings.TrimSpace(projectID))
}
