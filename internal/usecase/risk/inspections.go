package risk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sitepulse/internal/bootstrap/logging"
	"sitepulse/internal/errs"
	"sitepulse/internal/ports"
)

// CompleteInspection moves an inspection to completed. For auto-scheduled
// inspections this releases the area's slot, so the next qualifying
// recompute schedules a fresh one.
func (s *Service) CompleteInspection(ctx context.Context, inspectionID uint64) error {
	return s.finishInspection(ctx, inspectionID, ports.InspectionStatusCompleted)
}

// CancelInspection is the other terminal transition; same slot semantics as
// CompleteInspection.
func (s *Service) CancelInspection(ctx context.Context, inspectionID uint64) error {
	return s.finishInspection(ctx, inspectionID, ports.InspectionStatusCancelled)
}

func (s *Service) finishInspection(ctx context.Context, inspectionID uint64, status string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.inspections == nil {
		return errors.New("inspection repository is required")
	}

	inspection, err := s.inspections.GetInspection(ctx, inspectionID)
	if err != nil {
		return err
	}
	if ports.InspectionStatusTerminal(inspection.Status) {
		return fmt.Errorf("inspection %d already %s", inspectionID, inspection.Status)
	}

	if err := s.inspections.SetInspectionStatus(ctx, inspectionID, status, nowString(s.nowUTC())); err != nil {
		return err
	}

	logging.Info(ctx, "inspection finished",
		slog.Uint64("inspection_id", inspectionID),
		slog.String("status", status),
		slog.String("trigger_source", inspection.TriggerSource),
	)
	return nil
}

func (s *Service) GetInspection(ctx context.Context, inspectionID uint64) (ports.InspectionRecord, error) {
	if ctx == nil {
		return ports.InspectionRecord{}, errors.New("context is required")
	}
	if s.inspections == nil {
		return ports.InspectionRecord{}, errors.New("inspection repository is required")
	}
	return s.inspections.GetInspection(ctx, inspectionID)
}

func (s *Service) ListInspections(ctx context.Context, projectID string) ([]ports.InspectionRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if s.inspections == nil {
		return nil, errors.New("inspection repository is required")
	}
	return s.inspections.ListInspections(ctx, projectID)
}
