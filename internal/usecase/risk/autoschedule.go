package risk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"sitepulse/internal/bootstrap/logging"
	domainrisk "sitepulse/internal/domain/risk"
	"sitepulse/internal/errs"
	"sitepulse/internal/ports"
)

// autoScheduleMarker tags the notes of engine-created inspections so UIs
// and audits can spot them without joining on trigger_source.
const autoScheduleMarker = "[auto-scheduled]"

type autoScheduleDecision struct {
	Scheduled        bool
	AlreadyScheduled bool
	InspectionID     uint64
	InspectionRef    string
	NotificationID   uint64
	Warning          string
}

// decideAutoSchedule runs the transition rule for a freshly upserted score:
// no-op when the project is not opted in or the level sits below the bar,
// otherwise create exactly one inspection and one notification unless the
// area already holds an active auto-scheduled inspection.
//
// Thresholds are re-read inside the transaction; the check and the two
// inserts commit or roll back as one unit. The unique active-slot index
// resolves the race between concurrent recomputes for the same area: the
// losing insert affects zero rows and is treated as "already scheduled".
func (s *Service) decideAutoSchedule(ctx context.Context, score ports.RiskScoreRecord, thresholds domainrisk.Thresholds) (autoScheduleDecision, error) {
	if s.inspections == nil || s.notifications == nil || s.consultants == nil {
		return autoScheduleDecision{}, errors.New("inspection, notification and consultant ports are required")
	}

	// Cheap pre-check with the thresholds the caller already loaded; the
	// authoritative check repeats inside the transaction.
	if !thresholds.AutoSchedule || !score.RiskLevel.Meets(thresholds.AutoScheduleAt) {
		return autoScheduleDecision{}, nil
	}

	// Resolution failure is a reported warning, not an error: the area
	// stays Idle and the next qualifying write retries from scratch.
	consultant, err := s.consultants.ResolveDefaultConsultantType(ctx, score.ProjectID)
	if err != nil {
		if errors.Is(err, ports.ErrNoConsultantType) {
			logging.Warn(ctx, "auto-schedule skipped, no consultant type",
				slog.String("project_id", score.ProjectID),
				slog.String("area_id", score.AreaID),
			)
			return autoScheduleDecision{Warning: err.Error()}, nil
		}
		return autoScheduleDecision{}, errs.Wrap(err, "resolve consultant type")
	}

	now := s.nowUTC()
	scheduledDate := now.AddDate(0, 0, s.leadDays).Format("2006-01-02")
	ref := uuid.NewString()

	var decision autoScheduleDecision
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		record, err := s.risk.GetThresholds(txCtx, score.ProjectID)
		if err != nil {
			if errors.Is(err, ports.ErrThresholdsNotFound) {
				return nil
			}
			return errs.Wrap(err, "load thresholds in decision")
		}

		current := record.Thresholds
		if !current.AutoSchedule || !score.RiskLevel.Meets(current.AutoScheduleAt) {
			return nil
		}

		inspection, created, err := s.inspections.CreateAutoScheduled(txCtx, ports.AutoInspectionCreate{
			Ref:              ref,
			ProjectID:        score.ProjectID,
			AreaID:           score.AreaID,
			ConsultantTypeID: consultant.ConsultantTypeID,
			ScheduledDate:    scheduledDate,
			Notes:            autoInspectionNotes(score),
			CreatedAt:        nowString(now),
		})
		if err != nil {
			return err
		}
		if !created {
			decision.AlreadyScheduled = true
			return nil
		}

		notification, err := s.notifications.CreateNotification(txCtx, ports.NotificationCreate{
			RecipientID:     s.recipient,
			Category:        ports.NotificationCategoryInspection,
			Title:           autoScheduleTitle(score.RiskLevel),
			Message:         autoScheduleMessage(score, inspection),
			RelatedEntityID: inspection.Ref,
			CreatedAt:       nowString(now),
		})
		if err != nil {
			// Rolls back the inspection too; the area stays Idle.
			return errs.Wrap(err, "create auto-schedule notification")
		}

		decision.Scheduled = true
		decision.InspectionID = inspection.InspectionID
		decision.InspectionRef = inspection.Ref
		decision.NotificationID = notification.NotificationID
		return nil
	})
	if err != nil {
		return autoScheduleDecision{}, errs.Wrap(err, "auto-schedule transaction")
	}

	if decision.Scheduled {
		logging.Info(ctx, "inspection auto-scheduled",
			slog.String("project_id", score.ProjectID),
			slog.String("area_id", score.AreaID),
			slog.String("inspection_ref", decision.InspectionRef),
			slog.String("risk_level", score.RiskLevel.String()),
		)
	}
	return decision, nil
}

func autoInspectionNotes(score ports.RiskScoreRecord) string {
	return fmt.Sprintf("%s risk follow-up for area %s (score %.1f, level %s)",
		autoScheduleMarker, score.AreaID, score.RiskScore, score.RiskLevel)
}

func autoScheduleTitle(level domainrisk.Level) string {
	caser := strings.ToUpper(level.String()[:1]) + level.String()[1:]
	return fmt.Sprintf("%s-Risk Inspection Auto-Scheduled", caser)
}

func autoScheduleMessage(score ports.RiskScoreRecord, inspection ports.InspectionRecord) string {
	return fmt.Sprintf(
		"Area %s reached risk score %.1f (%s). Inspection %s was auto-scheduled for %s.",
		score.AreaID, score.RiskScore, score.RiskLevel, inspection.Ref, inspection.ScheduledDate,
	)
}
