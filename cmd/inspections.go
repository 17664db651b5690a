package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"sitepulse/internal/bootstrap"
	"sitepulse/internal/bootstrap/logging"
	"sitepulse/internal/errs"
	riskuc "sitepulse/internal/usecase/risk"
)

var inspectionCmd = &cobra.Command{
	Use:   "inspection",
	Short: "Inspection lifecycle commands",
}

var inspectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's inspections",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		projectID, _ := cmd.Flags().GetString("project")

		items, err := svc.ListInspections(ctx, projectID)
		if err != nil {
			logging.Error(ctx, "list inspections failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list inspections")
		}

		if len(items) == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no inspections"); err != nil {
				return errs.Wrap(err, "write inspection list output")
			}
			return nil
		}

		for _, item := range items {
			area := "-"
			if item.AreaID != nil {
				area = *item.AreaID
			}
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"i%d ref=%s area=%s status=%s trigger=%s date=%s\n",
				item.InspectionID,
				item.Ref,
				area,
				item.Status,
				item.TriggerSource,
				item.ScheduledDate,
			); err != nil {
				return errs.Wrap(err, "write inspection list item")
			}
		}
		return nil
	}),
}

var inspectionCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Complete an inspection, releasing its auto-schedule slot",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		inspectionID, _ := cmd.Flags().GetUint64("id")

		if err := svc.CompleteInspection(ctx, inspectionID); err != nil {
			logging.Error(ctx, "complete inspection failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "complete inspection")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "inspection %d completed\n", inspectionID); err != nil {
			return errs.Wrap(err, "write inspection output")
		}
		return nil
	}),
}

var inspectionCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel an inspection, releasing its auto-schedule slot",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		inspectionID, _ := cmd.Flags().GetUint64("id")

		if err := svc.CancelInspection(ctx, inspectionID); err != nil {
			logging.Error(ctx, "cancel inspection failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "cancel inspection")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "inspection %d cancelled\n", inspectionID); err != nil {
			return errs.Wrap(err, "write inspection output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(inspectionCmd)
	inspectionCmd.AddCommand(inspectionListCmd)
	inspectionCmd.AddCommand(inspectionCompleteCmd)
	inspectionCmd.AddCommand(inspectionCancelCmd)

	inspectionListCmd.Flags().String("project", "", "Project id")
	_ = inspectionListCmd.MarkFlagRequired("project")

	inspectionCompleteCmd.Flags().Uint64("id", 0, "Inspection id")
	_ = inspectionCompleteCmd.MarkFlagRequired("id")

	inspectionCancelCmd.Flags().Uint64("id", 0, "Inspection id")
	_ = inspectionCancelCmd.MarkFlagRequired("id")
}
