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

var riskThresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Project risk threshold configuration",
}

var riskThresholdsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace a project's risk thresholds",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		projectID, _ := cmd.Flags().GetString("project")
		low, _ := cmd.Flags().GetFloat64("low")
		medium, _ := cmd.Flags().GetFloat64("medium")
		high, _ := cmd.Flags().GetFloat64("high")
		critical, _ := cmd.Flags().GetFloat64("critical")
		autoSchedule, _ := cmd.Flags().GetBool("auto-schedule")
		autoScheduleAt, _ := cmd.Flags().GetString("auto-schedule-at")

		if err := svc.SetThresholds(ctx, riskuc.SetThresholdsInput{
			ProjectID:         projectID,
			LowThreshold:      low,
			MediumThreshold:   medium,
			HighThreshold:     high,
			CriticalThreshold: critical,
			AutoSchedule:      autoSchedule,
			AutoScheduleAt:    autoScheduleAt,
		}); err != nil {
			logging.Error(ctx, "set thresholds failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "set thresholds")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "thresholds replaced for project %s\n", projectID); err != nil {
			return errs.Wrap(err, "write thresholds output")
		}
		return nil
	}),
}

var riskThresholdsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a project's effective risk thresholds",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		projectID, _ := cmd.Flags().GetString("project")

		view, err := svc.GetThresholds(ctx, projectID)
		if err != nil {
			logging.Error(ctx, "show thresholds failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "load thresholds")
		}

		source := "configured"
		if !view.Configured {
			source = "defaults"
		}
		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"project %s (%s) low=%.1f medium=%.1f high=%.1f critical=%.1f auto-schedule=%t at=%s\n",
			view.ProjectID,
			source,
			view.LowThreshold,
			view.MediumThreshold,
			view.HighThreshold,
			view.CriticalThreshold,
			view.AutoSchedule,
			view.AutoScheduleAt,
		); err != nil {
			return errs.Wrap(err, "write thresholds output")
		}
		return nil
	}),
}

func init() {
	riskCmd.AddCommand(riskThresholdsCmd)
	riskThresholdsCmd.AddCommand(riskThresholdsSetCmd)
	riskThresholdsCmd.AddCommand(riskThresholdsShowCmd)

	riskThresholdsSetCmd.Flags().String("project", "", "Project id")
	riskThresholdsSetCmd.Flags().Float64("low", 25, "Low band upper bound")
	riskThresholdsSetCmd.Flags().Float64("medium", 50, "Medium band upper bound")
	riskThresholdsSetCmd.Flags().Float64("high", 75, "High band upper bound")
	riskThresholdsSetCmd.Flags().Float64("critical", 90, "Critical band lower bound")
	riskThresholdsSetCmd.Flags().Bool("auto-schedule", false, "Enable inspection auto-scheduling")
	riskThresholdsSetCmd.Flags().String("auto-schedule-at", "high", "Minimum level that triggers scheduling: low|medium|high|critical")
	_ = riskThresholdsSetCmd.MarkFlagRequired("project")

	riskThresholdsShowCmd.Flags().String("project", "", "Project id")
	_ = riskThresholdsShowCmd.MarkFlagRequired("project")
}
