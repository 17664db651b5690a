package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"sitepulse/internal/bootstrap"
	"sitepulse/internal/bootstrap/logging"
	domainrisk "sitepulse/internal/domain/risk"
	"sitepulse/internal/errs"
	riskuc "sitepulse/internal/usecase/risk"
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Risk scoring and threshold commands",
}

var riskRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute an area's risk score from its open defects",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		projectID, _ := cmd.Flags().GetString("project")
		areaID, _ := cmd.Flags().GetString("area")

		out, err := svc.RecomputeRiskScore(ctx, riskuc.RecomputeInput{ProjectID: projectID, AreaID: areaID})
		if err != nil {
			logging.Error(ctx, "recompute risk score failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "recompute risk score")
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"area %s score=%.2f level=%s defects=%d\n",
			out.AreaID,
			out.RiskScore,
			out.RiskLevel,
			out.DefectCount,
		); err != nil {
			return errs.Wrap(err, "write recompute output")
		}
		return printScheduleOutcome(cmd, out)
	}),
}

var riskSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a project's risk summary across all scored areas",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		projectID, _ := cmd.Flags().GetString("project")

		summary, err := svc.GetRiskSummary(ctx, projectID)
		if err != nil {
			logging.Error(ctx, "risk summary failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "load risk summary")
		}

		if summary.AreaCount == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no scored areas"); err != nil {
				return errs.Wrap(err, "write summary output")
			}
			return nil
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"project %s areas=%d avg=%.2f max=%.2f low=%d medium=%d high=%d critical=%d\n",
			summary.ProjectID,
			summary.AreaCount,
			summary.AverageScore,
			summary.MaxScore,
			summary.CountsByLevel[domainrisk.LevelLow],
			summary.CountsByLevel[domainrisk.LevelMedium],
			summary.CountsByLevel[domainrisk.LevelHigh],
			summary.CountsByLevel[domainrisk.LevelCritical],
		); err != nil {
			return errs.Wrap(err, "write summary output")
		}

		for _, area := range summary.Areas {
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"  area %s score=%.2f level=%s defects=%d at=%s\n",
				area.AreaID,
				area.RiskScore,
				area.RiskLevel,
				area.DefectCount,
				area.ComputedAt,
			); err != nil {
				return errs.Wrap(err, "write summary area")
			}
		}
		return nil
	}),
}

func printScheduleOutcome(cmd *cobra.Command, out riskuc.RecomputeResult) error {
	var err error
	switch {
	case out.AutoScheduled:
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "auto-scheduled inspection %d ref=%s\n", out.InspectionID, out.InspectionRef)
	case out.AlreadyScheduled:
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "inspection already active for this area")
	case out.Warning != "":
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", out.Warning)
	}
	if err != nil {
		return errs.Wrap(err, "write schedule outcome")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(riskCmd)
	riskCmd.AddCommand(riskRecomputeCmd)
	riskCmd.AddCommand(riskSummaryCmd)

	riskRecomputeCmd.Flags().String("project", "", "Project id")
	riskRecomputeCmd.Flags().String("area", "", "Construction area id")
	_ = riskRecomputeCmd.MarkFlagRequired("project")
	_ = riskRecomputeCmd.MarkFlagRequired("area")

	riskSummaryCmd.Flags().String("project", "", "Project id")
	_ = riskSummaryCmd.MarkFlagRequired("project")
}
