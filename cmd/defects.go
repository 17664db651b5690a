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

var defectCmd = &cobra.Command{
	Use:   "defect",
	Short: "Defect reporting and resolution commands",
}

var defectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Report a defect and recompute the area's risk",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		projectID, _ := cmd.Flags().GetString("project")
		areaID, _ := cmd.Flags().GetString("area")
		severity, _ := cmd.Flags().GetString("severity")
		category, _ := cmd.Flags().GetString("category")
		description, _ := cmd.Flags().GetString("description")

		out, err := svc.ReportDefect(ctx, riskuc.ReportDefectInput{
			ProjectID:   projectID,
			AreaID:      areaID,
			Severity:    severity,
			Category:    category,
			Description: description,
		})
		if err != nil {
			logging.Error(ctx, "report defect failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "report defect")
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"defect %d filed: area %s score=%.2f level=%s\n",
			out.Defect.DefectID,
			out.Recompute.AreaID,
			out.Recompute.RiskScore,
			out.Recompute.RiskLevel,
		); err != nil {
			return errs.Wrap(err, "write defect output")
		}
		return printScheduleOutcome(cmd, out.Recompute)
	}),
}

var defectResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a defect and recompute the area's risk",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		defectID, _ := cmd.Flags().GetUint64("id")

		out, err := svc.ResolveDefect(ctx, defectID)
		if err != nil {
			logging.Error(ctx, "resolve defect failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "resolve defect")
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"defect %d resolved: area %s score=%.2f level=%s\n",
			defectID,
			out.AreaID,
			out.RiskScore,
			out.RiskLevel,
		); err != nil {
			return errs.Wrap(err, "write defect output")
		}
		return nil
	}),
}

var defectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List defects for an area",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		projectID, _ := cmd.Flags().GetString("project")
		areaID, _ := cmd.Flags().GetString("area")

		items, err := svc.ListDefects(ctx, projectID, areaID)
		if err != nil {
			logging.Error(ctx, "list defects failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list defects")
		}

		if len(items) == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no defects"); err != nil {
				return errs.Wrap(err, "write defect list output")
			}
			return nil
		}

		for _, item := range items {
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"d%d area=%s severity=%s category=%s status=%s at=%s\n",
				item.DefectID,
				item.AreaID,
				item.Severity,
				item.Category,
				item.Status,
				item.CreatedAt,
			); err != nil {
				return errs.Wrap(err, "write defect list item")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(defectCmd)
	defectCmd.AddCommand(defectAddCmd)
	defectCmd.AddCommand(defectResolveCmd)
	defectCmd.AddCommand(defectListCmd)

	defectAddCmd.Flags().String("project", "", "Project id")
	defectAddCmd.Flags().String("area", "", "Construction area id")
	defectAddCmd.Flags().String("severity", "", "Defect severity: critical|major|minor")
	defectAddCmd.Flags().String("category", "", "Defect category, for example structural/finish")
	defectAddCmd.Flags().String("description", "", "Free-form description")
	_ = defectAddCmd.MarkFlagRequired("project")
	_ = defectAddCmd.MarkFlagRequired("area")
	_ = defectAddCmd.MarkFlagRequired("severity")

	defectResolveCmd.Flags().Uint64("id", 0, "Defect id")
	_ = defectResolveCmd.MarkFlagRequired("id")

	defectListCmd.Flags().String("project", "", "Project id")
	defectListCmd.Flags().String("area", "", "Construction area id")
	_ = defectListCmd.MarkFlagRequired("project")
	_ = defectListCmd.MarkFlagRequired("area")
}
