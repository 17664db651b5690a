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

var consultantCmd = &cobra.Command{
	Use:   "consultant",
	Short: "Consultant type directory commands",
}

var consultantRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a consultant type for a project",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		projectID, _ := cmd.Flags().GetString("project")
		name, _ := cmd.Flags().GetString("name")
		isDefault, _ := cmd.Flags().GetBool("default")

		out, err := svc.RegisterConsultantType(ctx, riskuc.RegisterConsultantTypeInput{
			ProjectID: projectID,
			Name:      name,
			IsDefault: isDefault,
		})
		if err != nil {
			logging.Error(ctx, "register consultant type failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "register consultant type")
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"consultant type registered: id=%s name=%s default=%t\n",
			out.ConsultantTypeID,
			out.Name,
			out.IsDefault,
		); err != nil {
			return errs.Wrap(err, "write consultant output")
		}
		return nil
	}),
}

var consultantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's consultant types",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		projectID, _ := cmd.Flags().GetString("project")

		items, err := svc.ListConsultantTypes(ctx, projectID)
		if err != nil {
			logging.Error(ctx, "list consultant types failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list consultant types")
		}

		if len(items) == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no consultant types"); err != nil {
				return errs.Wrap(err, "write consultant list output")
			}
			return nil
		}

		for _, item := range items {
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"%s name=%s default=%t at=%s\n",
				item.ConsultantTypeID,
				item.Name,
				item.IsDefault,
				item.CreatedAt,
			); err != nil {
				return errs.Wrap(err, "write consultant list item")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consultantCmd)
	consultantCmd.AddCommand(consultantRegisterCmd)
	consultantCmd.AddCommand(consultantListCmd)

	consultantRegisterCmd.Flags().String("project", "", "Project id")
	consultantRegisterCmd.Flags().String("name", "", "Consultant type name, for example structural-engineer")
	consultantRegisterCmd.Flags().Bool("default", false, "Use as the project's default consultant type")
	_ = consultantRegisterCmd.MarkFlagRequired("project")
	_ = consultantRegisterCmd.MarkFlagRequired("name")

	consultantListCmd.Flags().String("project", "", "Project id")
	_ = consultantListCmd.MarkFlagRequired("project")
}
