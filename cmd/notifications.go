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

var notificationCmd = &cobra.Command{
	Use:   "notification",
	Short: "Notification inbox commands",
}

var notificationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications for a recipient",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		recipientID, _ := cmd.Flags().GetString("recipient")
		limit, _ := cmd.Flags().GetInt("limit")

		items, err := svc.ListNotifications(ctx, recipientID, limit)
		if err != nil {
			logging.Error(ctx, "list notifications failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list notifications")
		}

		if len(items) == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no notifications"); err != nil {
				return errs.Wrap(err, "write notification list output")
			}
			return nil
		}

		for _, item := range items {
			readMark := " "
			if item.Read {
				readMark = "*"
			}
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"n%d%s [%s] %s: %s (ref=%s at=%s)\n",
				item.NotificationID,
				readMark,
				item.Category,
				item.Title,
				item.Message,
				item.RelatedEntityID,
				item.CreatedAt,
			); err != nil {
				return errs.Wrap(err, "write notification list item")
			}
		}
		return nil
	}),
}

var notificationReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Mark a notification as read",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		notificationID, _ := cmd.Flags().GetUint64("id")

		if err := svc.MarkNotificationRead(ctx, notificationID); err != nil {
			logging.Error(ctx, "mark notification read failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "mark notification read")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "notification %d marked read\n", notificationID); err != nil {
			return errs.Wrap(err, "write notification output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(notificationCmd)
	notificationCmd.AddCommand(notificationListCmd)
	notificationCmd.AddCommand(notificationReadCmd)

	notificationListCmd.Flags().String("recipient", "", "Recipient id (defaults to the configured recipient)")
	notificationListCmd.Flags().Int("limit", 20, "Max records to show")

	notificationReadCmd.Flags().Uint64("id", 0, "Notification id")
	_ = notificationReadCmd.MarkFlagRequired("id")
}
