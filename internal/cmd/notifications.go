package cmd

import (
	"os"
	"os/signal"

	"github.com/inkwell-social/inkwell-cli/pkg/service"
	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Notification commands",
	Long:  "View and manage notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		notifService := service.NewNotificationService()
		return notifService.List(cmd.Context())
	},
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for real-time notifications",
	Long:  "Stream notifications live over the push channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		notifService := service.NewNotificationService()
		return notifService.Watch(ctx)
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notifService := service.NewNotificationService()
		return notifService.MarkRead(cmd.Context(), args[0])
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark all notifications as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		notifService := service.NewNotificationService()
		return notifService.MarkAllRead(cmd.Context())
	},
}

var notificationsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refetch the notification snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		notifService := service.NewNotificationService()
		return notifService.Refresh(cmd.Context())
	},
}

func init() {
	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsWatchCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsReadAllCmd)
	notificationsCmd.AddCommand(notificationsRefreshCmd)
}
