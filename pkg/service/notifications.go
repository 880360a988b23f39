package service

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-social/inkwell-cli/pkg/api"
	"github.com/inkwell-social/inkwell-cli/pkg/client"
	"github.com/inkwell-social/inkwell-cli/pkg/notify"
	"github.com/inkwell-social/inkwell-cli/pkg/output"
	"github.com/inkwell-social/inkwell-cli/pkg/prompter"
	"github.com/inkwell-social/inkwell-cli/pkg/session"
)

// NotificationService provides notification-related operations
type NotificationService struct {
	manager *session.Manager
	sync    *notify.Sync
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	return &NotificationService{
		manager: session.NewManager(),
		sync:    notify.New(),
	}
}

// initialize resolves the active identity and points the feed at it
func (ns *NotificationService) initialize(ctx context.Context) error {
	client.Init()

	userID, err := CurrentUserID(ctx, ns.manager)
	if err != nil {
		return err
	}

	ns.sync.Initialize(ctx, userID)
	return nil
}

// List displays the user's notifications, newest-first
func (ns *NotificationService) List(ctx context.Context) error {
	if err := ns.initialize(ctx); err != nil {
		return err
	}
	defer ns.sync.Teardown()

	items := ns.sync.Items()
	if len(items) == 0 {
		fmt.Println("No notifications.")
		return nil
	}

	if output.GetFormat() == output.FormatJSON {
		return output.Print(items)
	}

	for _, n := range items {
		ns.printNotification(n)
	}
	fmt.Printf("\n%d unread\n", ns.sync.UnreadCount())
	return nil
}

// Watch streams the feed live: prints the snapshot, then every pushed
// notification as it merges, until the context is cancelled
func (ns *NotificationService) Watch(ctx context.Context) error {
	client.Init()

	userID, err := CurrentUserID(ctx, ns.manager)
	if err != nil {
		return err
	}

	ns.sync.OnMerge(func(n api.Notification) {
		ns.printNotification(n)
	})

	ns.sync.Initialize(ctx, userID)
	defer ns.sync.Teardown()

	output.PrintInfo("Watching notifications (Ctrl+C to stop)...")

	// Surface connection-state changes so a silent stream is explainable
	last := ns.sync.ConnectionState()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			state := ns.sync.ConnectionState()
			if state != last {
				output.PrintInfo("Connection: %s", state.String())
				last = state
			}
		}
	}
}

// MarkRead marks one notification as read
func (ns *NotificationService) MarkRead(ctx context.Context, notificationID string) error {
	if err := ns.initialize(ctx); err != nil {
		return err
	}
	defer ns.sync.Teardown()

	ns.sync.MarkAsRead(ctx, notificationID)
	output.PrintSuccess("✓ Notification marked as read.")
	return nil
}

// MarkAllRead marks every unread notification as read, after confirmation
func (ns *NotificationService) MarkAllRead(ctx context.Context) error {
	if err := ns.initialize(ctx); err != nil {
		return err
	}
	defer ns.sync.Teardown()

	unread := ns.sync.UnreadCount()
	if unread == 0 {
		fmt.Println("No unread notifications.")
		return nil
	}

	if prompter.IsInteractive() {
		confirm, err := prompter.PromptConfirm(fmt.Sprintf("Mark %d notification%s as read?", unread, pluralize(unread)))
		if err != nil {
			return err
		}
		if !confirm {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	ns.sync.MarkAllAsRead(ctx)
	output.PrintSuccess("✓ All notifications marked as read.")
	return nil
}

// Refresh refetches the snapshot and merges anything new
func (ns *NotificationService) Refresh(ctx context.Context) error {
	if err := ns.initialize(ctx); err != nil {
		return err
	}
	defer ns.sync.Teardown()

	if err := ns.sync.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh notifications: %w", err)
	}

	output.PrintSuccess("✓ Refreshed. %d unread.", ns.sync.UnreadCount())
	return nil
}

func (ns *NotificationService) printNotification(n api.Notification) {
	marker := "●"
	if n.Read {
		marker = " "
	}
	fmt.Printf("%s %s  %s\n", marker, n.CreatedAt.Local().Format("2006-01-02 15:04"), n.Message)
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
