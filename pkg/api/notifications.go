package api

import (
	"context"
	"fmt"

	"github.com/inkwell-social/inkwell-cli/pkg/client"
	"github.com/inkwell-social/inkwell-cli/pkg/logger"
)

// GetNotifications retrieves the full notification snapshot for a user,
// newest-first per server ordering
func GetNotifications(ctx context.Context, userID string) ([]Notification, error) {
	logger.Debug("Fetching notification snapshot", "user_id", userID)

	var notifications []Notification

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&notifications).
		Get(fmt.Sprintf("/api/notifications/%s", userID))

	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, ParseError(resp)
	}

	return notifications, nil
}

// MarkNotificationRead confirms a single notification as read
func MarkNotificationRead(ctx context.Context, notificationID string) error {
	logger.Debug("Marking notification as read", "notification_id", notificationID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Post(fmt.Sprintf("/api/notifications/read/%s", notificationID))

	return CheckResponse(resp, err)
}
