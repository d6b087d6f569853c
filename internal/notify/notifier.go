package notify

import (
	"context"
	"fmt"

	"taskvision/internal/logger"
)

// Notifier is the notification sink. Delivery is fire-and-forget; the
// tag lets the sink's presentation layer collapse duplicate deliveries
// of the same reminder.
type Notifier interface {
	Notify(ctx context.Context, ownerID, title, body, tag string) error
}

// NotificationError wraps a failed delivery. It is logged and never
// propagated back into scheduling; the next periodic check is the de
// facto retry.
type NotificationError struct {
	Tag string
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Tag, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// LogNotifier writes notifications to the structured log. Used when no
// Telegram token is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithComponent("notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, ownerID, title, body, tag string) error {
	n.log.Info("notification", "owner_id", ownerID, "tag", tag, "title", title, "body", body)
	return nil
}
