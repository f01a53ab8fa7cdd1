package parceltrack

import (
	"context"

	"github.com/parceltrack/parceltrack/pkg/constants"
	"github.com/parceltrack/parceltrack/pkg/notifications"
	"github.com/parceltrack/parceltrack/pkg/state"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Compile-time interface check to ensure proper implementation.
var _ Notifications = (*client)(nil)

// Notifications manages the notification list. Read state is local first:
// marking applies immediately and the backend acknowledgment trails in the
// background. A failed acknowledgment is logged and never rolls back.
type Notifications interface {
	// Notifications returns the records matching f, most recent first.
	Notifications(f notifications.Filter) []types.Notification

	// UnreadCount returns the number of unread records.
	UnreadCount() int

	// Badge renders the unread count for compact display ("", "1".."9", "9+").
	Badge() string

	// MarkRead marks one record read. It reports whether anything changed.
	MarkRead(ctx context.Context, id string) bool

	// MarkAllRead marks every record read and returns how many changed.
	MarkAllRead(ctx context.Context) int

	// ClearNotifications empties the list locally.
	ClearNotifications()

	// RefreshNotifications merges the backend history into the list without
	// touching records already present. It returns how many were added.
	RefreshNotifications(ctx context.Context) (int, error)
}

// Notifications returns the filtered list.
func (c *client) Notifications(f notifications.Filter) []types.Notification {
	return c.store.Notifications().Filter(f)
}

// UnreadCount returns the number of unread records.
func (c *client) UnreadCount() int {
	return c.store.Notifications().UnreadCount()
}

// Badge renders the unread count.
func (c *client) Badge() string {
	return notifications.Badge(c.UnreadCount())
}

// MarkRead marks one record read and acknowledges it in the background.
func (c *client) MarkRead(ctx context.Context, id string) bool {
	change := c.store.Dispatch(state.MarkRead{ID: id})
	if !change.Applied {
		return false
	}
	n, ok := c.store.Notifications().Get(id)
	if ok && n.BackendID != "" {
		c.ack(ctx, "mark_read", func(ctx context.Context) error {
			return c.api.MarkNotificationRead(ctx, n.BackendID)
		})
	}
	return true
}

// MarkAllRead marks every record read and acknowledges in the background.
func (c *client) MarkAllRead(ctx context.Context) int {
	before := c.UnreadCount()
	change := c.store.Dispatch(state.MarkAllRead{})
	if !change.Applied {
		return 0
	}
	c.ack(ctx, "mark_all_read", c.api.MarkAllNotificationsRead)
	return before
}

// ClearNotifications empties the list.
func (c *client) ClearNotifications() {
	c.store.Dispatch(state.ClearNotifications{})
}

// RefreshNotifications merges backend history.
func (c *client) RefreshNotifications(ctx context.Context) (int, error) {
	history, err := c.api.MyNotifications(ctx, false)
	if err != nil {
		return 0, err
	}
	before := c.store.Notifications().Len()
	c.store.Dispatch(state.LoadNotifications{Records: history})
	return c.store.Notifications().Len() - before, nil
}

// ack sends a read acknowledgment without blocking the caller. It is
// skipped when logged out.
func (c *client) ack(ctx context.Context, op string, send func(context.Context) error) {
	if _, ok := c.store.Session(); !ok {
		return
	}
	c.acks.Add(1)
	go func() {
		defer c.acks.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.AckTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			c.logger.Warn().Err(err).Str("operation", op).Msg("Failed to acknowledge read state")
		}
	}()
}
