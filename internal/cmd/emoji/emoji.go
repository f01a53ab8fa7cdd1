// Package emoji provides symbol constants for CLI output.
package emoji

import "github.com/parceltrack/parceltrack/pkg/types"

// Symbols shared by every command.
const (
	// Success marks a completed operation or a live connection.
	Success = "✓"

	// Error marks a failure or a lost connection.
	Error = "✗"

	// Warning marks a non-fatal problem.
	Warning = "!"

	// Info marks informational output.
	Info = "i"

	// Unread marks an unread notification.
	Unread = "●"

	// Read marks a read notification.
	Read = "○"
)

// ForType returns the symbol for a notification type.
func ForType(t types.NotificationType) string {
	switch t.Normalize() {
	case types.NotificationSuccess:
		return Success
	case types.NotificationWarning:
		return Warning
	case types.NotificationError:
		return Error
	}
	return Info
}

// ForStatus returns the symbol for a parcel status.
func ForStatus(s types.ParcelStatus) string {
	switch s {
	case types.StatusPending:
		return "…"
	case types.StatusPickedUp:
		return "↑"
	case types.StatusInTransit:
		return "→"
	case types.StatusDelivered:
		return Success
	case types.StatusFailed:
		return Error
	}
	return "?"
}
