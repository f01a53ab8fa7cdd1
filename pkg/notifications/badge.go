package notifications

import (
	"strconv"

	"github.com/parceltrack/parceltrack/pkg/constants"
)

// Badge renders an unread count the way the notification bell shows it:
// empty for zero and "9+" above the limit.
func Badge(unread int) string {
	switch {
	case unread <= 0:
		return ""
	case unread > constants.UnreadBadgeLimit:
		return strconv.Itoa(constants.UnreadBadgeLimit) + "+"
	}
	return strconv.Itoa(unread)
}
