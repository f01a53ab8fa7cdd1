package alerts

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/parceltrack/parceltrack/internal/cmd/emoji"
	"github.com/parceltrack/parceltrack/internal/cmd/theme"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Level represents the severity of an alert.
type Level int

const (
	// LevelError indicates a failure or error condition.
	LevelError Level = iota
	// LevelWarning indicates a potential issue or important notice.
	LevelWarning
	// LevelInfo indicates general informational messages.
	LevelInfo
	// LevelSuccess indicates successful completion of an operation.
	LevelSuccess
)

// LevelFor maps a notification type to the matching level.
func LevelFor(t types.NotificationType) Level {
	switch t.Normalize() {
	case types.NotificationError:
		return LevelError
	case types.NotificationWarning:
		return LevelWarning
	case types.NotificationSuccess:
		return LevelSuccess
	}
	return LevelInfo
}

// String returns the string representation of the alert level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the symbol shown in front of the message.
func (l Level) Icon() string {
	return emoji.ForType(l.notificationType())
}

// Style returns the terminal style of the level.
func (l Level) Style() lipgloss.Style {
	return theme.TypeStyle(l.notificationType())
}

func (l Level) notificationType() types.NotificationType {
	switch l {
	case LevelError:
		return types.NotificationError
	case LevelWarning:
		return types.NotificationWarning
	case LevelSuccess:
		return types.NotificationSuccess
	}
	return types.NotificationInfo
}
