// Package theme holds the lipgloss styles of the interactive commands.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/parceltrack/parceltrack/pkg/types"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is the title bar of the watch view.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// BadgeStyle renders the unread badge.
var BadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// MutedStyle is used for timestamps and hints.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// UnreadStyle emphasizes unread messages.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true)

// PanelStyle wraps the notification list.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TypeStyle returns a color-coded style for a notification type.
func TypeStyle(t types.NotificationType) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch t.Normalize() {
	case types.NotificationSuccess:
		return base.Foreground(ColorGreen)
	case types.NotificationWarning:
		return base.Foreground(ColorYellow)
	case types.NotificationError:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorBlue)
	}
}

// StatusStyle returns a color-coded style for a parcel status.
func StatusStyle(s types.ParcelStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch s {
	case types.StatusPending:
		return base.Foreground(ColorGray)
	case types.StatusPickedUp, types.StatusInTransit:
		return base.Foreground(ColorYellow)
	case types.StatusDelivered:
		return base.Foreground(ColorGreen)
	case types.StatusFailed:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorBlue)
	}
}

// ConnectionStyle colors the connection indicator.
func ConnectionStyle(connected bool) lipgloss.Style {
	if connected {
		return lipgloss.NewStyle().Foreground(ColorGreen)
	}
	return lipgloss.NewStyle().Foreground(ColorRed)
}
