package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/parceltrack/parceltrack/internal/cmd/emoji"
	"github.com/parceltrack/parceltrack/internal/cmd/output"
	"github.com/parceltrack/parceltrack/internal/cmd/table"
	"github.com/parceltrack/parceltrack/internal/cmd/theme"
	"github.com/parceltrack/parceltrack/internal/socket"
	"github.com/parceltrack/parceltrack/pkg/notifications"
	"github.com/parceltrack/parceltrack/pkg/state"
)

// ViewOptions bounds the rendered view.
type ViewOptions struct {
	Width            int
	MaxNotifications int
	MaxParcels       int
}

// DefaultViewOptions fit an 80 column terminal.
var DefaultViewOptions = ViewOptions{Width: 80, MaxNotifications: 10, MaxParcels: 5}

// View renders the header, the notification panel and the parcel summary.
func View(st state.State, conn socket.Status, opts ViewOptions) string {
	if opts.Width <= 0 {
		opts.Width = DefaultViewOptions.Width
	}
	sections := []string{
		header(st, conn, opts.Width),
		notificationPanel(st, opts),
	}
	if len(st.Parcels) > 0 && opts.MaxParcels > 0 {
		sections = append(sections, parcelSummary(st, opts))
	}
	sections = append(sections, theme.MutedStyle.Render("Ctrl+C to quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func header(st state.State, conn socket.Status, width int) string {
	who := "logged out"
	if st.Session != nil {
		name := st.Session.User.Name
		if name == "" {
			name = st.Session.UserID()
		}
		who = fmt.Sprintf("%s (%s)", name, st.Session.Role())
	}
	title := theme.HeaderStyle.Render("ParcelTrack") + " " + who

	status := emoji.Error + " offline"
	if conn.Connected {
		status = emoji.Success + " live"
	}
	right := theme.ConnectionStyle(conn.Connected).Render(status)
	if badge := notifications.Badge(st.UnreadCount); badge != "" {
		right += " " + theme.BadgeStyle.Render(badge)
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + right
}

func notificationPanel(st state.State, opts ViewOptions) string {
	inner := opts.Width - 4
	if len(st.Notifications) == 0 {
		return theme.PanelStyle.Width(inner).Render(theme.MutedStyle.Render("No notifications yet"))
	}

	records := st.Notifications
	if opts.MaxNotifications > 0 && len(records) > opts.MaxNotifications {
		records = records[:opts.MaxNotifications]
	}
	lines := make([]string, 0, len(records)+1)
	for _, n := range records {
		mark := emoji.Read
		msg := n.Message
		if !n.Read {
			mark = emoji.Unread
			msg = theme.UnreadStyle.Render(msg)
		}
		ts := theme.MutedStyle.Render(n.Timestamp.Local().Format(table.TimeLayout))
		icon := theme.TypeStyle(n.Type).Render(emoji.ForType(n.Type))
		lines = append(lines, fmt.Sprintf("%s %s %s  %s", mark, icon, msg, ts))
	}
	if more := len(st.Notifications) - len(records); more > 0 {
		lines = append(lines, theme.MutedStyle.Render(fmt.Sprintf("… %d more", more)))
	}
	return theme.PanelStyle.Width(inner).Render(strings.Join(lines, "\n"))
}

func parcelSummary(st state.State, opts ViewOptions) string {
	parcels := st.Parcels
	if len(parcels) > opts.MaxParcels {
		parcels = parcels[:opts.MaxParcels]
	}
	lines := make([]string, 0, len(parcels))
	for _, p := range parcels {
		label := theme.StatusStyle(p.Status).Render(output.Title(string(p.Status)))
		line := p.TrackingNumber + " " + label
		if st.Selected != nil && st.Selected.ID == p.ID {
			line = "> " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
