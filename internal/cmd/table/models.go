// Package table converts client data into rows for table output.
package table

import (
	"fmt"
	"strconv"
	"time"

	"github.com/parceltrack/parceltrack/internal/api"
	"github.com/parceltrack/parceltrack/internal/cmd/emoji"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// TimeLayout is how timestamps are shown in tables.
const TimeLayout = "2006-01-02 15:04"

// NotificationsToTableData converts notifications to table format. The wide
// variant adds the local and backend ids.
func NotificationsToTableData(records []types.Notification, wide bool) Data {
	headers := []string{"", "Type", "Message", "Time"}
	align := []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "ID", "Backend ID")
		align = append(align, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(records))
	for _, n := range records {
		mark := emoji.Unread
		if n.Read {
			mark = emoji.Read
		}
		row := []string{mark, string(n.Type), n.Message, formatTime(n.Timestamp)}
		if wide {
			row = append(row, n.ID, dash(n.BackendID))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// ParcelsToTableData converts parcels to table format.
func ParcelsToTableData(parcels []types.Parcel, wide bool) Data {
	headers := []string{"Tracking", "Status", "Recipient", "Updated"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "ID", "Sender", "Agent", "Cost", "Location")
		align = append(align, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft)
	}

	rows := make([][]string, 0, len(parcels))
	for _, p := range parcels {
		row := []string{
			p.TrackingNumber,
			emoji.ForStatus(p.Status) + " " + string(p.Status),
			dash(p.RecipientName),
			formatTime(p.UpdatedAt),
		}
		if wide {
			row = append(row,
				p.ID,
				refLabel(p.Sender),
				agentLabel(p.Agent),
				strconv.FormatFloat(p.Cost, 'f', 2, 64),
				locationLabel(p.CurrentLocation),
			)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// ParcelToTableData renders one parcel as a property table.
func ParcelToTableData(p types.Parcel) Data {
	rows := [][]string{
		{"ID", p.ID},
		{"Tracking Number", p.TrackingNumber},
		{"Status", emoji.ForStatus(p.Status) + " " + string(p.Status)},
		{"Sender", refLabel(p.Sender)},
		{"Agent", agentLabel(p.Agent)},
		{"Pickup", dash(p.PickupAddress)},
		{"Recipient", dash(p.RecipientName)},
		{"Recipient Address", dash(p.RecipientAddress)},
		{"Recipient Phone", dash(p.RecipientPhone)},
		{"Weight", strconv.FormatFloat(p.Weight, 'f', -1, 64)},
		{"Cost", strconv.FormatFloat(p.Cost, 'f', 2, 64)},
		{"Payment", dash(string(p.PaymentType)) + " / " + dash(string(p.PaymentStatus))},
		{"Location", locationLabel(p.CurrentLocation)},
		{"Created", formatTime(p.CreatedAt)},
		{"Updated", formatTime(p.UpdatedAt)},
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// StatisticsToTableData renders parcel counters.
func StatisticsToTableData(s api.Statistics) Data {
	return Data{
		Headers: []string{"Total", "Pending", "In Transit", "Delivered"},
		Rows: [][]string{{
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Pending),
			strconv.Itoa(s.InTransit),
			strconv.Itoa(s.Delivered),
		}},
		ColumnAlignment: []Align{AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

// SessionToTableData renders the signed-in user.
func SessionToTableData(sess types.Session, connected bool) Data {
	conn := emoji.Error + " offline"
	if connected {
		conn = emoji.Success + " live"
	}
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"User ID", sess.UserID()},
			{"Name", dash(sess.User.Name)},
			{"Email", dash(sess.User.Email)},
			{"Role", sess.Role().String()},
			{"Connection", conn},
		},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimeLayout)
}

func refLabel(r types.Ref) string {
	switch {
	case r.ID == "":
		return "-"
	case r.Name != "":
		return fmt.Sprintf("%s (%s)", r.Name, r.ID)
	}
	return r.ID
}

func agentLabel(r *types.Ref) string {
	if r == nil {
		return "unassigned"
	}
	return refLabel(*r)
}

func locationLabel(l *types.Location) string {
	if l == nil {
		return "-"
	}
	return fmt.Sprintf("%.5f, %.5f", l.Lat(), l.Lng())
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
