package output

import (
	"io"

	"github.com/parceltrack/parceltrack/internal/api"
	"github.com/parceltrack/parceltrack/internal/cmd/table"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Printer writes command results in one output format.
type Printer struct {
	W      io.Writer
	Format Format
}

// NewPrinter creates a printer; an empty format is detected from w.
func NewPrinter(w io.Writer, format string) *Printer {
	f := Format(format)
	if f == "" {
		f = FormatJSON
		if IsTerminal(w) {
			f = FormatTable
		}
	}
	return &Printer{W: w, Format: f}
}

func (p *Printer) print(tableData table.Data, raw any) error {
	if p.Format.IsTable() {
		return NewFormatter(p.Format).Format(p.W, tableData)
	}
	return NewFormatter(p.Format).Format(p.W, raw)
}

// Notifications writes a notification list.
func (p *Printer) Notifications(records []types.Notification) error {
	return p.print(table.NotificationsToTableData(records, p.Format == FormatWide), records)
}

// Parcels writes a parcel list.
func (p *Printer) Parcels(parcels []types.Parcel) error {
	return p.print(table.ParcelsToTableData(parcels, p.Format == FormatWide), parcels)
}

// Parcel writes one parcel.
func (p *Printer) Parcel(parcel types.Parcel) error {
	return p.print(table.ParcelToTableData(parcel), parcel)
}

// Statistics writes parcel counters.
func (p *Printer) Statistics(s api.Statistics) error {
	return p.print(table.StatisticsToTableData(s), s)
}

// Session writes the signed-in user.
func (p *Printer) Session(sess types.Session, connected bool) error {
	raw := struct {
		User      types.User `json:"user"`
		Connected bool       `json:"connected"`
	}{sess.User, connected}
	return p.print(table.SessionToTableData(sess, connected), raw)
}

// Any writes data without a dedicated table layout.
func (p *Printer) Any(data any) error {
	return NewFormatter(p.Format).Format(p.W, data)
}
