package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceltrack/parceltrack/internal/api"
	"github.com/parceltrack/parceltrack/internal/cmd/emoji"
	"github.com/parceltrack/parceltrack/pkg/types"
)

func TestNotificationsToTableData(t *testing.T) {
	records := []types.Notification{
		{ID: "local-1", Message: "hello", Type: types.NotificationInfo},
		{ID: "n1", BackendID: "n1", Message: "done", Type: types.NotificationSuccess, Read: true},
	}

	narrow := NotificationsToTableData(records, false)
	assert.Len(t, narrow.Headers, 4)
	require.Len(t, narrow.Rows, 2)
	assert.Equal(t, emoji.Unread, narrow.Rows[0][0])
	assert.Equal(t, emoji.Read, narrow.Rows[1][0])
	assert.Equal(t, "-", narrow.Rows[0][3], "zero timestamp")

	wide := NotificationsToTableData(records, true)
	assert.Equal(t, []string{"local-1", "-"}, wide.Rows[0][4:])
	assert.Len(t, wide.ColumnAlignment, len(wide.Headers))
}

func TestParcelsToTableData(t *testing.T) {
	parcels := []types.Parcel{{
		ID:              "p1",
		TrackingNumber:  "PT-1",
		Status:          types.StatusDelivered,
		Sender:          types.Ref{ID: "c1", Name: "Carol"},
		Cost:            12.5,
		CurrentLocation: types.NewPoint(23.81, 90.41),
	}}

	wide := ParcelsToTableData(parcels, true)
	require.Len(t, wide.Rows, 1)
	row := wide.Rows[0]
	assert.Equal(t, "PT-1", row[0])
	assert.Equal(t, emoji.Success+" delivered", row[1])
	assert.Equal(t, "Carol (c1)", row[5])
	assert.Equal(t, "unassigned", row[6])
	assert.Equal(t, "12.50", row[7])
	assert.Equal(t, "23.81000, 90.41000", row[8])
}

func TestStatisticsToTableData(t *testing.T) {
	data := StatisticsToTableData(api.Statistics{Total: 10, Pending: 2, InTransit: 3, Delivered: 5})
	assert.Equal(t, [][]string{{"10", "2", "3", "5"}}, data.Rows)
}
