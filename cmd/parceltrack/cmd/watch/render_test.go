package watch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/parceltrack/parceltrack"
	"github.com/parceltrack/parceltrack/internal/socket"
	"github.com/parceltrack/parceltrack/pkg/state"
	"github.com/parceltrack/parceltrack/pkg/types"
)

func snapshot(unread int) state.State {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	st := state.State{
		Session: &types.Session{User: types.User{ID: "a1", Name: "Amir", Role: types.RoleAgent}, Token: "tok"},
		Parcels: []types.Parcel{
			{ID: "p1", TrackingNumber: "PT-1", Status: types.StatusInTransit},
			{ID: "p2", TrackingNumber: "PT-2", Status: types.StatusDelivered},
		},
	}
	for i := 0; i < unread; i++ {
		st.Notifications = append(st.Notifications, types.Notification{
			ID: "n", Message: "New parcel assigned", Type: types.NotificationInfo, Timestamp: ts,
		})
	}
	st.UnreadCount = unread
	st.Selected = &st.Parcels[1]
	return st
}

func TestViewHeader(t *testing.T) {
	v := View(snapshot(3), socket.Status{Initialized: true, Connected: true}, DefaultViewOptions)

	assert.Contains(t, v, "Amir (agent)")
	assert.Contains(t, v, "live")
	assert.Contains(t, v, " 3 ")
	assert.Contains(t, v, "Ctrl+C to quit")

	offline := View(snapshot(0), socket.Status{}, DefaultViewOptions)
	assert.Contains(t, offline, "offline")
	assert.Contains(t, offline, "No notifications yet")
}

func TestViewTruncatesNotifications(t *testing.T) {
	opts := DefaultViewOptions
	opts.MaxNotifications = 2
	st := snapshot(5)
	st.UnreadCount = 12
	v := View(st, socket.Status{Connected: true}, opts)

	assert.Equal(t, 2, strings.Count(v, "New parcel assigned"))
	assert.Contains(t, v, "… 3 more")
	assert.Contains(t, v, "9+", "badge is capped")
}

func TestViewParcels(t *testing.T) {
	v := View(snapshot(0), socket.Status{}, DefaultViewOptions)

	assert.Contains(t, v, "PT-1")
	assert.Contains(t, v, "In Transit")
	assert.Contains(t, v, "> PT-2")
}

type nopHooks struct {
	parceltrack.Client
}

func (nopHooks) OnNotification(parceltrack.NotificationHook) {}
func (nopHooks) OnSessionChanged(parceltrack.SessionHook) {}

func TestStreamReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, Stream(ctx, nopHooks{}, nil))
}
