package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceltrack/parceltrack/internal/events"
	"github.com/parceltrack/parceltrack/internal/socket"
	"github.com/parceltrack/parceltrack/internal/socket/sockettest"
	"github.com/parceltrack/parceltrack/pkg/logging"
	"github.com/parceltrack/parceltrack/pkg/state"
	"github.com/parceltrack/parceltrack/pkg/types"
)

func newRouter(t *testing.T, sess types.Session) (*events.Router, *state.Store, *logging.TestLogger) {
	t.Helper()
	store := state.New()
	store.Dispatch(state.SetSession{Session: sess})
	tl := logging.NewTestLogger(t)
	return events.NewRouter(sess, store, newDecoder(t), tl.Logger), store, tl
}

func TestHandleUpsertsRelevantParcel(t *testing.T) {
	r, store, _ := newRouter(t, session("c1", types.RoleCustomer))

	r.Handle(events.ParcelStatusUpdated, json.RawMessage(`{"parcel":{"_id":"p1","trackingNumber":"PT-1","status":"in_transit","sender":"c1"}}`))

	snap := store.Snapshot()
	require.Len(t, snap.Parcels, 1)
	assert.Equal(t, types.StatusInTransit, snap.Parcels[0].Status)
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "Your parcel PT-1 status updated to in_transit", snap.Notifications[0].Message)
	assert.Equal(t, 1, snap.UnreadCount)
}

func TestHandleOnlyRefreshesIrrelevantParcel(t *testing.T) {
	r, store, _ := newRouter(t, session("c2", types.RoleCustomer))
	raw := json.RawMessage(`{"parcel":{"_id":"p1","trackingNumber":"PT-1","status":"delivered","sender":"c1"}}`)

	r.Handle(events.ParcelDelivered, raw)
	assert.Zero(t, store.Parcels().Len())
	assert.Zero(t, store.Notifications().Len())

	store.Dispatch(state.AddParcel{Parcel: parcel(types.StatusInTransit, "c1", "")})
	r.Handle(events.ParcelDelivered, raw)

	ps := store.Parcels().List()
	require.Len(t, ps, 1)
	assert.Equal(t, types.StatusDelivered, ps[0].Status)
	assert.Zero(t, store.Notifications().Len())
}

func TestHandleDropsMalformedPayload(t *testing.T) {
	r, store, tl := newRouter(t, session("ad", types.RoleAdmin))

	r.Handle(events.ParcelDelivered, json.RawMessage(`{"parcel":{"trackingNumber":"PT-1"}}`))
	r.Handle(events.SystemAlert, json.RawMessage(`[1,2,3]`))

	snap := store.Snapshot()
	assert.Empty(t, snap.Parcels)
	assert.Empty(t, snap.Notifications)
	assert.Equal(t, 2, tl.Count())
	tl.AssertContains(t, "Dropping malformed event")
}

func TestHandleNotificationSentIsLoggedOnly(t *testing.T) {
	r, store, tl := newRouter(t, session("ad", types.RoleAdmin))

	r.Handle(events.NotificationSent, json.RawMessage(`{"type":"email","recipient":"c@example.com","message":"hi"}`))

	assert.Zero(t, store.Notifications().Len())
	tl.AssertContains(t, "Notification sent")
	tl.AssertContains(t, `"recipient":"c@example.com"`)
}

func TestHandlePendingKeepsBackendIDs(t *testing.T) {
	r, store, _ := newRouter(t, session("c1", types.RoleCustomer))

	pending := `{"count":2,"notifications":[
		{"_id":"n1","message":"older","createdAt":"2024-05-01T10:00:00Z"},
		{"_id":"n2","message":"newer","createdAt":"2024-05-02T10:00:00Z"}
	]}`
	r.Handle(events.NotificationsPending, json.RawMessage(pending))
	r.Handle(events.NotificationsPending, json.RawMessage(pending))

	ns := store.Notifications().List()
	require.Len(t, ns, 2)
	assert.Equal(t, "n2", ns[0].ID)
	assert.Equal(t, "n2", ns[0].BackendID)
	assert.Equal(t, "n1", ns[1].ID)
}

// A customer whose parcel is delivered sees one success notification and
// the delivered status in the mirror.
func TestCustomerDeliveredOverSocket(t *testing.T) {
	srv := sockettest.NewServer(t)
	sess := session("c1", types.RoleCustomer)

	r, store, _ := newRouter(t, sess)
	store.Dispatch(state.SetParcels{Parcels: []types.Parcel{parcel(types.StatusInTransit, "c1", "a1")}})

	applied := make(chan state.Change, 16)
	store.Subscribe(func(c state.Change) {
		if _, ok := c.Action.(state.AddNotification); ok {
			applied <- c
		}
	})

	m := socket.NewManager(srv.URL, socket.WithLogger(logging.NewNopLogger()))
	t.Cleanup(m.Disconnect)
	registered := 0
	m.Connect(context.Background(), sess.Token, func() { registered = r.Register(m) })
	assert.Equal(t, len(events.Inbound()), registered)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.WaitConnected(ctx))
	conn := srv.Accept(5 * time.Second)

	require.NoError(t, conn.EmitRaw("parcel:delivered",
		`{"parcel":{"_id":"p1","trackingNumber":"PT-1","status":"delivered","sender":{"_id":"c1","name":"Carol"},"agent":"a1"}}`))

	select {
	case c := <-applied:
		require.NotNil(t, c.Notification)
		assert.Equal(t, "Your parcel PT-1 has been delivered successfully! 🎉", c.Notification.Message)
		assert.Equal(t, types.NotificationSuccess, c.Notification.Type)
		assert.False(t, c.Notification.Read)
	case <-ctx.Done():
		t.Fatal("notification was not applied")
	}

	snap := store.Snapshot()
	assert.Len(t, snap.Notifications, 1)
	assert.Equal(t, 1, snap.UnreadCount)
	require.Len(t, snap.Parcels, 1)
	assert.Equal(t, types.StatusDelivered, snap.Parcels[0].Status)
}

func TestRegisterWithoutConnection(t *testing.T) {
	r, _, _ := newRouter(t, session("c1", types.RoleCustomer))
	m := socket.NewManager("http://127.0.0.1:1", socket.WithLogger(logging.NewNopLogger()))

	assert.Zero(t, r.Register(m))
}
