package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceltrack/parceltrack/internal/events"
	"github.com/parceltrack/parceltrack/pkg/types"
)

func session(id string, role types.Role) types.Session {
	return types.Session{User: types.User{ID: id, Name: id, Role: role}, Token: "tok"}
}

func parcel(status types.ParcelStatus, sender, agent string) types.Parcel {
	p := types.Parcel{ID: "p1", TrackingNumber: "PT-1", Status: status, Sender: types.Ref{ID: sender}}
	if agent != "" {
		p.Agent = &types.Ref{ID: agent}
	}
	return p
}

func messages(out events.Outcome) []string {
	msgs := make([]string, 0, len(out.Notifications))
	for _, n := range out.Notifications {
		msgs = append(msgs, n.Message)
	}
	return msgs
}

func TestRouteParcelEventsByRole(t *testing.T) {
	customer := session("c1", types.RoleCustomer)
	stranger := session("c2", types.RoleCustomer)
	agent := session("a1", types.RoleAgent)
	otherAgent := session("a2", types.RoleAgent)
	admin := session("ad", types.RoleAdmin)

	tests := []struct {
		name     string
		sess     types.Session
		event    events.Name
		status   types.ParcelStatus
		want     []string
		wantType types.NotificationType
		relevant bool
	}{
		{"customer status", customer, events.ParcelStatusUpdated, types.StatusInTransit,
			[]string{"Your parcel PT-1 status updated to in_transit"}, types.NotificationInfo, true},
		{"agent status", agent, events.ParcelStatusUpdated, types.StatusInTransit,
			[]string{"Parcel PT-1 status updated to in_transit"}, types.NotificationInfo, true},
		{"admin status", admin, events.ParcelStatusUpdated, types.StatusInTransit,
			[]string{"Parcel PT-1 status updated to in_transit"}, types.NotificationInfo, true},
		{"other customer status", stranger, events.ParcelStatusUpdated, types.StatusInTransit,
			nil, "", false},
		{"other agent status", otherAgent, events.ParcelStatusUpdated, types.StatusInTransit,
			nil, "", false},
		{"customer picked up", customer, events.ParcelPickedUp, types.StatusPickedUp,
			[]string{"Your parcel PT-1 has been picked up"}, types.NotificationInfo, true},
		{"admin picked up", admin, events.ParcelPickedUp, types.StatusPickedUp,
			[]string{"Parcel PT-1 picked up"}, types.NotificationInfo, true},
		{"agent picked up", agent, events.ParcelPickedUp, types.StatusPickedUp,
			nil, "", true},
		{"customer delivered", customer, events.ParcelDelivered, types.StatusDelivered,
			[]string{"Your parcel PT-1 has been delivered successfully! 🎉"}, types.NotificationSuccess, true},
		{"agent delivered", agent, events.ParcelDelivered, types.StatusDelivered,
			[]string{"Parcel PT-1 marked as delivered"}, types.NotificationSuccess, true},
		{"admin delivered", admin, events.ParcelDelivered, types.StatusDelivered,
			[]string{"Parcel PT-1 delivered"}, types.NotificationSuccess, true},
		{"customer location", customer, events.ParcelLocationUpdated, types.StatusInTransit,
			[]string{"Location updated for parcel PT-1"}, types.NotificationInfo, true},
		{"admin location", admin, events.ParcelLocationUpdated, types.StatusInTransit,
			nil, "", true},
		{"admin booking", admin, events.ParcelNewBooking, types.StatusPending,
			[]string{"New parcel booking: PT-1"}, types.NotificationSuccess, true},
		{"customer booking", customer, events.ParcelNewBooking, types.StatusPending,
			nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parcel(tt.status, "c1", "a1")
			out := events.Route(tt.sess, tt.event, &events.ParcelEvent{Parcel: p})

			require.NotNil(t, out.Parcel)
			assert.Equal(t, p, *out.Parcel)
			assert.Equal(t, tt.relevant, out.Relevant)
			if tt.want == nil {
				assert.Empty(t, out.Notifications)
				return
			}
			assert.Equal(t, tt.want, messages(out))
			assert.Equal(t, tt.wantType, out.Notifications[0].Type)
		})
	}
}

func TestRouteAssigned(t *testing.T) {
	p := parcel(types.StatusPending, "c1", "")

	out := events.Route(session("a1", types.RoleAgent), events.ParcelAssigned,
		&events.AssignedEvent{Parcel: p, AgentID: types.Ref{ID: "a1"}})
	assert.Equal(t, []string{"New parcel PT-1 assigned to you"}, messages(out))
	assert.Equal(t, types.NotificationSuccess, out.Notifications[0].Type)
	assert.True(t, out.Relevant)

	out = events.Route(session("a2", types.RoleAgent), events.ParcelAssigned,
		&events.AssignedEvent{Parcel: p, AgentID: types.Ref{ID: "a1"}})
	assert.Empty(t, out.Notifications)
	assert.False(t, out.Relevant)

	out = events.Route(session("ad", types.RoleAdmin), events.ParcelAssigned,
		&events.AssignedEvent{Parcel: p, AgentID: types.Ref{ID: "a1"}})
	assert.Equal(t, []string{"Parcel PT-1 assigned to agent"}, messages(out))
	assert.Equal(t, types.NotificationInfo, out.Notifications[0].Type)
}

func TestRoutePayment(t *testing.T) {
	p := parcel(types.StatusDelivered, "c1", "a1")
	ev := &events.PaymentEvent{Parcel: p, Amount: 150.5}

	out := events.Route(session("ad", types.RoleAdmin), events.PaymentReceived, ev)
	assert.Equal(t, []string{"COD payment received for PT-1: $150.5"}, messages(out))

	out = events.Route(session("a1", types.RoleAgent), events.PaymentReceived, ev)
	assert.Equal(t, []string{"COD payment collected: $150.5"}, messages(out))
	assert.Equal(t, types.NotificationSuccess, out.Notifications[0].Type)

	out = events.Route(session("c1", types.RoleCustomer), events.PaymentReceived, ev)
	assert.Empty(t, out.Notifications)
}

func TestRouteFailed(t *testing.T) {
	p := parcel(types.StatusFailed, "c1", "a1")

	tests := []struct {
		name     string
		sess     types.Session
		reason   string
		want     string
		wantType types.NotificationType
	}{
		{"admin", session("ad", types.RoleAdmin), "", "Parcel PT-1 delivery failed", types.NotificationError},
		{"admin with reason", session("ad", types.RoleAdmin), "nobody home", "Parcel PT-1 delivery failed: nobody home", types.NotificationError},
		{"customer", session("c1", types.RoleCustomer), "nobody home", "Delivery attempt failed for parcel PT-1: nobody home", types.NotificationWarning},
		{"agent", session("a1", types.RoleAgent), "", "Delivery failed for PT-1", types.NotificationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := events.Route(tt.sess, events.ParcelFailed, &events.FailedEvent{Parcel: p, Reason: tt.reason})
			require.Len(t, out.Notifications, 1)
			assert.Equal(t, tt.want, out.Notifications[0].Message)
			assert.Equal(t, tt.wantType, out.Notifications[0].Type)
		})
	}
}

func TestRouteUrgent(t *testing.T) {
	p := parcel(types.StatusInTransit, "c1", "a1")
	ev := &events.UrgentEvent{Parcel: p, Priority: "high"}

	out := events.Route(session("a1", types.RoleAgent), events.ParcelUrgent, ev)
	assert.Equal(t, []string{"URGENT: Priority delivery for PT-1"}, messages(out))
	assert.Equal(t, types.NotificationWarning, out.Notifications[0].Type)

	out = events.Route(session("ad", types.RoleAdmin), events.ParcelUrgent, ev)
	assert.Equal(t, []string{"Urgent parcel: PT-1"}, messages(out))

	out = events.Route(session("c1", types.RoleCustomer), events.ParcelUrgent, ev)
	assert.Empty(t, out.Notifications)
}

func TestRouteAgentStatus(t *testing.T) {
	admin := session("ad", types.RoleAdmin)

	out := events.Route(admin, events.AgentOnlineStatus,
		&events.AgentStatusEvent{AgentID: types.Ref{ID: "a1"}, IsOnline: true, AgentName: "Ann"})
	assert.Equal(t, []string{"Agent Ann is now online"}, messages(out))

	out = events.Route(admin, events.AgentOnlineStatus,
		&events.AgentStatusEvent{AgentID: types.Ref{ID: "a1"}})
	assert.Equal(t, []string{"Agent a1 is now offline"}, messages(out))
	assert.Nil(t, out.Parcel)

	out = events.Route(session("a1", types.RoleAgent), events.AgentOnlineStatus,
		&events.AgentStatusEvent{AgentID: types.Ref{ID: "a1"}, IsOnline: true})
	assert.Empty(t, out.Notifications)
}

func TestRouteRouteAndInquiry(t *testing.T) {
	out := events.Route(session("a1", types.RoleAgent), events.RouteUpdated, &events.RouteEvent{ParcelsCount: 4})
	assert.Equal(t, []string{"Your delivery route has been updated (4 parcels)"}, messages(out))

	out = events.Route(session("c1", types.RoleCustomer), events.RouteUpdated, &events.RouteEvent{ParcelsCount: 4})
	assert.Empty(t, out.Notifications)

	inquiry := &events.InquiryEvent{CustomerID: types.Ref{ID: "c1"}, ParcelID: "p1", Message: "where?"}
	for _, role := range []types.Role{types.RoleAdmin, types.RoleAgent} {
		out = events.Route(session("x", role), events.CustomerInquiry, inquiry)
		assert.Equal(t, []string{"New customer inquiry about parcel"}, messages(out), role)
	}
	out = events.Route(session("c1", types.RoleCustomer), events.CustomerInquiry, inquiry)
	assert.Empty(t, out.Notifications)
}

func TestRouteSystemAlert(t *testing.T) {
	admin := session("ad", types.RoleAdmin)
	tests := []struct {
		level string
		want  types.NotificationType
	}{
		{"info", types.NotificationInfo},
		{"warning", types.NotificationWarning},
		{"critical", types.NotificationError},
		{"", types.NotificationError},
	}
	for _, tt := range tests {
		out := events.Route(admin, events.SystemAlert, &events.AlertEvent{Message: "disk full", Level: tt.level})
		require.Len(t, out.Notifications, 1)
		assert.Equal(t, "disk full", out.Notifications[0].Message)
		assert.Equal(t, tt.want, out.Notifications[0].Type, tt.level)
	}

	out := events.Route(session("a1", types.RoleAgent), events.SystemAlert, &events.AlertEvent{Message: "disk full"})
	assert.Empty(t, out.Notifications)
}

func TestRouteDirectNotification(t *testing.T) {
	me := session("c1", types.RoleCustomer)

	out := events.Route(me, events.NotificationNew, &events.NotificationEvent{Message: "hello", Type: "success"})
	assert.Equal(t, []string{"hello"}, messages(out))
	assert.Equal(t, types.NotificationSuccess, out.Notifications[0].Type)

	out = events.Route(me, events.NotificationNew,
		&events.NotificationEvent{Message: "for me", Type: "bogus", UserID: types.Ref{ID: "c1"}})
	assert.Equal(t, []string{"for me"}, messages(out))
	assert.Equal(t, types.NotificationInfo, out.Notifications[0].Type)

	out = events.Route(me, events.NotificationNew,
		&events.NotificationEvent{Message: "not for me", UserID: types.Ref{ID: "c9"}})
	assert.Empty(t, out.Notifications)
}

func TestRoutePending(t *testing.T) {
	out := events.Route(session("c1", types.RoleCustomer), events.NotificationsPending, &events.PendingEvent{
		Count: 2,
		Notifications: []events.PendingNotification{
			{MongoID: "n1", Message: "one", Type: "warning"},
			{ID: "n2", Message: "two"},
		},
	})
	require.Len(t, out.Notifications, 2)
	assert.Equal(t, "n1", out.Notifications[0].BackendID)
	assert.Equal(t, types.NotificationWarning, out.Notifications[0].Type)
	assert.Equal(t, "n2", out.Notifications[1].BackendID)
	assert.Equal(t, types.NotificationInfo, out.Notifications[1].Type)
	assert.Nil(t, out.Parcel)
}
