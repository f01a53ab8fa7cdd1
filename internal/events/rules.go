package events

import (
	"fmt"
	"strconv"

	"github.com/parceltrack/parceltrack/pkg/types"
)

// Outcome is what one inbound event means for the active session.
type Outcome struct {
	// Parcel is the snapshot to write into the mirror, if any.
	Parcel *types.Parcel

	// Relevant parcels are upserted; others only refresh a mirrored copy.
	Relevant bool

	// Notifications to insert, in order.
	Notifications []types.NotificationInput
}

// Route decides what a decoded payload means for sess. It has no side
// effects.
func Route(sess types.Session, name Name, payload any) Outcome {
	me := sess.UserID()
	role := sess.Role()

	var out Outcome
	notify := func(typ types.NotificationType, format string, args ...any) {
		out.Notifications = append(out.Notifications, types.NotificationInput{
			Message: fmt.Sprintf(format, args...),
			Type:    typ,
		})
	}
	mirror := func(p types.Parcel, extra bool) {
		out.Parcel = &p
		out.Relevant = extra || concerns(sess, p)
	}

	switch ev := payload.(type) {
	case *PendingEvent:
		for _, n := range ev.Notifications {
			out.Notifications = append(out.Notifications, types.NotificationInput{
				BackendID: n.BackendID(),
				Message:   n.Message,
				Type:      n.Type.Normalize(),
				Timestamp: n.CreatedAt,
			})
		}

	case *ParcelEvent:
		p := ev.Parcel
		tn := p.TrackingNumber
		mirror(p, false)
		switch name {
		case ParcelStatusUpdated:
			switch {
			case role == types.RoleCustomer && p.SenderID() == me:
				notify(types.NotificationInfo, "Your parcel %s status updated to %s", tn, p.Status)
			case role == types.RoleAgent && p.AgentID() == me, role == types.RoleAdmin:
				notify(types.NotificationInfo, "Parcel %s status updated to %s", tn, p.Status)
			}
		case ParcelPickedUp:
			switch {
			case role == types.RoleCustomer && p.SenderID() == me:
				notify(types.NotificationInfo, "Your parcel %s has been picked up", tn)
			case role == types.RoleAdmin:
				notify(types.NotificationInfo, "Parcel %s picked up", tn)
			}
		case ParcelDelivered:
			switch {
			case role == types.RoleCustomer && p.SenderID() == me:
				notify(types.NotificationSuccess, "Your parcel %s has been delivered successfully! 🎉", tn)
			case role == types.RoleAgent && p.AgentID() == me:
				notify(types.NotificationSuccess, "Parcel %s marked as delivered", tn)
			case role == types.RoleAdmin:
				notify(types.NotificationSuccess, "Parcel %s delivered", tn)
			}
		case ParcelLocationUpdated:
			if role == types.RoleCustomer && p.SenderID() == me {
				notify(types.NotificationInfo, "Location updated for parcel %s", tn)
			}
		case ParcelNewBooking:
			if role == types.RoleAdmin {
				notify(types.NotificationSuccess, "New parcel booking: %s", tn)
			}
		}

	case *AssignedEvent:
		p := ev.Parcel
		assignedToMe := role == types.RoleAgent && types.RefID(ev.AgentID) == me
		mirror(p, assignedToMe)
		switch {
		case assignedToMe:
			notify(types.NotificationSuccess, "New parcel %s assigned to you", p.TrackingNumber)
		case role == types.RoleAdmin:
			notify(types.NotificationInfo, "Parcel %s assigned to agent", p.TrackingNumber)
		}

	case *PaymentEvent:
		p := ev.Parcel
		mirror(p, false)
		amount := strconv.FormatFloat(ev.Amount, 'f', -1, 64)
		switch {
		case role == types.RoleAdmin:
			notify(types.NotificationSuccess, "COD payment received for %s: $%s", p.TrackingNumber, amount)
		case role == types.RoleAgent && p.AgentID() == me:
			notify(types.NotificationSuccess, "COD payment collected: $%s", amount)
		}

	case *FailedEvent:
		p := ev.Parcel
		mirror(p, false)
		suffix := ""
		if ev.Reason != "" {
			suffix = ": " + ev.Reason
		}
		switch {
		case role == types.RoleAdmin:
			notify(types.NotificationError, "Parcel %s delivery failed%s", p.TrackingNumber, suffix)
		case role == types.RoleCustomer && p.SenderID() == me:
			notify(types.NotificationWarning, "Delivery attempt failed for parcel %s%s", p.TrackingNumber, suffix)
		case role == types.RoleAgent && p.AgentID() == me:
			notify(types.NotificationError, "Delivery failed for %s%s", p.TrackingNumber, suffix)
		}

	case *UrgentEvent:
		p := ev.Parcel
		mirror(p, false)
		switch {
		case role == types.RoleAgent && p.AgentID() == me:
			notify(types.NotificationWarning, "URGENT: Priority delivery for %s", p.TrackingNumber)
		case role == types.RoleAdmin:
			notify(types.NotificationWarning, "Urgent parcel: %s", p.TrackingNumber)
		}

	case *AgentStatusEvent:
		if role == types.RoleAdmin {
			who := ev.AgentName
			if who == "" {
				who = types.RefID(ev.AgentID)
			}
			state := "offline"
			if ev.IsOnline {
				state = "online"
			}
			notify(types.NotificationInfo, "Agent %s is now %s", who, state)
		}

	case *RouteEvent:
		if role == types.RoleAgent {
			notify(types.NotificationInfo, "Your delivery route has been updated (%d parcels)", ev.ParcelsCount)
		}

	case *InquiryEvent:
		if role == types.RoleAdmin || role == types.RoleAgent {
			notify(types.NotificationInfo, "New customer inquiry about parcel")
		}

	case *AlertEvent:
		if role == types.RoleAdmin {
			notify(alertType(ev.Level), "%s", ev.Message)
		}

	case *NotificationEvent:
		if to := types.RefID(ev.UserID); to == "" || to == me {
			notify(ev.Type.Normalize(), "%s", ev.Message)
		}
	}
	return out
}

// concerns reports whether p belongs to the session's working set.
func concerns(sess types.Session, p types.Parcel) bool {
	switch sess.Role() {
	case types.RoleAdmin:
		return true
	case types.RoleCustomer:
		return p.SenderID() == sess.UserID()
	case types.RoleAgent:
		return p.AgentID() == sess.UserID()
	}
	return false
}

func alertType(level string) types.NotificationType {
	switch level {
	case "info":
		return types.NotificationInfo
	case "warning":
		return types.NotificationWarning
	}
	return types.NotificationError
}
