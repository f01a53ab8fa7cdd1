package events

import (
	"time"

	"github.com/parceltrack/parceltrack/pkg/types"
)

// ParcelEvent carries a full parcel snapshot. Used by status-updated,
// picked-up, delivered, location-updated and new-booking.
type ParcelEvent struct {
	Parcel types.Parcel `json:"parcel"`
}

// AssignedEvent announces an agent assignment.
type AssignedEvent struct {
	Parcel  types.Parcel `json:"parcel"`
	AgentID types.Ref    `json:"agentId"`
}

// PaymentEvent reports a cash-on-delivery collection.
type PaymentEvent struct {
	Parcel types.Parcel `json:"parcel"`
	Amount float64      `json:"amount"`
}

// FailedEvent reports a failed delivery attempt.
type FailedEvent struct {
	Parcel types.Parcel `json:"parcel"`
	Reason string       `json:"reason"`
}

// UrgentEvent flags a priority delivery.
type UrgentEvent struct {
	Parcel   types.Parcel `json:"parcel"`
	Priority string       `json:"priority"`
}

// PendingEvent replays notifications queued while the user was offline.
type PendingEvent struct {
	Count         int                   `json:"count"`
	Notifications []PendingNotification `json:"notifications"`
}

// PendingNotification is one queued notification.
type PendingNotification struct {
	MongoID   string                 `json:"_id"`
	ID        string                 `json:"id"`
	Message   string                 `json:"message"`
	Type      types.NotificationType `json:"type"`
	CreatedAt time.Time              `json:"createdAt"`
}

// BackendID returns the server id under either key.
func (n PendingNotification) BackendID() string {
	if n.MongoID != "" {
		return n.MongoID
	}
	return n.ID
}

// AgentStatusEvent reports an agent going on or offline.
type AgentStatusEvent struct {
	AgentID   types.Ref `json:"agentId"`
	IsOnline  bool      `json:"isOnline"`
	AgentName string    `json:"agentName"`
}

// RouteEvent reports a recomputed delivery route.
type RouteEvent struct {
	RouteID      string `json:"routeId"`
	ParcelsCount int    `json:"parcelsCount"`
}

// InquiryEvent relays a customer question about a parcel.
type InquiryEvent struct {
	CustomerID types.Ref `json:"customerId"`
	ParcelID   string    `json:"parcelId"`
	Message    string    `json:"message"`
}

// AlertEvent is an operational alert for admins.
type AlertEvent struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

// NotificationEvent is a direct notification, optionally addressed.
type NotificationEvent struct {
	Message string                 `json:"message"`
	Type    types.NotificationType `json:"type"`
	UserID  types.Ref              `json:"userId"`
}

// SentEvent echoes an email or SMS dispatch.
type SentEvent struct {
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
}

// StatusUpdate is the payload of UpdateStatus.
type StatusUpdate struct {
	ParcelID string             `json:"parcelId"`
	Status   types.ParcelStatus `json:"status"`
}

// LatLng is a plain coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationUpdate is the payload of UpdateLocation.
type LocationUpdate struct {
	ParcelID string `json:"parcelId"`
	Location LatLng `json:"location"`
}

// AgentPresence is the payload of AgentStatus.
type AgentPresence struct {
	IsOnline bool `json:"isOnline"`
}

// Inquiry is the payload of SendInquiry.
type Inquiry struct {
	ParcelID string `json:"parcelId"`
	Message  string `json:"message"`
}
