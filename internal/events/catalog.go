// Package events routes live server events into client state. It owns the
// event catalog, validates and decodes every inbound payload, decides who
// an event is for and turns it into typed state actions.
package events

// Name is a Socket.IO event name from the fixed catalog.
type Name string

// Inbound events pushed by the server.
const (
	NotificationsPending  Name = "notifications:pending"
	ParcelStatusUpdated   Name = "parcel:status-updated"
	ParcelAssigned        Name = "parcel:assigned"
	ParcelPickedUp        Name = "parcel:picked-up"
	ParcelDelivered       Name = "parcel:delivered"
	ParcelLocationUpdated Name = "parcel:location-updated"
	ParcelNewBooking      Name = "parcel:new-booking"
	PaymentReceived       Name = "payment:received"
	ParcelFailed          Name = "parcel:failed"
	AgentOnlineStatus     Name = "agent:online-status"
	RouteUpdated          Name = "route:updated"
	ParcelUrgent          Name = "parcel:urgent"
	CustomerInquiry       Name = "customer:inquiry"
	SystemAlert           Name = "system:alert"
	NotificationNew       Name = "notification:new"

	// NotificationSent echoes an email/SMS dispatch; it is only logged.
	NotificationSent Name = "notification:sent"
)

// Outbound events emitted by the client.
const (
	UpdateStatus   Name = "parcel:update-status"
	UpdateLocation Name = "parcel:update-location"
	AgentStatus    Name = "agent:status"
	SendInquiry    Name = "customer:inquiry"
)

// String returns the wire name.
func (n Name) String() string {
	return string(n)
}

// binding ties an inbound event to its schema definition and payload shape.
type binding struct {
	def string
	new func() any
}

var catalog = map[Name]binding{
	NotificationsPending:  {"pendingEvent", func() any { return new(PendingEvent) }},
	ParcelStatusUpdated:   {"parcelEvent", func() any { return new(ParcelEvent) }},
	ParcelAssigned:        {"assignedEvent", func() any { return new(AssignedEvent) }},
	ParcelPickedUp:        {"parcelEvent", func() any { return new(ParcelEvent) }},
	ParcelDelivered:       {"parcelEvent", func() any { return new(ParcelEvent) }},
	ParcelLocationUpdated: {"parcelEvent", func() any { return new(ParcelEvent) }},
	ParcelNewBooking:      {"parcelEvent", func() any { return new(ParcelEvent) }},
	PaymentReceived:       {"paymentEvent", func() any { return new(PaymentEvent) }},
	ParcelFailed:          {"failedEvent", func() any { return new(FailedEvent) }},
	AgentOnlineStatus:     {"agentStatusEvent", func() any { return new(AgentStatusEvent) }},
	RouteUpdated:          {"routeEvent", func() any { return new(RouteEvent) }},
	ParcelUrgent:          {"urgentEvent", func() any { return new(UrgentEvent) }},
	CustomerInquiry:       {"inquiryEvent", func() any { return new(InquiryEvent) }},
	SystemAlert:           {"alertEvent", func() any { return new(AlertEvent) }},
	NotificationNew:       {"notificationEvent", func() any { return new(NotificationEvent) }},
	NotificationSent:      {"sentEvent", func() any { return new(SentEvent) }},
}

// Inbound lists every inbound event in catalog order.
func Inbound() []Name {
	return []Name{
		NotificationsPending,
		ParcelStatusUpdated,
		ParcelAssigned,
		ParcelPickedUp,
		ParcelDelivered,
		ParcelLocationUpdated,
		ParcelNewBooking,
		PaymentReceived,
		ParcelFailed,
		AgentOnlineStatus,
		RouteUpdated,
		ParcelUrgent,
		CustomerInquiry,
		SystemAlert,
		NotificationNew,
		NotificationSent,
	}
}
