package types

import "time"

// ParcelStatus is the lifecycle stage of a parcel. Transitions are not
// checked client side; the last server snapshot wins.
type ParcelStatus string

const (
	StatusPending   ParcelStatus = "pending"
	StatusPickedUp  ParcelStatus = "picked_up"
	StatusInTransit ParcelStatus = "in_transit"
	StatusDelivered ParcelStatus = "delivered"
	StatusFailed    ParcelStatus = "failed"
)

// ParcelStatuses lists every known status in lifecycle order.
var ParcelStatuses = []ParcelStatus{StatusPending, StatusPickedUp, StatusInTransit, StatusDelivered, StatusFailed}

// Valid reports whether s is a known status.
func (s ParcelStatus) Valid() bool {
	for _, known := range ParcelStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentType is how a parcel is paid for.
type PaymentType string

const (
	PaymentCOD     PaymentType = "cod"
	PaymentPrepaid PaymentType = "prepaid"
)

// PaymentStatus tracks collection of the parcel cost.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// Location is a GeoJSON point; Coordinates are [lng, lat].
type Location struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewPoint builds a GeoJSON point from latitude and longitude.
func NewPoint(lat, lng float64) *Location {
	return &Location{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

// Lat returns the latitude.
func (l Location) Lat() float64 { return l.Coordinates[1] }

// Lng returns the longitude.
func (l Location) Lng() float64 { return l.Coordinates[0] }

// Parcel is a full server snapshot of one shipment.
type Parcel struct {
	ID               string        `json:"_id"`
	TrackingNumber   string        `json:"trackingNumber"`
	Sender           Ref           `json:"sender"`
	Agent            *Ref          `json:"agent,omitempty"`
	PickupAddress    string        `json:"pickupAddress"`
	RecipientAddress string        `json:"recipientAddress"`
	RecipientName    string        `json:"recipientName"`
	RecipientPhone   string        `json:"recipientPhone"`
	Weight           float64       `json:"weight"`
	Cost             float64       `json:"cost"`
	Description      string        `json:"description,omitempty"`
	Status           ParcelStatus  `json:"status"`
	CurrentLocation  *Location     `json:"currentLocation,omitempty"`
	PaymentType      PaymentType   `json:"paymentType,omitempty"`
	PaymentStatus    PaymentStatus `json:"paymentStatus,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// SenderID returns the normalized sender id.
func (p Parcel) SenderID() string {
	return RefID(p.Sender)
}

// AgentID returns the normalized assigned agent id, or "" when unassigned.
func (p Parcel) AgentID() string {
	return RefID(p.Agent)
}
