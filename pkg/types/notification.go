package types

import (
	"encoding/json"
	"time"
)

// NotificationType drives how a notification is rendered.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Normalize returns t when it is a known type and info otherwise.
func (t NotificationType) Normalize() NotificationType {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return t
	}
	return NotificationInfo
}

// Notification is one user-visible message in the notification store.
type Notification struct {
	// ID is unique within the store. Equal to BackendID when the record
	// came from the backend.
	ID        string           `json:"id"`
	BackendID string           `json:"_id,omitempty"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}

// UnmarshalJSON accepts backend history records, which carry "_id" and
// "createdAt" instead of "id" and "timestamp".
func (n *Notification) UnmarshalJSON(data []byte) error {
	type plain Notification
	var aux struct {
		plain
		CreatedAt time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*n = Notification(aux.plain)
	if n.Timestamp.IsZero() {
		n.Timestamp = aux.CreatedAt
	}
	n.Type = n.Type.Normalize()
	return nil
}

// NotificationInput is what producers hand to the notification store. ID,
// read state and (when zero) the timestamp are assigned on insert.
type NotificationInput struct {
	BackendID string
	Message   string
	Type      NotificationType
	Timestamp time.Time
}
