package parceltrack

import (
	"sync"

	"github.com/parceltrack/parceltrack/pkg/state"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Hook function types for client events. Hooks run synchronously on the
// goroutine that changed the state, which for live events is the
// connection's read goroutine; a slow hook delays the next event.
type (
	// NotificationHook is called when a notification is inserted
	NotificationHook func(n types.Notification)

	// ParcelHook is called when a parcel record is written to the mirror
	ParcelHook func(p types.Parcel)

	// SessionHook is called when the session starts or ends; sess is nil
	// after logout
	SessionHook func(sess *types.Session)
)

// Hooks provides event callback registration.
type Hooks interface {
	OnNotification(fn NotificationHook)
	OnParcelUpdated(fn ParcelHook)
	OnSessionChanged(fn SessionHook)
}

// hooks manages event callbacks for state changes
type hooks struct {
	mu               sync.RWMutex
	onNotification   []NotificationHook
	onParcelUpdated  []ParcelHook
	onSessionChanged []SessionHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnNotification registers a callback for inserted notifications
func (h *hooks) OnNotification(fn NotificationHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onNotification = append(h.onNotification, fn)
}

// OnParcelUpdated registers a callback for parcel mirror writes
func (h *hooks) OnParcelUpdated(fn ParcelHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onParcelUpdated = append(h.onParcelUpdated, fn)
}

// OnSessionChanged registers a callback for session start and end
func (h *hooks) OnSessionChanged(fn SessionHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSessionChanged = append(h.onSessionChanged, fn)
}

// trigger fans one applied state change out to the matching hooks
func (h *hooks) trigger(c state.Change) {
	if !c.Applied {
		return
	}

	h.mu.RLock()
	notificationHooks := h.onNotification
	parcelHooks := h.onParcelUpdated
	sessionHooks := h.onSessionChanged
	h.mu.RUnlock()

	if c.Notification != nil {
		for _, fn := range notificationHooks {
			fn(*c.Notification)
		}
	}
	if c.Parcel != nil {
		for _, fn := range parcelHooks {
			fn(*c.Parcel)
		}
	}
	switch a := c.Action.(type) {
	case state.SetSession:
		sess := a.Session
		for _, fn := range sessionHooks {
			fn(&sess)
		}
	case state.EndSession:
		for _, fn := range sessionHooks {
			fn(nil)
		}
	}
}
