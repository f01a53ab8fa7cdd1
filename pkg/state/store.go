// Package state is the application state container of the parceltrack
// client. All mutations go through Dispatch with a typed Action; renderers
// read snapshots and subscribe to the resulting changes.
package state

import (
	"slices"
	"sync"

	"github.com/parceltrack/parceltrack/pkg/notifications"
	"github.com/parceltrack/parceltrack/pkg/parcels"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// State is a point-in-time copy of everything a renderer needs.
type State struct {
	Session       *types.Session
	Notifications []types.Notification
	UnreadCount   int
	Parcels       []types.Parcel
	Selected      *types.Parcel
	Loading       bool
}

// Change describes the effect of one dispatched action.
type Change struct {
	Action Action

	// Applied is false when the action left the state unchanged, such as
	// marking an already read notification.
	Applied bool

	// Notification is set when a notification was inserted.
	Notification *types.Notification

	// Parcel is set when a parcel record was written.
	Parcel *types.Parcel
}

// Listener observes dispatched actions. Listeners run on the dispatching
// goroutine after the state lock is released, so they may dispatch.
type Listener func(Change)

// Store owns the session, notification and parcel state of one client.
type Store struct {
	mu      sync.Mutex
	session *types.Session
	loading bool

	notifications *notifications.Store
	parcels       *parcels.Mirror

	lmu       sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// New creates a store. Options are passed through to the notification store.
func New(opts ...notifications.Option) *Store {
	return &Store{
		notifications: notifications.New(opts...),
		parcels:       parcels.New(),
		listeners:     make(map[int]Listener),
	}
}

// Dispatch applies an action and notifies listeners.
func (s *Store) Dispatch(a Action) Change {
	s.mu.Lock()
	change := a.reduce(s)
	s.mu.Unlock()

	change.Action = a
	s.lmu.RLock()
	ls := make([]Listener, 0, len(s.listeners))
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		ls = append(ls, s.listeners[id])
	}
	s.lmu.RUnlock()

	for _, l := range ls {
		l(change)
	}
	return change
}

// Subscribe registers a listener and returns a function that removes it.
// Listeners are called in registration order.
func (s *Store) Subscribe(l Listener) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			defer s.lmu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Notifications: s.notifications.List(),
		UnreadCount:   s.notifications.UnreadCount(),
		Parcels:       s.parcels.List(),
		Loading:       s.loading,
	}
	if s.session != nil {
		sess := *s.session
		st.Session = &sess
	}
	if p, ok := s.parcels.Selected(); ok {
		st.Selected = &p
	}
	return st
}

// Session returns the active session.
func (s *Store) Session() (types.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return types.Session{}, false
	}
	return *s.session, true
}

// Notifications exposes the notification store for reads.
func (s *Store) Notifications() *notifications.Store {
	return s.notifications
}

// Parcels exposes the parcel mirror for reads.
func (s *Store) Parcels() *parcels.Mirror {
	return s.parcels
}
