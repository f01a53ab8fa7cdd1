package state

import "github.com/parceltrack/parceltrack/pkg/types"

// Action is a typed state transition. The set of actions is closed.
type Action interface {
	// Name identifies the action in logs.
	Name() string

	reduce(s *Store) Change
}

// SetSession installs the authenticated session.
type SetSession struct{ Session types.Session }

// EndSession drops the session on logout.
type EndSession struct{}

// AddNotification inserts a new unread notification.
type AddNotification struct{ Input types.NotificationInput }

// MarkRead flags one notification as read.
type MarkRead struct{ ID string }

// MarkAllRead flags every notification as read.
type MarkAllRead struct{}

// ClearNotifications empties the notification list.
type ClearNotifications struct{}

// SetNotifications replaces the notification list with backend history.
type SetNotifications struct{ Records []types.Notification }

// LoadNotifications merges backend history into the list.
type LoadNotifications struct{ Records []types.Notification }

// SetParcels replaces the parcel collection.
type SetParcels struct{ Parcels []types.Parcel }

// AddParcel prepends a newly created parcel.
type AddParcel struct{ Parcel types.Parcel }

// UpsertParcel replaces a parcel or inserts it when absent.
type UpsertParcel struct{ Parcel types.Parcel }

// UpdateParcel replaces a parcel only when it is already mirrored.
type UpdateParcel struct{ Parcel types.Parcel }

// RemoveParcel drops a parcel from the collection.
type RemoveParcel struct{ ID string }

// SelectParcel sets the viewed parcel; nil clears the selection.
type SelectParcel struct{ Parcel *types.Parcel }

// SetLoading toggles the loading indicator.
type SetLoading struct{ Loading bool }

func (SetSession) Name() string         { return "session/set" }
func (EndSession) Name() string         { return "session/end" }
func (AddNotification) Name() string    { return "notifications/add" }
func (MarkRead) Name() string           { return "notifications/markRead" }
func (MarkAllRead) Name() string        { return "notifications/markAllRead" }
func (ClearNotifications) Name() string { return "notifications/clear" }
func (SetNotifications) Name() string   { return "notifications/set" }
func (LoadNotifications) Name() string  { return "notifications/load" }
func (SetParcels) Name() string         { return "parcels/set" }
func (AddParcel) Name() string          { return "parcels/add" }
func (UpsertParcel) Name() string       { return "parcels/upsert" }
func (UpdateParcel) Name() string       { return "parcels/update" }
func (RemoveParcel) Name() string       { return "parcels/remove" }
func (SelectParcel) Name() string       { return "parcels/select" }
func (SetLoading) Name() string         { return "parcels/loading" }

func (a SetSession) reduce(s *Store) Change {
	sess := a.Session
	s.session = &sess
	return Change{Applied: true}
}

func (EndSession) reduce(s *Store) Change {
	applied := s.session != nil
	s.session = nil
	return Change{Applied: applied}
}

func (a AddNotification) reduce(s *Store) Change {
	n, inserted := s.notifications.Insert(a.Input)
	if !inserted {
		return Change{}
	}
	return Change{Applied: true, Notification: &n}
}

func (a MarkRead) reduce(s *Store) Change {
	return Change{Applied: s.notifications.MarkRead(a.ID)}
}

func (MarkAllRead) reduce(s *Store) Change {
	return Change{Applied: s.notifications.MarkAllRead() > 0}
}

func (ClearNotifications) reduce(s *Store) Change {
	s.notifications.Clear()
	return Change{Applied: true}
}

func (a SetNotifications) reduce(s *Store) Change {
	s.notifications.ReplaceAll(a.Records)
	return Change{Applied: true}
}

func (a LoadNotifications) reduce(s *Store) Change {
	return Change{Applied: s.notifications.MergeLoad(a.Records) > 0}
}

func (a SetParcels) reduce(s *Store) Change {
	s.parcels.SetAll(a.Parcels)
	s.loading = false
	return Change{Applied: true}
}

func (a AddParcel) reduce(s *Store) Change {
	s.parcels.Add(a.Parcel)
	p := a.Parcel
	return Change{Applied: true, Parcel: &p}
}

func (a UpsertParcel) reduce(s *Store) Change {
	s.parcels.Upsert(a.Parcel)
	p := a.Parcel
	return Change{Applied: true, Parcel: &p}
}

func (a UpdateParcel) reduce(s *Store) Change {
	if !s.parcels.Update(a.Parcel) {
		return Change{}
	}
	p := a.Parcel
	return Change{Applied: true, Parcel: &p}
}

func (a RemoveParcel) reduce(s *Store) Change {
	return Change{Applied: s.parcels.Remove(a.ID)}
}

func (a SelectParcel) reduce(s *Store) Change {
	if a.Parcel == nil {
		s.parcels.ClearSelection()
	} else {
		s.parcels.Select(*a.Parcel)
	}
	return Change{Applied: true}
}

func (a SetLoading) reduce(s *Store) Change {
	s.loading = a.Loading
	return Change{Applied: true}
}
