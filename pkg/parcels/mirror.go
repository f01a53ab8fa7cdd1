// Package parcels mirrors the server-side parcel records the active session
// is looking at, plus the one record currently selected for detail view.
package parcels

import (
	"sync"

	"github.com/parceltrack/parceltrack/pkg/types"
)

// Mirror is a client-side copy of parcel records keyed by id. Updates
// replace whole records; there is no field-level merge. It is safe for
// concurrent use.
type Mirror struct {
	mu       sync.RWMutex
	items    []types.Parcel
	selected *types.Parcel
}

// New creates an empty mirror.
func New() *Mirror {
	return &Mirror{}
}

// SetAll replaces the collection. The selection is refreshed from the new
// collection when it contains the selected id.
func (m *Mirror) SetAll(records []types.Parcel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = append([]types.Parcel(nil), records...)
	if m.selected != nil {
		if i := m.find(m.selected.ID); i >= 0 {
			p := m.items[i]
			m.selected = &p
		}
	}
}

// Add prepends a record, replacing any existing record with the same id.
func (m *Mirror) Add(p types.Parcel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.find(p.ID); i >= 0 {
		m.items = append(m.items[:i], m.items[i+1:]...)
	}
	m.items = append([]types.Parcel{p}, m.items...)
	m.syncSelected(p)
}

// Upsert replaces the record with the same id in place, or prepends it when
// absent. It reports whether the record was inserted.
func (m *Mirror) Upsert(p types.Parcel) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.syncSelected(p)
	if i := m.find(p.ID); i >= 0 {
		m.items[i] = p
		return false
	}
	m.items = append([]types.Parcel{p}, m.items...)
	return true
}

// Update replaces the record with the same id and reports whether one was
// present. Absent records are not inserted, but a matching selection is
// still refreshed.
func (m *Mirror) Update(p types.Parcel) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.syncSelected(p)
	if i := m.find(p.ID); i >= 0 {
		m.items[i] = p
		return true
	}
	return false
}

// Remove deletes the record with the given id and clears a matching
// selection.
func (m *Mirror) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selected != nil && m.selected.ID == id {
		m.selected = nil
	}
	i := m.find(id)
	if i < 0 {
		return false
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return true
}

// Select makes p the currently viewed record. It need not be part of the
// collection (for example a parcel fetched by tracking number).
func (m *Mirror) Select(p types.Parcel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = &p
}

// SelectID selects the collection record with the given id.
func (m *Mirror) SelectID(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return false
	}
	p := m.items[i]
	m.selected = &p
	return true
}

// ClearSelection drops the selected record.
func (m *Mirror) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = nil
}

// Selected returns the selected record.
func (m *Mirror) Selected() (types.Parcel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.selected == nil {
		return types.Parcel{}, false
	}
	return *m.selected, true
}

// Get returns the record with the given id.
func (m *Mirror) Get(id string) (types.Parcel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.find(id); i >= 0 {
		return m.items[i], true
	}
	return types.Parcel{}, false
}

// GetByTrackingNumber returns the record with the given tracking number.
func (m *Mirror) GetByTrackingNumber(tn string) (types.Parcel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.items {
		if p.TrackingNumber == tn {
			return p, true
		}
	}
	return types.Parcel{}, false
}

// List returns a copy of the collection in display order.
func (m *Mirror) List() []types.Parcel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]types.Parcel(nil), m.items...)
}

// Len returns the number of records.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Clear drops every record and the selection.
func (m *Mirror) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.selected = nil
}

func (m *Mirror) find(id string) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

// syncSelected must be called with m.mu held.
func (m *Mirror) syncSelected(p types.Parcel) {
	if m.selected != nil && m.selected.ID == p.ID {
		m.selected = &p
	}
}
