// Package notifications holds the user-visible notification list of the
// active session. Records are ordered most recent first and the unread
// count is always derived from the records themselves.
package notifications

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parceltrack/parceltrack/pkg/types"
)

// Filter selects a subset of the list for display.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
	FilterRead   Filter = "read"
)

// Store is an ordered, deduplicated notification list. It is safe for
// concurrent use.
type Store struct {
	mu    sync.RWMutex
	items []types.Notification
	index map[string]int

	newID func() string
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides how ids are generated for records that do not
// carry a backend id.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the time source used for insert timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		index: make(map[string]int),
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert prepends a new unread record. The backend id is used as the record
// id when present. If a record with that id already exists the store is
// left unchanged and the existing record is returned with false.
func (s *Store) Insert(in types.NotificationInput) (types.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := in.BackendID
	if id == "" {
		id = s.newID()
	}
	if i, ok := s.index[id]; ok {
		return s.items[i], false
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	n := types.Notification{
		ID:        id,
		BackendID: in.BackendID,
		Message:   in.Message,
		Type:      in.Type.Normalize(),
		Timestamp: ts,
	}
	s.items = append([]types.Notification{n}, s.items...)
	s.reindex()
	return n, true
}

// MarkRead flags one record as read. Unknown ids and records that are
// already read report false and leave the store unchanged.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok || s.items[i].Read {
		return false
	}
	s.items[i].Read = true
	return true
}

// MarkAllRead flags every record as read and returns how many changed.
func (s *Store) MarkAllRead() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i := range s.items {
		if !s.items[i].Read {
			s.items[i].Read = true
			changed++
		}
	}
	return changed
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.index = make(map[string]int)
}

// ReplaceAll discards the current records and installs records in the
// given order, keeping their read flags. Ids fall back to the backend id
// and then to a generated id; a missing timestamp becomes now. Later
// duplicates of an id are dropped.
func (s *Store) ReplaceAll(records []types.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]types.Notification, 0, len(records))
	s.index = make(map[string]int, len(records))
	for _, rec := range records {
		rec = s.normalize(rec)
		if _, dup := s.index[rec.ID]; dup {
			continue
		}
		s.index[rec.ID] = len(s.items)
		s.items = append(s.items, rec)
	}
}

// MergeLoad adds the records whose ids are not already present, re-sorts the
// whole list by timestamp descending and returns how many were added.
// Existing records keep their local read state.
func (s *Store) MergeLoad(records []types.Notification) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, rec := range records {
		rec = s.normalize(rec)
		if _, ok := s.index[rec.ID]; ok {
			continue
		}
		s.index[rec.ID] = len(s.items)
		s.items = append(s.items, rec)
		added++
	}
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].Timestamp.After(s.items[j].Timestamp)
	})
	s.reindex()
	return added
}

// UnreadCount returns the number of records with Read == false.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (types.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return types.Notification{}, false
	}
	return s.items[i], true
}

// List returns a copy of all records, most recent first.
func (s *Store) List() []types.Notification {
	return s.Filter(FilterAll)
}

// Filter returns a copy of the records matching f.
func (s *Store) Filter(f Filter) []types.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Notification, 0, len(s.items))
	for _, n := range s.items {
		switch {
		case f == FilterUnread && n.Read, f == FilterRead && !n.Read:
			continue
		}
		out = append(out, n)
	}
	return out
}

func (s *Store) normalize(rec types.Notification) types.Notification {
	if rec.BackendID != "" {
		rec.ID = rec.BackendID
	}
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now()
	}
	rec.Type = rec.Type.Normalize()
	return rec
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, n := range s.items {
		s.index[n.ID] = i
	}
}
