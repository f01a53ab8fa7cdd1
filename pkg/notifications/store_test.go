package notifications_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceltrack/parceltrack/pkg/notifications"
	"github.com/parceltrack/parceltrack/pkg/types"
)

func newTestStore() *notifications.Store {
	seq := 0
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return notifications.New(
		notifications.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("gen-%d", seq)
		}),
		notifications.WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
	)
}

func at(minute int) time.Time {
	return time.Date(2024, 6, 1, 12, minute, 0, 0, time.UTC)
}

func TestInsert(t *testing.T) {
	s := newTestStore()

	first, ok := s.Insert(types.NotificationInput{Message: "one"})
	require.True(t, ok)
	second, ok := s.Insert(types.NotificationInput{BackendID: "b1", Message: "two", Type: types.NotificationSuccess})
	require.True(t, ok)

	assert.Equal(t, "gen-1", first.ID)
	assert.Equal(t, types.NotificationInfo, first.Type)
	assert.False(t, first.Read)
	assert.Equal(t, "b1", second.ID)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b1", list[0].ID, "inserts are prepended")
	assert.Equal(t, 2, s.UnreadCount())

	t.Run("duplicate backend id is ignored", func(t *testing.T) {
		existing, ok := s.Insert(types.NotificationInput{BackendID: "b1", Message: "again"})
		assert.False(t, ok)
		assert.Equal(t, "two", existing.Message)
		assert.Equal(t, 2, s.Len())
	})
}

func TestMarkRead(t *testing.T) {
	s := newTestStore()
	n, _ := s.Insert(types.NotificationInput{Message: "x"})

	assert.True(t, s.MarkRead(n.ID))
	assert.Equal(t, 0, s.UnreadCount())

	assert.False(t, s.MarkRead(n.ID), "second mark is a no-op")
	assert.False(t, s.MarkRead("missing"))
	assert.Equal(t, 0, s.UnreadCount())
}

func TestMarkAllReadAndClear(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 3; i++ {
		s.Insert(types.NotificationInput{Message: fmt.Sprint(i)})
	}
	assert.Equal(t, 3, s.MarkAllRead())
	assert.Equal(t, 0, s.UnreadCount())
	assert.Equal(t, 0, s.MarkAllRead())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.UnreadCount())
}

func TestReplaceAllVersusMergeLoad(t *testing.T) {
	s := newTestStore()
	s.Insert(types.NotificationInput{BackendID: "A", Message: "a", Timestamp: at(1)})
	s.Insert(types.NotificationInput{BackendID: "B", Message: "b", Timestamp: at(2)})
	require.True(t, s.MarkRead("A"))

	t.Run("merge keeps local state and adds only new ids", func(t *testing.T) {
		added := s.MergeLoad([]types.Notification{
			{BackendID: "B", Message: "b from server", Timestamp: at(2)},
			{BackendID: "C", Message: "c", Timestamp: at(3)},
		})
		assert.Equal(t, 1, added)

		ids := idsOf(s.List())
		assert.Equal(t, []string{"C", "B", "A"}, ids)

		b, _ := s.Get("B")
		assert.Equal(t, "b", b.Message, "existing record is not overwritten")
		a, _ := s.Get("A")
		assert.True(t, a.Read)
		assert.Equal(t, 2, s.UnreadCount())
	})

	t.Run("replace discards everything", func(t *testing.T) {
		s.ReplaceAll([]types.Notification{
			{BackendID: "B", Message: "b", Timestamp: at(2), Read: true},
			{BackendID: "C", Message: "c", Timestamp: at(3)},
		})
		assert.Equal(t, []string{"B", "C"}, idsOf(s.List()), "replace keeps the given order")
		_, ok := s.Get("A")
		assert.False(t, ok)
		assert.Equal(t, 1, s.UnreadCount())
	})
}

func TestReplaceAllNormalizes(t *testing.T) {
	s := newTestStore()
	s.ReplaceAll([]types.Notification{
		{ID: "local", Message: "kept id"},
		{Message: "needs id", Type: "weird"},
		{BackendID: "dup", Message: "first"},
		{BackendID: "dup", Message: "second"},
	})

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "local", list[0].ID)
	assert.Equal(t, "gen-1", list[1].ID)
	assert.Equal(t, types.NotificationInfo, list[1].Type)
	assert.False(t, list[1].Timestamp.IsZero())
	assert.Equal(t, "first", list[2].Message)
}

func TestFilter(t *testing.T) {
	s := newTestStore()
	a, _ := s.Insert(types.NotificationInput{Message: "a"})
	s.Insert(types.NotificationInput{Message: "b"})
	s.MarkRead(a.ID)

	assert.Len(t, s.Filter(notifications.FilterAll), 2)
	assert.Len(t, s.Filter(notifications.FilterUnread), 1)
	read := s.Filter(notifications.FilterRead)
	require.Len(t, read, 1)
	assert.Equal(t, a.ID, read[0].ID)
}

func TestListIsACopy(t *testing.T) {
	s := newTestStore()
	s.Insert(types.NotificationInput{Message: "a"})
	list := s.List()
	list[0].Read = true
	assert.Equal(t, 1, s.UnreadCount())
}

// The unread count must match the records after any operation sequence.
func TestUnreadCountMatchesRecords(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := newTestStore()

	for step := 0; step < 2000; step++ {
		switch rng.Intn(6) {
		case 0, 1:
			in := types.NotificationInput{Message: "m"}
			if rng.Intn(2) == 0 {
				in.BackendID = fmt.Sprintf("b%d", rng.Intn(50))
			}
			s.Insert(in)
		case 2:
			list := s.List()
			if len(list) > 0 {
				s.MarkRead(list[rng.Intn(len(list))].ID)
			}
		case 3:
			if rng.Intn(10) == 0 {
				s.MarkAllRead()
			}
		case 4:
			batch := make([]types.Notification, rng.Intn(5))
			for i := range batch {
				batch[i] = types.Notification{BackendID: fmt.Sprintf("b%d", rng.Intn(50)), Read: rng.Intn(2) == 0, Timestamp: at(rng.Intn(60))}
			}
			if rng.Intn(2) == 0 {
				s.MergeLoad(batch)
			} else {
				s.ReplaceAll(batch)
			}
		case 5:
			if rng.Intn(20) == 0 {
				s.Clear()
			}
		}

		want := 0
		seen := map[string]bool{}
		for _, n := range s.List() {
			require.False(t, seen[n.ID], "duplicate id %s at step %d", n.ID, step)
			seen[n.ID] = true
			if !n.Read {
				want++
			}
		}
		require.Equal(t, want, s.UnreadCount(), "step %d", step)
	}
}

func TestBadge(t *testing.T) {
	assert.Equal(t, "", notifications.Badge(0))
	assert.Equal(t, "3", notifications.Badge(3))
	assert.Equal(t, "9", notifications.Badge(9))
	assert.Equal(t, "9+", notifications.Badge(12))
}

func idsOf(list []types.Notification) []string {
	ids := make([]string, len(list))
	for i, n := range list {
		ids[i] = n.ID
	}
	return ids
}
