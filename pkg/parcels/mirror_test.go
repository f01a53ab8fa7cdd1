package parcels_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceltrack/parceltrack/pkg/parcels"
	"github.com/parceltrack/parceltrack/pkg/types"
)

func parcel(id, tn string, status types.ParcelStatus) types.Parcel {
	return types.Parcel{ID: id, TrackingNumber: tn, Status: status, Sender: types.Ref{ID: "u1"}}
}

func TestUpsert(t *testing.T) {
	m := parcels.New()
	m.SetAll([]types.Parcel{parcel("p1", "TRK1", types.StatusPending), parcel("p2", "TRK2", types.StatusPending)})

	t.Run("replaces in place", func(t *testing.T) {
		updated := parcel("p2", "TRK2", types.StatusInTransit)
		updated.Description = ""
		assert.False(t, m.Upsert(updated))

		list := m.List()
		require.Len(t, list, 2)
		assert.Equal(t, "p2", list[1].ID, "position is preserved")
		assert.Equal(t, types.StatusInTransit, list[1].Status)
	})

	t.Run("wholesale replacement drops fields", func(t *testing.T) {
		withDesc := parcel("p1", "TRK1", types.StatusPending)
		withDesc.Description = "books"
		m.Upsert(withDesc)
		m.Upsert(parcel("p1", "TRK1", types.StatusPickedUp))

		got, ok := m.Get("p1")
		require.True(t, ok)
		assert.Empty(t, got.Description)
		assert.Equal(t, types.StatusPickedUp, got.Status)
	})

	t.Run("inserts when absent", func(t *testing.T) {
		assert.True(t, m.Upsert(parcel("p3", "TRK3", types.StatusPending)))
		assert.Equal(t, "p3", m.List()[0].ID)
		assert.Equal(t, 3, m.Len())
	})

	t.Run("last writer wins", func(t *testing.T) {
		m.Upsert(parcel("p3", "TRK3", types.StatusDelivered))
		m.Upsert(parcel("p3", "TRK3", types.StatusInTransit))
		got, _ := m.Get("p3")
		assert.Equal(t, types.StatusInTransit, got.Status)
	})
}

func TestUpdateDoesNotInsert(t *testing.T) {
	m := parcels.New()
	assert.False(t, m.Update(parcel("p1", "TRK1", types.StatusPending)))
	assert.Equal(t, 0, m.Len())

	m.Add(parcel("p1", "TRK1", types.StatusPending))
	assert.True(t, m.Update(parcel("p1", "TRK1", types.StatusFailed)))
	got, _ := m.Get("p1")
	assert.Equal(t, types.StatusFailed, got.Status)
}

func TestSelectionFollowsUpdates(t *testing.T) {
	m := parcels.New()
	m.SetAll([]types.Parcel{parcel("p1", "TRK1", types.StatusPending)})
	require.True(t, m.SelectID("p1"))

	m.Upsert(parcel("p1", "TRK1", types.StatusDelivered))
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, types.StatusDelivered, sel.Status)

	t.Run("selection outside the collection", func(t *testing.T) {
		m.Select(parcel("p9", "TRK9", types.StatusPending))
		assert.False(t, m.Update(parcel("p9", "TRK9", types.StatusInTransit)))
		sel, _ := m.Selected()
		assert.Equal(t, types.StatusInTransit, sel.Status)
	})

	t.Run("other records leave selection alone", func(t *testing.T) {
		m.Upsert(parcel("p1", "TRK1", types.StatusFailed))
		sel, _ := m.Selected()
		assert.Equal(t, "p9", sel.ID)
	})

	t.Run("clear selection", func(t *testing.T) {
		m.ClearSelection()
		_, ok := m.Selected()
		assert.False(t, ok)
		assert.False(t, m.SelectID("missing"))
	})
}

func TestAddAndRemove(t *testing.T) {
	m := parcels.New()
	m.Add(parcel("p1", "TRK1", types.StatusPending))
	m.Add(parcel("p2", "TRK2", types.StatusPending))
	m.Add(parcel("p1", "TRK1", types.StatusPickedUp))

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "p1", list[0].ID)

	got, ok := m.GetByTrackingNumber("TRK2")
	require.True(t, ok)
	assert.Equal(t, "p2", got.ID)

	m.SelectID("p2")
	assert.True(t, m.Remove("p2"))
	assert.False(t, m.Remove("p2"))
	_, ok = m.Selected()
	assert.False(t, ok)

	m.Clear()
	assert.Equal(t, 0, m.Len())
}
