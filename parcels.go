package parceltrack

import (
	"context"

	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/state"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Compile-time interface check to ensure proper implementation.
var _ Parcels = (*client)(nil)

// Parcels manages the parcel mirror. Live events keep it current once it
// has been loaded.
type Parcels interface {
	// LoadParcels replaces the mirror with the session's working set:
	// every parcel for admins, assigned parcels for agents and own parcels
	// for customers.
	LoadParcels(ctx context.Context) error

	// Parcels returns the mirrored parcels.
	Parcels() []types.Parcel

	// Parcel returns one mirrored parcel by id.
	Parcel(id string) (types.Parcel, bool)

	// TrackParcel looks a parcel up by tracking number, preferring the
	// mirror, and selects it.
	TrackParcel(ctx context.Context, trackingNumber string) (types.Parcel, error)

	// SelectParcel selects a mirrored parcel; an empty id clears the
	// selection.
	SelectParcel(id string) bool

	// SelectedParcel returns the selected parcel.
	SelectedParcel() (types.Parcel, bool)
}

// LoadParcels fetches the working set.
func (c *client) LoadParcels(ctx context.Context) error {
	sess, ok := c.store.Session()
	if !ok {
		return errors.ErrNoSession
	}

	c.store.Dispatch(state.SetLoading{Loading: true})
	parcels, err := c.api.ParcelsFor(ctx, sess.Role())
	if err != nil {
		c.store.Dispatch(state.SetLoading{Loading: false})
		return err
	}
	c.store.Dispatch(state.SetParcels{Parcels: parcels})
	c.logger.Debug().Int("count", len(parcels)).Msg("Loaded parcels")
	return nil
}

// Parcels returns the mirror contents.
func (c *client) Parcels() []types.Parcel {
	return c.store.Parcels().List()
}

// Parcel returns one mirrored parcel.
func (c *client) Parcel(id string) (types.Parcel, bool) {
	return c.store.Parcels().Get(id)
}

// TrackParcel finds a parcel by tracking number.
func (c *client) TrackParcel(ctx context.Context, trackingNumber string) (types.Parcel, error) {
	if trackingNumber == "" {
		return types.Parcel{}, errors.NewValidationError("tracking_number", trackingNumber, "must not be empty")
	}
	p, ok := c.store.Parcels().GetByTrackingNumber(trackingNumber)
	if !ok {
		var err error
		if p, err = c.api.TrackParcel(ctx, trackingNumber); err != nil {
			return types.Parcel{}, err
		}
	}
	c.store.Dispatch(state.SelectParcel{Parcel: &p})
	return p, nil
}

// SelectParcel selects a mirrored parcel.
func (c *client) SelectParcel(id string) bool {
	if id == "" {
		c.store.Dispatch(state.SelectParcel{})
		return true
	}
	p, ok := c.store.Parcels().Get(id)
	if !ok {
		return false
	}
	c.store.Dispatch(state.SelectParcel{Parcel: &p})
	return true
}

// SelectedParcel returns the selected parcel.
func (c *client) SelectedParcel() (types.Parcel, bool) {
	return c.store.Parcels().Selected()
}
