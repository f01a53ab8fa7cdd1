package parceltrack

import (
	"github.com/parceltrack/parceltrack/internal/events"
	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Compile-time interface check to ensure proper implementation.
var _ Emitter = (*client)(nil)

// Emitter sends client events over the live connection. Every method
// returns errors.ErrNotConnected when the connection is not up; nothing is
// queued.
type Emitter interface {
	// EmitStatusUpdate reports a parcel status change.
	EmitStatusUpdate(parcelID string, status types.ParcelStatus) error

	// EmitLocationUpdate reports a parcel's position.
	EmitLocationUpdate(parcelID string, lat, lng float64) error

	// EmitAgentStatus announces the agent going on or offline.
	EmitAgentStatus(online bool) error

	// EmitCustomerInquiry asks about a parcel.
	EmitCustomerInquiry(parcelID, message string) error
}

// EmitStatusUpdate reports a parcel status change.
func (c *client) EmitStatusUpdate(parcelID string, status types.ParcelStatus) error {
	if parcelID == "" {
		return errors.NewValidationError("parcel_id", parcelID, "must not be empty")
	}
	if !status.Valid() {
		return errors.NewValidationError("status", status, "unknown parcel status")
	}
	return c.emit(events.UpdateStatus, events.StatusUpdate{ParcelID: parcelID, Status: status})
}

// EmitLocationUpdate reports a parcel's position.
func (c *client) EmitLocationUpdate(parcelID string, lat, lng float64) error {
	if parcelID == "" {
		return errors.NewValidationError("parcel_id", parcelID, "must not be empty")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return errors.NewValidationError("location", []float64{lat, lng}, "coordinates out of range")
	}
	return c.emit(events.UpdateLocation, events.LocationUpdate{
		ParcelID: parcelID,
		Location: events.LatLng{Lat: lat, Lng: lng},
	})
}

// EmitAgentStatus announces the agent going on or offline.
func (c *client) EmitAgentStatus(online bool) error {
	return c.emit(events.AgentStatus, events.AgentPresence{IsOnline: online})
}

// EmitCustomerInquiry asks about a parcel.
func (c *client) EmitCustomerInquiry(parcelID, message string) error {
	if parcelID == "" {
		return errors.NewValidationError("parcel_id", parcelID, "must not be empty")
	}
	if message == "" {
		return errors.NewValidationError("message", message, "must not be empty")
	}
	return c.emit(events.SendInquiry, events.Inquiry{ParcelID: parcelID, Message: message})
}

func (c *client) emit(name events.Name, payload any) error {
	if err := c.socket.Emit(name.String(), payload); err != nil {
		c.logger.Debug().Err(err).Str("event", name.String()).Msg("Emit failed")
		return err
	}
	c.logger.Debug().Str("event", name.String()).Msg("Emitted")
	return nil
}
