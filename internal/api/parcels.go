package api

import (
	"context"
	"net/url"

	"github.com/parceltrack/parceltrack/pkg/types"
)

// CreateParcelRequest books a new parcel.
type CreateParcelRequest struct {
	RecipientName    string  `json:"recipientName"`
	RecipientPhone   string  `json:"recipientPhone"`
	RecipientAddress string  `json:"recipientAddress"`
	PickupAddress    string  `json:"pickupAddress"`
	Weight           float64 `json:"weight"`
	Description      string  `json:"description,omitempty"`
	Cost             float64 `json:"cost"`
}

// StatusUpdateRequest moves a parcel to a new status.
type StatusUpdateRequest struct {
	Status   types.ParcelStatus `json:"status"`
	Location string             `json:"location,omitempty"`
	Note     string             `json:"note,omitempty"`
}

// LocationRequest reports a parcel position.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ParcelFilter narrows ListParcels. Zero fields are omitted.
type ParcelFilter struct {
	Status types.ParcelStatus
	Agent  string
	Sender string
}

func (f ParcelFilter) values() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Agent != "" {
		q.Set("agent", f.Agent)
	}
	if f.Sender != "" {
		q.Set("sender", f.Sender)
	}
	return q
}

// Statistics summarizes parcels by status.
type Statistics struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	InTransit int `json:"inTransit"`
	Delivered int `json:"delivered"`
}

// CreateParcel books a parcel for the current customer.
func (c *Client) CreateParcel(ctx context.Context, req CreateParcelRequest) (types.Parcel, error) {
	var out types.Parcel
	err := c.http.Post(ctx, "/parcels", req, &out)
	return out, err
}

// ListParcels returns every parcel visible to an admin.
func (c *Client) ListParcels(ctx context.Context, filter ParcelFilter) ([]types.Parcel, error) {
	var out []types.Parcel
	err := c.http.Get(ctx, "/parcels", filter.values(), &out)
	return out, err
}

// GetParcel fetches one parcel by id.
func (c *Client) GetParcel(ctx context.Context, id string) (types.Parcel, error) {
	var out types.Parcel
	err := c.http.Get(ctx, "/parcels/"+url.PathEscape(id), nil, &out)
	return out, err
}

// TrackParcel looks a parcel up by tracking number.
func (c *Client) TrackParcel(ctx context.Context, trackingNumber string) (types.Parcel, error) {
	var out types.Parcel
	err := c.http.Get(ctx, "/parcels/track/"+url.PathEscape(trackingNumber), nil, &out)
	return out, err
}

// MyParcels returns the current customer's parcels.
func (c *Client) MyParcels(ctx context.Context) ([]types.Parcel, error) {
	var out []types.Parcel
	err := c.http.Get(ctx, "/parcels/my-parcels", nil, &out)
	return out, err
}

// AssignedParcels returns the parcels assigned to the current agent.
func (c *Client) AssignedParcels(ctx context.Context) ([]types.Parcel, error) {
	var out []types.Parcel
	err := c.http.Get(ctx, "/parcels/assigned", nil, &out)
	return out, err
}

// UpdateParcelStatus changes a parcel's status.
func (c *Client) UpdateParcelStatus(ctx context.Context, id string, req StatusUpdateRequest) (types.Parcel, error) {
	var out types.Parcel
	err := c.http.Patch(ctx, "/parcels/"+url.PathEscape(id)+"/status", req, &out)
	return out, err
}

// AssignAgent assigns an agent to a parcel.
func (c *Client) AssignAgent(ctx context.Context, id, agentID string) (types.Parcel, error) {
	var out types.Parcel
	body := map[string]string{"agentId": agentID}
	err := c.http.Patch(ctx, "/parcels/"+url.PathEscape(id)+"/assign", body, &out)
	return out, err
}

// UpdateParcelLocation records a parcel's current position.
func (c *Client) UpdateParcelLocation(ctx context.Context, id string, req LocationRequest) (types.Parcel, error) {
	var out types.Parcel
	err := c.http.Patch(ctx, "/parcels/"+url.PathEscape(id)+"/location", req, &out)
	return out, err
}

// DeleteParcel removes a parcel and returns the deleted record.
func (c *Client) DeleteParcel(ctx context.Context, id string) (types.Parcel, error) {
	var out types.Parcel
	err := c.http.Delete(ctx, "/parcels/"+url.PathEscape(id), &out)
	return out, err
}

// Statistics returns parcel counts by status.
func (c *Client) Statistics(ctx context.Context) (Statistics, error) {
	var out Statistics
	err := c.http.Get(ctx, "/parcels/statistics", nil, &out)
	return out, err
}

// ParcelsFor returns the working set of parcels for a role: everything for
// admins, assigned parcels for agents and own parcels for customers.
func (c *Client) ParcelsFor(ctx context.Context, role types.Role) ([]types.Parcel, error) {
	switch role {
	case types.RoleAdmin:
		return c.ListParcels(ctx, ParcelFilter{})
	case types.RoleAgent:
		return c.AssignedParcels(ctx)
	default:
		return c.MyParcels(ctx)
	}
}
