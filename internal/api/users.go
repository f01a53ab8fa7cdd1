package api

import (
	"context"
	"net/url"
	"time"

	"github.com/parceltrack/parceltrack/pkg/types"
)

// Account is a user record as managed by admins.
type Account struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      types.Role `json:"role"`
	Address   string     `json:"address,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// User returns the session view of the account.
func (a Account) User() types.User {
	return types.User{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone, Role: a.Role}
}

// UpdateUserRequest patches an account. Empty fields are left unchanged.
type UpdateUserRequest struct {
	Name    string     `json:"name,omitempty"`
	Email   string     `json:"email,omitempty"`
	Phone   string     `json:"phone,omitempty"`
	Address string     `json:"address,omitempty"`
	Role    types.Role `json:"role,omitempty"`
}

// NewAccountRequest creates an agent or customer on behalf of an admin.
type NewAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Password string `json:"password"`
}

// ListUsers returns every account.
func (c *Client) ListUsers(ctx context.Context) ([]Account, error) {
	var out []Account
	err := c.http.Get(ctx, "/users", nil, &out)
	return out, err
}

// ListAgents returns every agent account.
func (c *Client) ListAgents(ctx context.Context) ([]Account, error) {
	var out []Account
	err := c.http.Get(ctx, "/users/agents", nil, &out)
	return out, err
}

// GetUser fetches one account.
func (c *Client) GetUser(ctx context.Context, id string) (Account, error) {
	var out Account
	err := c.http.Get(ctx, "/users/"+url.PathEscape(id), nil, &out)
	return out, err
}

// UpdateUser patches an account.
func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (Account, error) {
	var out Account
	err := c.http.Patch(ctx, "/users/"+url.PathEscape(id), req, &out)
	return out, err
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.http.Delete(ctx, "/users/"+url.PathEscape(id), nil)
}

// AddAgent creates an agent account.
func (c *Client) AddAgent(ctx context.Context, req NewAccountRequest) (Account, error) {
	var out Account
	err := c.http.Post(ctx, "/users/agents", req, &out)
	return out, err
}

// AddCustomer creates a customer account.
func (c *Client) AddCustomer(ctx context.Context, req NewAccountRequest) (Account, error) {
	var out Account
	err := c.http.Post(ctx, "/users/customers", req, &out)
	return out, err
}
