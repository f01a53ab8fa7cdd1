package api

import (
	"context"

	"github.com/parceltrack/parceltrack/pkg/types"
)

// RegisterRequest creates a customer or agent account.
type RegisterRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Phone    string     `json:"phone"`
	Role     types.Role `json:"role"`
}

// LoginRequest authenticates with an email address or phone number.
type LoginRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  types.User `json:"user"`
	Token string     `json:"token"`
}

// Session converts the response into a client session.
func (r AuthResponse) Session() types.Session {
	return types.Session{User: r.User, Token: r.Token}
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.http.Post(ctx, "/auth/register", req, &out)
	return out, err
}

// Login authenticates and returns a session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.http.Post(ctx, "/auth/login", req, &out)
	return out, err
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (types.User, error) {
	var out types.User
	err := c.http.Get(ctx, "/auth/me", nil, &out)
	return out, err
}

// Logout ends the session on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.http.Post(ctx, "/auth/logout", nil, nil)
}
