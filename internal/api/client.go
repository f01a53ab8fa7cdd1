// Package api is the typed client for the ParcelTrack REST backend. Every
// call carries the session's bearer token when one exists; a 401 is
// returned to the caller as an *errors.APIError and never handled here.
package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/parceltrack/parceltrack/internal/transport"
)

// Client groups the auth, parcel, user and notification endpoints.
type Client struct {
	http *transport.Client
}

// New creates an API client rooted at baseURL (for example
// http://localhost:5000/api). token is consulted on every request.
func New(baseURL string, token transport.TokenSource, hc *http.Client, logger *zerolog.Logger) *Client {
	opts := []transport.Option{transport.WithTokenSource(token), transport.WithHTTPClient(hc)}
	if logger != nil {
		opts = append(opts, transport.WithLogger(logger))
	}
	return &Client{http: transport.New(baseURL, opts...)}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}
