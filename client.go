// Package parceltrack is the client side of ParcelTrack's real-time
// notification layer. A Client restores or establishes an authenticated
// session, loads notification history over REST, keeps one live Socket.IO
// connection for the session and routes the server's events into an
// in-memory notification list and parcel mirror.
//
// Example usage:
//
//	client, err := parceltrack.New(
//	    parceltrack.WithAPIURL("https://parceltrack.example.com/api"),
//	    parceltrack.WithSocketURL("https://parceltrack.example.com"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.OnNotification(func(n types.Notification) {
//	    fmt.Println(n.Type, n.Message)
//	})
//
//	if err := client.Login(ctx, "carol@example.com", "secret"); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("unread:", client.UnreadCount())
package parceltrack

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/parceltrack/parceltrack/internal/api"
	"github.com/parceltrack/parceltrack/internal/events"
	"github.com/parceltrack/parceltrack/internal/session"
	"github.com/parceltrack/parceltrack/internal/socket"
	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/notifications"
	"github.com/parceltrack/parceltrack/pkg/state"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client is the live-sync client of one user.
type Client interface {

	// Lifecycle starts, switches and ends the session
	Lifecycle

	// Notifications manages the notification list
	Notifications

	// Parcels manages the parcel mirror
	Parcels

	// Emitter sends client events over the live connection
	Emitter

	// Persistence reads the notification archive
	Persistence

	// Hooks provides access to event callback registration
	Hooks

	// State returns a snapshot of everything a renderer needs
	State() state.State

	// Subscribe registers a listener for every dispatched state change
	Subscribe(l state.Listener) (unsubscribe func())

	// Connection returns a debugging view of the live connection
	Connection() socket.Status

	// WaitConnected blocks until the live connection is up or fails
	WaitConnected(ctx context.Context) error

	// API exposes the REST client for endpoints without a state effect
	API() *api.Client
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	logger  *zerolog.Logger

	store     *state.Store
	api       *api.Client
	socket    *socket.Manager
	decoder   *events.Decoder
	persister *session.Persister
	hooks     *hooks

	// lifecycle is serialized
	mu         sync.Mutex
	cancelConn context.CancelFunc
	closed     bool

	// acks tracks in-flight read acknowledgments
	acks sync.WaitGroup
}

// New creates a Client. It does not touch the network or the persisted
// session; call Start or Login for that.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, errors.WrapValidation("options", err)
	}

	decoder, err := events.NewDecoder()
	if err != nil {
		return nil, errors.WrapResource("create", "event decoder", "", err)
	}

	var storeOpts []notifications.Option
	storeOpts = append(storeOpts, notifications.WithClock(o.now))
	if o.newID != nil {
		storeOpts = append(storeOpts, notifications.WithIDGenerator(o.newID))
	}

	c := &client{
		options: o,
		logger:  o.logger,
		store:   state.New(storeOpts...),
		decoder: decoder,
		hooks:   newHooks(),
	}
	c.api = api.New(o.apiURL, c.token, o.httpClient, o.logger)
	c.socket = socket.NewManager(o.socketURL,
		socket.WithDialer(o.dialer),
		socket.WithDialTimeout(o.dialTimeout),
		socket.WithLogger(o.logger))
	c.persister = session.NewPersister(o.storage, o.now, o.logger)
	c.store.Subscribe(c.hooks.trigger)

	c.logger.Debug().
		Str("api_url", o.apiURL).
		Str("socket_url", o.socketURL).
		Msg("Client created")
	return c, nil
}

// token is the transport's token source.
func (c *client) token() string {
	sess, ok := c.store.Session()
	if !ok {
		return ""
	}
	return sess.Token
}

// State returns a snapshot of the client state.
func (c *client) State() state.State {
	return c.store.Snapshot()
}

// Subscribe registers a state listener.
func (c *client) Subscribe(l state.Listener) func() {
	return c.store.Subscribe(l)
}

// Connection returns a debugging view of the live connection.
func (c *client) Connection() socket.Status {
	return c.socket.Status()
}

// WaitConnected blocks until the live connection is up or fails.
func (c *client) WaitConnected(ctx context.Context) error {
	return c.socket.WaitConnected(ctx)
}

// API exposes the REST client.
func (c *client) API() *api.Client {
	return c.api
}

// OnNotification registers a callback for inserted notifications.
func (c *client) OnNotification(fn NotificationHook) {
	c.hooks.OnNotification(fn)
}

// OnParcelUpdated registers a callback for parcel mirror writes.
func (c *client) OnParcelUpdated(fn ParcelHook) {
	c.hooks.OnParcelUpdated(fn)
}

// OnSessionChanged registers a callback for session start and end.
func (c *client) OnSessionChanged(fn SessionHook) {
	c.hooks.OnSessionChanged(fn)
}
