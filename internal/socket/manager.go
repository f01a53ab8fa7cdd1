// Package socket manages the single live Socket.IO connection of a client
// session. At most one connection exists per Manager; connecting again
// tears the previous one down first, listeners included.
package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/parceltrack/parceltrack/pkg/constants"
	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/logging"
)

// Lifecycle events delivered to listeners registered with On.
const (
	EventConnect      = "connect"
	EventDisconnect   = "disconnect"
	EventConnectError = "connect_error"
)

// Handler receives the raw payload of an event. Handlers run one at a time
// on the connection's read goroutine, in arrival order.
type Handler func(payload json.RawMessage)

// ListenerID identifies a registered handler for Off.
type ListenerID uint64

// Status is a debugging view of the current connection.
type Status struct {
	Initialized bool
	Connected   bool
	SID         string
	Events      []string
}

// Manager owns the one live connection of a client. It is safe for
// concurrent use; Connect and Disconnect are serialized.
type Manager struct {
	mu   sync.Mutex
	conn *conn

	baseURL     string
	dialer      *websocket.Dialer
	dialTimeout time.Duration
	logger      *zerolog.Logger
	nextID      atomic.Uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithDialer overrides the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(m *Manager) { m.dialer = d }
}

// WithDialTimeout bounds dialing plus the Socket.IO handshake.
func WithDialTimeout(d time.Duration) Option {
	return func(m *Manager) { m.dialTimeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager for the socket server at baseURL
// (http, https, ws or wss).
func NewManager(baseURL string, opts ...Option) *Manager {
	m := &Manager{
		baseURL:     baseURL,
		dialer:      websocket.DefaultDialer,
		dialTimeout: constants.DefaultDialTimeout,
		logger:      logging.Component("socket"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect tears down any existing connection and starts a new one
// authenticated with token. Each setup func runs once the new handle
// exists and before dialing starts, so listeners registered there see
// every event of the connection, including the first. Dialing and the
// handshake continue in the background; failures are logged and reported
// to connect_error listeners. The connection lives until Disconnect, the
// next Connect, or cancellation of ctx.
func (m *Manager) Connect(ctx context.Context, token string, setup ...func()) {
	c, err := m.replace(ctx, token)
	for _, fn := range setup {
		fn()
	}
	if err != nil {
		c.fail(err)
		return
	}
	go c.run()
}

// replace installs a fresh, not yet dialed connection handle.
func (m *Manager) replace(ctx context.Context, token string) (*conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teardownLocked()

	endpoint, err := socketURL(m.baseURL)
	c := newConn(ctx, m, token, endpoint)
	m.conn = c
	if err != nil {
		return c, errors.NewConfigError("socket", "invalid socket url "+m.baseURL, err)
	}
	return c, nil
}

// Disconnect removes every listener and closes the connection. It is a
// no-op when nothing is open and safe to call repeatedly.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

func (m *Manager) teardownLocked() {
	if m.conn == nil {
		return
	}
	m.logger.Debug().Str("sid", m.conn.sessionID()).Msg("Closing socket connection")
	m.conn.close()
	m.conn = nil
}

// Emit sends an event to the server without waiting for delivery.
// Without a handshake-complete connection nothing is sent; the attempt is
// logged and ErrNotConnected returned.
func (m *Manager) Emit(event string, payload any) error {
	c := m.current()
	if c == nil || !c.connected.Load() {
		m.logger.Warn().Str("event", event).Msg("Socket not connected, event not sent")
		return errors.ErrNotConnected
	}
	frame, err := EncodeEvent(event, payload)
	if err != nil {
		return errors.WrapValidation("payload", err)
	}
	return c.write(frame)
}

// On registers handler for event on the current connection. Without a
// connection it logs a warning and returns 0.
func (m *Manager) On(event string, handler Handler) ListenerID {
	c := m.current()
	if c == nil {
		m.logger.Warn().Str("event", event).Msg("Socket not initialized, listener not registered")
		return 0
	}
	id := ListenerID(m.nextID.Add(1))
	c.addListener(event, id, handler)
	return id
}

// Off removes the listener with id from event. An id of 0 removes every
// listener for the event.
func (m *Manager) Off(event string, id ListenerID) {
	if c := m.current(); c != nil {
		c.removeListener(event, id)
	}
}

// IsConnected reports whether the current connection completed its
// handshake and has not been lost.
func (m *Manager) IsConnected() bool {
	c := m.current()
	return c != nil && c.connected.Load()
}

// WaitConnected blocks until the current connection completes its
// handshake, fails, or ctx ends.
func (m *Manager) WaitConnected(ctx context.Context) error {
	c := m.current()
	if c == nil {
		return errors.ErrNotConnected
	}
	select {
	case <-c.ready:
		return c.readyErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a snapshot for debugging.
func (m *Manager) Status() Status {
	c := m.current()
	if c == nil {
		return Status{}
	}
	return Status{
		Initialized: true,
		Connected:   c.connected.Load(),
		SID:         c.sessionID(),
		Events:      c.eventNames(),
	}
}

func (m *Manager) current() *conn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn
}

// socketURL maps the configured base URL to the Engine.IO websocket endpoint.
func socketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", errors.NewValidationError("scheme", u.Scheme, "must be http, https, ws or wss")
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + constants.SocketPath
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func bearer(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
