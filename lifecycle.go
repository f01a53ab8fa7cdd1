package parceltrack

import (
	"context"
	"time"

	"github.com/parceltrack/parceltrack/internal/api"
	"github.com/parceltrack/parceltrack/internal/events"
	"github.com/parceltrack/parceltrack/pkg/constants"
	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/state"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Compile-time interface check to ensure proper implementation.
var _ Lifecycle = (*client)(nil)

// Lifecycle starts, switches and ends the session.
type Lifecycle interface {
	// Start restores the persisted session, if any, and goes live with it.
	// A missing, corrupt or expired session leaves the client logged out
	// and is not an error.
	Start(ctx context.Context) error

	// Login authenticates, persists the session and goes live.
	Login(ctx context.Context, emailOrPhone, password string) error

	// SetSession replaces the active session, tearing down the previous
	// connection and its listeners before opening the new one.
	SetSession(ctx context.Context, sess types.Session) error

	// Logout ends the session locally and on the backend.
	Logout(ctx context.Context) error

	// Session returns the active session.
	Session() (types.Session, bool)

	// Close disconnects, waits for pending acknowledgments and releases
	// the storage when the client owns it.
	Close() error
}

// Start restores the persisted session.
func (c *client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.ErrCanceled
	}

	sess, ok, err := c.persister.Restore(ctx)
	if err != nil {
		return err
	}
	if !ok {
		c.logger.Info().Msg("No persisted session, login required")
		return nil
	}
	return c.activateLocked(ctx, sess)
}

// Login authenticates with the backend.
func (c *client) Login(ctx context.Context, emailOrPhone, password string) error {
	if emailOrPhone == "" || password == "" {
		return errors.NewValidationError("credentials", nil, "email or phone and password are required")
	}
	resp, err := c.api.Login(ctx, api.LoginRequest{EmailOrPhone: emailOrPhone, Password: password})
	if err != nil {
		return err
	}
	return c.SetSession(ctx, resp.Session())
}

// SetSession persists sess and goes live with it.
func (c *client) SetSession(ctx context.Context, sess types.Session) error {
	if err := sess.Validate(); err != nil {
		return errors.WrapValidation("session", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.ErrCanceled
	}

	if err := c.persister.Save(ctx, sess); err != nil {
		return err
	}
	return c.activateLocked(ctx, sess)
}

// activateLocked makes sess the active session: state first, then history,
// then the live connection with its event routing.
func (c *client) activateLocked(ctx context.Context, sess types.Session) error {
	cur, had := c.store.Session()
	// Same session, still live.
	if had && cur == sess && c.cancelConn != nil && c.socket.IsConnected() {
		return nil
	}
	c.teardownLocked()
	if had && cur.UserID() != sess.UserID() {
		c.store.Dispatch(state.ClearNotifications{})
		c.store.Dispatch(state.SelectParcel{})
		c.store.Dispatch(state.SetParcels{})
	}

	log := c.logger.With().Str("user_id", sess.UserID()).Str("role", sess.Role().String()).Logger()
	c.store.Dispatch(state.SetSession{Session: sess})

	history, err := c.api.MyNotifications(ctx, false)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Failed to load notification history")
	case len(history) > 0:
		c.store.Dispatch(state.SetNotifications{Records: history})
		log.Debug().Int("count", len(history)).Msg("Loaded notification history")
	}

	// The connection outlives the call that opened it.
	connCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancelConn = cancel
	router := events.NewRouter(sess, c.store, c.decoder, &log)
	n := 0
	c.socket.Connect(connCtx, sess.Token, func() { n = router.Register(c.socket) })
	log.Info().Int("events", n).Msg("Session active")
	return nil
}

// teardownLocked drops the live connection and every listener.
func (c *client) teardownLocked() {
	c.socket.Disconnect()
	if c.cancelConn != nil {
		c.cancelConn()
		c.cancelConn = nil
	}
}

// Logout ends the session. Local state is always cleared; the first
// persistence error is returned.
func (c *client) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.store.Session()
	if !ok {
		return nil
	}
	log := c.logger.With().Str("user_id", sess.UserID()).Logger()

	c.teardownLocked()

	if err := c.api.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("Backend logout failed")
	}

	if c.options.archive {
		records := c.store.Notifications().List()
		if archived, err := c.persister.Archive(ctx, sess.UserID(), records); err != nil {
			log.Warn().Err(err).Msg("Failed to archive notifications")
		} else if archived {
			log.Debug().Int("count", len(records)).Msg("Archived notifications")
		}
	}

	c.store.Dispatch(state.ClearNotifications{})
	c.store.Dispatch(state.SelectParcel{})
	c.store.Dispatch(state.SetParcels{})
	err := c.persister.Clear(ctx)
	c.store.Dispatch(state.EndSession{})

	log.Info().Msg("Logged out")
	return err
}

// Session returns the active session.
func (c *client) Session() (types.Session, bool) {
	return c.store.Session()
}

// Close releases the client. It is safe to call more than once.
func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.teardownLocked()
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.acks.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(constants.AckTimeout):
		c.logger.Warn().Msg("Gave up waiting for read acknowledgments")
	}

	if c.options.ownsStorage {
		return c.options.storage.Close()
	}
	return nil
}
