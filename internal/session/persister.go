package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/logging"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Archiver is implemented by storages that can keep notifications after
// logout.
type Archiver interface {
	Archive(ctx context.Context, userID string, records []types.Notification) error
	Archived(ctx context.Context, userID string, limit int) ([]types.Notification, error)
}

// Persister saves and restores the session in a Storage.
type Persister struct {
	store  Storage
	now    func() time.Time
	logger *zerolog.Logger
}

// NewPersister creates a persister over store. A nil now uses time.Now and
// a nil logger the "session" component logger.
func NewPersister(store Storage, now func() time.Time, logger *zerolog.Logger) *Persister {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Component("session")
	}
	return &Persister{store: store, now: now, logger: logger}
}

// Storage returns the underlying storage.
func (p *Persister) Storage() Storage {
	return p.store
}

// Save writes the session. The user is written before the token so a
// partial write never restores as a valid session.
func (p *Persister) Save(ctx context.Context, sess types.Session) error {
	if err := sess.Validate(); err != nil {
		return errors.WrapValidation("session", err)
	}
	user, err := json.Marshal(sess.User)
	if err != nil {
		return errors.WrapSession("save", KeyUser, err)
	}
	if err := p.store.Set(ctx, KeyUser, string(user)); err != nil {
		return errors.WrapSession("save", KeyUser, err)
	}
	if err := p.store.Set(ctx, KeyToken, sess.Token); err != nil {
		return errors.WrapSession("save", KeyToken, err)
	}
	return nil
}

// Restore loads the persisted session. A missing, partial, corrupt or
// expired session clears both keys and reports ok == false with a nil
// error; only storage failures are returned.
func (p *Persister) Restore(ctx context.Context) (sess types.Session, ok bool, err error) {
	token, err := p.store.Get(ctx, KeyToken)
	tokenMissing := errors.IsNotFound(err)
	if err != nil && !tokenMissing {
		return types.Session{}, false, errors.WrapSession("restore", KeyToken, err)
	}
	raw, err := p.store.Get(ctx, KeyUser)
	userMissing := errors.IsNotFound(err)
	if err != nil && !userMissing {
		return types.Session{}, false, errors.WrapSession("restore", KeyUser, err)
	}

	if tokenMissing && userMissing {
		return types.Session{}, false, nil
	}

	reason := ""
	switch {
	case tokenMissing || token == "":
		reason = "token missing"
	case userMissing:
		reason = "user missing"
	default:
		if err := json.Unmarshal([]byte(raw), &sess.User); err != nil {
			reason = "user record is not valid JSON"
			break
		}
		sess.Token = token
		if err := sess.Validate(); err != nil {
			reason = err.Error()
		} else if TokenExpired(token, p.now()) {
			reason = "token expired"
		}
	}

	if reason != "" {
		p.logger.Warn().Str("reason", reason).Msg("Discarding persisted session")
		if err := p.Clear(ctx); err != nil {
			return types.Session{}, false, err
		}
		return types.Session{}, false, nil
	}

	p.logger.Debug().Str("user_id", sess.UserID()).Str("role", sess.Role().String()).Msg("Restored session")
	return sess, true, nil
}

// Clear removes both session keys.
func (p *Persister) Clear(ctx context.Context) error {
	if err := p.store.Remove(ctx, KeyToken); err != nil {
		return errors.WrapSession("clear", KeyToken, err)
	}
	if err := p.store.Remove(ctx, KeyUser); err != nil {
		return errors.WrapSession("clear", KeyUser, err)
	}
	return nil
}

// Archive keeps records for userID when the storage supports it. It reports
// whether anything was archived.
func (p *Persister) Archive(ctx context.Context, userID string, records []types.Notification) (bool, error) {
	a, ok := p.store.(Archiver)
	if !ok || len(records) == 0 {
		return false, nil
	}
	if err := a.Archive(ctx, userID, records); err != nil {
		return false, err
	}
	return true, nil
}

// Archived returns archived notifications for userID, or
// errors.ErrInvalidInput when the storage keeps no archive.
func (p *Persister) Archived(ctx context.Context, userID string, limit int) ([]types.Notification, error) {
	a, ok := p.store.(Archiver)
	if !ok {
		return nil, errors.NewValidationError("storage", nil, "storage backend keeps no notification archive")
	}
	return a.Archived(ctx, userID, limit)
}
