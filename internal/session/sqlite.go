package session

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/parceltrack/parceltrack/pkg/constants"
	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// tsLayout sorts lexically in UTC.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite keeps the session and the notification archive in a local
// database file.
type SQLite struct {
	db  *sqlx.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and runs any pending
// migrations. ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = constants.DefaultStatePath
		if home, err := userHomeDir(); err == nil {
			path = filepath.Join(home, path)
		}
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", filepath.Dir(path), err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, errors.WrapIO("configure", path, err)
		}
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("migrate", path, err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) runMigrations() error {
	current := 0

	var tables int
	err := s.db.Get(&tables,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return err
	}
	if tables > 0 {
		if err := s.db.Get(&current, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return err
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return err
		}
	}
	return nil
}

// Get implements Storage.
func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.NewNotFoundError("storage key", key)
	}
	if err != nil {
		return "", errors.WrapIO("read", key, err)
	}
	return value, nil
}

// Set implements Storage.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC().Format(tsLayout))
	return errors.WrapIO("write", key, err)
}

// Remove implements Storage.
func (s *SQLite) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return errors.WrapIO("delete", key, err)
}

type archiveRow struct {
	ID        string `db:"id"`
	BackendID string `db:"backend_id"`
	Message   string `db:"message"`
	Type      string `db:"type"`
	CreatedAt string `db:"created_at"`
	Read      bool   `db:"read"`
}

// Archive stores a user's notifications so they can be reviewed after
// logout. Records already archived are replaced.
func (s *SQLite) Archive(ctx context.Context, userID string, records []types.Notification) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.WrapIO("write", "notification archive", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT OR REPLACE INTO notification_archive
			(user_id, id, backend_id, message, type, created_at, read, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.WrapIO("write", "notification archive", err)
	}
	defer func() { _ = stmt.Close() }()

	archivedAt := s.now().UTC().Format(tsLayout)
	for _, n := range records {
		_, err := stmt.ExecContext(ctx,
			userID, n.ID, n.BackendID, n.Message, string(n.Type),
			n.Timestamp.UTC().Format(tsLayout), n.Read, archivedAt)
		if err != nil {
			return errors.WrapResource("archive", "notification", n.ID, err)
		}
	}
	return errors.WrapIO("write", "notification archive", tx.Commit())
}

// Archived returns a user's archived notifications, most recent first.
// A limit of zero returns everything.
func (s *SQLite) Archived(ctx context.Context, userID string, limit int) ([]types.Notification, error) {
	query := `SELECT id, backend_id, message, type, created_at, read
		FROM notification_archive WHERE user_id = ? ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []archiveRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.WrapIO("read", "notification archive", err)
	}

	out := make([]types.Notification, 0, len(rows))
	for _, r := range rows {
		ts, err := time.Parse(tsLayout, r.CreatedAt)
		if err != nil {
			return nil, errors.NewDecodeError("notification archive", r.ID, "invalid timestamp", err)
		}
		out = append(out, types.Notification{
			ID:        r.ID,
			BackendID: r.BackendID,
			Message:   r.Message,
			Type:      types.NotificationType(r.Type).Normalize(),
			Timestamp: ts,
			Read:      r.Read,
		})
	}
	return out, nil
}
