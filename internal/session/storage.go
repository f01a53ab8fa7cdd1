// Package session persists the authenticated session between runs and
// restores it at startup. The session is stored as two keys, "token" and
// "user", in a pluggable key/value Storage.
package session

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/parceltrack/parceltrack/pkg/errors"
)

// Storage keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Storage is a small key/value store. Get returns errors.ErrNotFound for
// missing keys; Remove of a missing key is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Kind names a Storage backend.
type Kind string

const (
	KindSQLite  Kind = "sqlite"
	KindKeyring Kind = "keyring"
	KindMemory  Kind = "memory"
)

// Options configure Open.
type Options struct {
	// Path is the sqlite database file.
	Path string

	// KeyringDir is where the encrypted file backend of the keyring keeps
	// its items when no OS keychain is available.
	KeyringDir string
}

// Open creates the backend named by kind.
func Open(kind Kind, opts Options) (Storage, error) {
	switch kind {
	case KindSQLite, "":
		return OpenSQLite(expandHome(opts.Path))
	case KindKeyring:
		return OpenKeyring(expandHome(opts.KeyringDir))
	case KindMemory:
		return NewMemory(), nil
	}
	return nil, errors.NewConfigError("storage", "unknown storage backend "+string(kind), nil)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := userHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
