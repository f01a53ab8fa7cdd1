// Package constants provides shared constants used throughout the parceltrack
// client: timeouts, socket framing limits, file permissions and defaults.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for REST requests to the backend
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultDialTimeout bounds the socket dial plus the Socket.IO handshake
	DefaultDialTimeout = 10 * time.Second

	// AckTimeout bounds a single best-effort read-state acknowledgement
	AckTimeout = 10 * time.Second

	// CommandTimeout is the default timeout for one-shot CLI commands
	CommandTimeout = 2 * time.Minute

	// WriteWait is the time allowed to write a frame to the socket
	WriteWait = 10 * time.Second

	// DefaultPingInterval is used when the server open packet omits pingInterval
	DefaultPingInterval = 25 * time.Second

	// DefaultPingTimeout is used when the server open packet omits pingTimeout
	DefaultPingTimeout = 20 * time.Second
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwx------)
	DirPermissions = 0700

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for session databases holding tokens (rw-------)
	SecureFilePermissions = 0600
)

// Limit constants
const (
	// MaxFrameSize is the largest socket frame accepted from the server in bytes
	MaxFrameSize = 1 << 20

	// MaxResponseSize is the largest REST response body read in bytes
	MaxResponseSize = 8 << 20

	// UnreadBadgeLimit is the unread count above which badges render as "9+"
	UnreadBadgeLimit = 9
)

// Default endpoints
const (
	// DefaultAPIURL is the REST base URL used when none is configured
	DefaultAPIURL = "http://localhost:5000/api"

	// DefaultSocketURL is the live-event base URL used when none is configured
	DefaultSocketURL = "http://localhost:5000"

	// SocketPath is the Socket.IO endpoint path on the socket server
	SocketPath = "/socket.io/"
)

// Local state paths, relative to the user's home directory
const (
	// DefaultStatePath is the sqlite database holding the session and archive
	DefaultStatePath = ".parceltrack/state.db"

	// DefaultKeyringDir is the encrypted file keyring fallback directory
	DefaultKeyringDir = ".parceltrack/keyring"

	// DefaultConfigName is the config file name (without extension) in the home directory
	DefaultConfigName = ".parceltrack"
)
