package parceltrack

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/parceltrack/parceltrack/internal/session"
	"github.com/parceltrack/parceltrack/pkg/constants"
	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/logging"
)

// Option is a function that configures a Client
type Option func(*options) error

type options struct {
	apiURL      string
	socketURL   string
	storage     session.Storage
	ownsStorage bool
	logger      *zerolog.Logger
	httpClient  *http.Client
	archive     bool
	dialer      *websocket.Dialer
	dialTimeout time.Duration
	now         func() time.Time
	newID       func() string
}

func defaults() *options {
	return &options{
		apiURL:      constants.DefaultAPIURL,
		socketURL:   constants.DefaultSocketURL,
		logger:      logging.Default(),
		httpClient:  &http.Client{Timeout: constants.DefaultHTTPTimeout},
		archive:     true,
		dialer:      websocket.DefaultDialer,
		dialTimeout: constants.DefaultDialTimeout,
		now:         time.Now,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.storage == nil {
		o.storage = session.NewMemory()
		o.ownsStorage = true
	}
	return o, nil
}

// WithAPIURL sets the REST base URL, e.g. https://parceltrack.example.com/api
func WithAPIURL(url string) Option {
	return func(o *options) error {
		if url == "" {
			return errors.NewValidationError("api_url", url, "must not be empty")
		}
		o.apiURL = strings.TrimSuffix(url, "/")
		return nil
	}
}

// WithSocketURL sets the live event server base URL
func WithSocketURL(url string) Option {
	return func(o *options) error {
		if url == "" {
			return errors.NewValidationError("socket_url", url, "must not be empty")
		}
		o.socketURL = strings.TrimSuffix(url, "/")
		return nil
	}
}

// WithStorage sets where the session is persisted. The client does not
// close a storage passed in here.
func WithStorage(s session.Storage) Option {
	return func(o *options) error {
		if s == nil {
			return errors.NewValidationError("storage", nil, "must not be nil")
		}
		o.storage = s
		o.ownsStorage = false
		return nil
	}
}

// WithLogger sets the logger used by every component
func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) error {
		if l != nil {
			o.logger = l
		}
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for REST calls
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc != nil {
			o.httpClient = hc
		}
		return nil
	}
}

// WithArchive configures whether notifications are archived on logout when
// the storage supports it
func WithArchive(enabled bool) Option {
	return func(o *options) error {
		o.archive = enabled
		return nil
	}
}

// WithDialer sets the websocket dialer
func WithDialer(d *websocket.Dialer) Option {
	return func(o *options) error {
		if d != nil {
			o.dialer = d
		}
		return nil
	}
}

// WithDialTimeout bounds dialing plus the live connection handshake
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return errors.NewValidationError("dial_timeout", d, "must be positive")
		}
		o.dialTimeout = d
		return nil
	}
}

// WithClock sets the time source for notification timestamps and token
// expiry checks
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now != nil {
			o.now = now
		}
		return nil
	}
}

// WithIDGenerator sets how ids are generated for local notifications
func WithIDGenerator(fn func() string) Option {
	return func(o *options) error {
		o.newID = fn
		return nil
	}
}
