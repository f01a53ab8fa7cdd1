package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceltrack/parceltrack/internal/socket/sockettest"
	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/logging"
)

// isolate keeps the user's config, .env files and log level out of a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("NO_COLOR", "")
	t.Setenv("PARCELTRACK_PASSWORD", "")
}

func backend(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(req.Body).Decode(&body)
			if body["password"] != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
				return
			}
			_, _ = w.Write([]byte(`{"token":"tok","user":{"_id":"c1","name":"Carol","role":"customer"}}`))
		})
		r.Post("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})
		r.Get("/notifications/my-notifications", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"_id":"n1","message":"Parcel booked","type":"success","createdAt":"2024-05-01T10:00:00Z"}]`))
		})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, in string) (*App, *bytes.Buffer) {
	t.Helper()
	isolate(t)
	api := backend(t)
	sock := sockettest.NewServer(t)
	t.Setenv("PARCELTRACK_API_URL", api.URL+"/api")
	t.Setenv("PARCELTRACK_SOCKET_URL", sock.URL)
	t.Setenv("PARCELTRACK_STORAGE", "memory")

	out := &bytes.Buffer{}
	app, err := New("1.0.0", "abc123", "2024-01-01", "test",
		WithIO(strings.NewReader(in), out),
		WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app, out
}

func TestNew(t *testing.T) {
	isolate(t)
	app, err := New("1.0.0", "abc123", "2024-01-01", "test")
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2024-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	require.NotNil(t, app.Config())
	assert.Equal(t, "sqlite", app.Config().Storage)
}

func TestSetupCommandAppliesFlags(t *testing.T) {
	app, out := newTestApp(t, "")

	require.NoError(t, app.Execute(context.Background(), []string{"--format", "yaml", "--api-url", "http://example.test/api", "version"}))

	assert.Equal(t, "yaml", app.OutputFormat())
	assert.Equal(t, "http://example.test/api", app.Config().APIURL)
	assert.Contains(t, out.String(), "parceltrack version 1.0.0")
}

func TestSetupCommandRejectsBadStorage(t *testing.T) {
	app, _ := newTestApp(t, "")

	err := app.Execute(context.Background(), []string{"--storage", "floppy", "version"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage")
}

func TestLoginWhoamiLogout(t *testing.T) {
	app, out := newTestApp(t, "secret\n")
	ctx := context.Background()

	err := app.Execute(ctx, []string{"whoami", "--offline"})
	assert.True(t, errors.IsNoSession(err))

	require.NoError(t, app.Execute(ctx, []string{"login", "-u", "carol@example.com"}))
	var alert struct {
		Level   string   `json:"level"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &alert))
	assert.Equal(t, "success", alert.Level)
	assert.Equal(t, "Logged in as Carol (customer)", alert.Message)
	assert.Equal(t, []string{"1 unread notification(s)"}, alert.Details)

	out.Reset()
	require.NoError(t, app.Execute(ctx, []string{"whoami"}))
	var who struct {
		User struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
		Connected bool `json:"connected"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &who))
	assert.Equal(t, "c1", who.User.ID)
	assert.True(t, who.Connected)

	out.Reset()
	require.NoError(t, app.Execute(ctx, []string{"notifications", "list", "--format", "table"}))
	assert.Contains(t, out.String(), "Parcel booked")

	out.Reset()
	require.NoError(t, app.Execute(ctx, []string{"logout"}))
	assert.Contains(t, out.String(), `"message":"Logged out"`)

	client, err := app.Client(ctx)
	require.NoError(t, err)
	_, ok := client.Session()
	assert.False(t, ok)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app, _ := newTestApp(t, "")

	err := app.Execute(context.Background(), []string{"login", "-u", "carol@example.com", "-p", "nope"})
	assert.True(t, errors.IsUnauthorized(err))
}
