package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceltrack/parceltrack/internal/config"
	"github.com/parceltrack/parceltrack/pkg/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parceltrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), constants.FilePermissions))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, constants.DefaultSocketURL, cfg.SocketURL)
	assert.Equal(t, "sqlite", cfg.Storage)
	assert.Equal(t, constants.DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.True(t, cfg.ArchiveOnLogout)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadFileAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
api_url: https://api.example.com/api/
socket_url: https://live.example.com
storage: memory
dial_timeout: 3s
archive_on_logout: false
`)
	t.Setenv("PARCELTRACK_SOCKET_URL", "wss://override.example.com")

	cfg, err := config.Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api", cfg.APIURL)
	assert.Equal(t, "wss://override.example.com", cfg.SocketURL)
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, 3*time.Second, cfg.DialTimeout)
	assert.False(t, cfg.ArchiveOnLogout)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("PARCELTRACK_STORAGE=keyring\n"), constants.FilePermissions))
	t.Cleanup(func() { _ = os.Unsetenv("PARCELTRACK_STORAGE") })

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "keyring", cfg.Storage)
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := config.Load(viper.New(), writeConfig(t, "storage: floppy\n"))
	assert.ErrorContains(t, err, "storage")

	_, err = config.Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
