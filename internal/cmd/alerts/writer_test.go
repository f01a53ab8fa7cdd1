package alerts

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceltrack/parceltrack/internal/cmd/emoji"
	"github.com/parceltrack/parceltrack/internal/cmd/output"
	"github.com/parceltrack/parceltrack/pkg/types"
)

func TestWriteLine(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf, output.FormatTable, false)

	require.NoError(t, w.Write(NewError("Logout failed").WithError(stderrors.New("boom")).WithDetails("try again")))
	assert.Equal(t, emoji.Error+" Logout failed: boom\n   try again\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf, output.FormatJSON, true)

	n := types.Notification{Message: "Payment received", Type: types.NotificationSuccess, Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	require.NoError(t, w.Write(FromNotification(n)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "success", got["level"])
	assert.Equal(t, "Payment received", got["message"])
	assert.Equal(t, "2024-05-01T10:00:00Z", got["timestamp"])
}

func TestWriteYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf, output.FormatYAML, true)

	require.NoError(t, w.Write(NewWarning("Session ended")))
	assert.Contains(t, buf.String(), "---\n")
	assert.Contains(t, buf.String(), "level: warning")
	assert.Contains(t, buf.String(), "message: Session ended")
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelError, LevelFor(types.NotificationError))
	assert.Equal(t, LevelInfo, LevelFor("bogus"))
	assert.Equal(t, emoji.Warning, LevelWarning.Icon())
}
