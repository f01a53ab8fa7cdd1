package socket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		engine byte
		socket byte
		event  string
		data   string
	}{
		{"open", `0{"sid":"abc","pingInterval":25000}`, EngineOpen, 0, "", `{"sid":"abc","pingInterval":25000}`},
		{"ping", `2`, EnginePing, 0, "", ""},
		{"connect ack", `40{"sid":"s1"}`, EngineMessage, SocketConnect, "", `{"sid":"s1"}`},
		{"event", `42["parcel:delivered",{"parcel":{"_id":"p1"}}]`, EngineMessage, SocketEvent, "parcel:delivered", `{"parcel":{"_id":"p1"}}`},
		{"event without data", `42["ping"]`, EngineMessage, SocketEvent, "ping", ""},
		{"event with ack id", `4217["route:updated",{"routeId":"r1"}]`, EngineMessage, SocketEvent, "route:updated", `{"routeId":"r1"}`},
		{"namespaced event", `42/admin,["system:alert",{"message":"x"}]`, EngineMessage, SocketEvent, "system:alert", `{"message":"x"}`},
		{"disconnect", `41`, EngineMessage, SocketDisconnect, "", ""},
		{"connect error", `44{"message":"jwt expired"}`, EngineMessage, SocketConnectError, "", `{"message":"jwt expired"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := DecodeFrame([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.engine, f.Engine)
			assert.Equal(t, tt.socket, f.Socket)
			assert.Equal(t, tt.event, f.Event)
			if tt.data == "" {
				assert.Empty(t, f.Data)
			} else {
				assert.JSONEq(t, tt.data, string(f.Data))
			}
		})
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	for _, in := range []string{"", "4", `42{"not":"array"}`, `42[]`, `42[17]`} {
		_, err := DecodeFrame([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestEncodeEvent(t *testing.T) {
	frame, err := EncodeEvent("parcel:update-status", map[string]string{"parcelId": "p1", "status": "delivered"})
	require.NoError(t, err)
	assert.Equal(t, `42["parcel:update-status",{"parcelId":"p1","status":"delivered"}]`, string(frame))

	f, err := DecodeFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, "parcel:update-status", f.Event)

	bare, err := EncodeEvent("hello", nil)
	require.NoError(t, err)
	assert.Equal(t, `42["hello"]`, string(bare))
}

func TestEncodeConnect(t *testing.T) {
	frame, err := EncodeConnect(map[string]string{"token": "t1"})
	require.NoError(t, err)
	assert.Equal(t, `40{"token":"t1"}`, string(frame))

	f, err := DecodeFrame(frame)
	require.NoError(t, err)
	var auth map[string]string
	require.NoError(t, json.Unmarshal(f.Data, &auth))
	assert.Equal(t, "t1", auth["token"])

	assert.Equal(t, "41", string(EncodeControl(EngineMessage, SocketDisconnect)))
}

func TestSocketURL(t *testing.T) {
	got, err := socketURL("http://localhost:5000")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:5000/socket.io/?EIO=4&transport=websocket", got)

	got, err = socketURL("https://api.example.com/rt/")
	require.NoError(t, err)
	assert.Equal(t, "wss://api.example.com/rt/socket.io/?EIO=4&transport=websocket", got)

	_, err = socketURL("ftp://example.com")
	assert.Error(t, err)
}
