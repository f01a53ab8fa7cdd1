package socket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Engine.IO v4 packet types.
const (
	EngineOpen    byte = '0'
	EngineClose   byte = '1'
	EnginePing    byte = '2'
	EnginePong    byte = '3'
	EngineMessage byte = '4'
	EngineUpgrade byte = '5'
	EngineNoop    byte = '6'
)

// Socket.IO v5 packet types, carried inside an Engine.IO message.
const (
	SocketConnect      byte = '0'
	SocketDisconnect   byte = '1'
	SocketEvent        byte = '2'
	SocketAck          byte = '3'
	SocketConnectError byte = '4'
)

// Frame is one decoded text frame.
type Frame struct {
	Engine byte
	// Socket is set only when Engine is EngineMessage.
	Socket byte
	// Event is the event name of a SocketEvent packet.
	Event string
	// Data is the open/connect body or the first event argument.
	Data json.RawMessage
}

// OpenInfo is the body of the Engine.IO open packet.
type OpenInfo struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"`
	PingTimeout  int      `json:"pingTimeout"`
	MaxPayload   int      `json:"maxPayload"`
}

// DecodeFrame parses a text frame. Only the default namespace is
// understood; a namespace prefix is skipped.
func DecodeFrame(b []byte) (Frame, error) {
	if len(b) == 0 {
		return Frame{}, fmt.Errorf("empty frame")
	}
	f := Frame{Engine: b[0]}
	body := b[1:]

	if f.Engine != EngineMessage {
		if f.Engine == EngineOpen {
			f.Data = json.RawMessage(body)
		}
		return f, nil
	}
	if len(body) == 0 {
		return Frame{}, fmt.Errorf("message frame without socket packet")
	}
	f.Socket = body[0]
	body = body[1:]

	if len(body) > 0 && body[0] == '/' {
		if i := bytes.IndexByte(body, ','); i >= 0 {
			body = body[i+1:]
		} else {
			body = nil
		}
	}
	// ack id
	i := 0
	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		i++
	}
	body = body[i:]

	switch f.Socket {
	case SocketEvent, SocketAck:
		var args []json.RawMessage
		if err := json.Unmarshal(body, &args); err != nil {
			return Frame{}, fmt.Errorf("event arguments: %w", err)
		}
		if f.Socket == SocketEvent {
			if len(args) == 0 {
				return Frame{}, fmt.Errorf("event without name")
			}
			if err := json.Unmarshal(args[0], &f.Event); err != nil {
				return Frame{}, fmt.Errorf("event name: %w", err)
			}
			args = args[1:]
		}
		if len(args) > 0 {
			f.Data = args[0]
		}
	default:
		if len(body) > 0 {
			f.Data = json.RawMessage(body)
		}
	}
	return f, nil
}

// EncodeEvent builds a Socket.IO event frame for the default namespace.
func EncodeEvent(event string, payload any) ([]byte, error) {
	args := []any{event}
	if payload != nil {
		args = append(args, payload)
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	return append([]byte{EngineMessage, SocketEvent}, body...), nil
}

// EncodeConnect builds a Socket.IO connect frame carrying auth.
func EncodeConnect(auth any) ([]byte, error) {
	frame := []byte{EngineMessage, SocketConnect}
	if auth == nil {
		return frame, nil
	}
	body, err := json.Marshal(auth)
	if err != nil {
		return nil, err
	}
	return append(frame, body...), nil
}

// EncodeControl builds a frame made of packet type bytes only, such as a
// pong ("3") or a namespace disconnect ("41").
func EncodeControl(types ...byte) []byte {
	return append([]byte(nil), types...)
}

// connectError is the body of a SocketConnectError packet.
type connectError struct {
	Message string `json:"message"`
}

func (f Frame) String() string {
	s := string(f.Engine)
	if f.Engine == EngineMessage {
		s += string(f.Socket)
	}
	if f.Event != "" {
		s += " " + strconv.Quote(f.Event)
	}
	return s
}
