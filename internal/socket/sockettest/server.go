// Package sockettest provides an in-process Socket.IO server for tests,
// in the spirit of net/http/httptest.
package sockettest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/parceltrack/parceltrack/internal/socket"
)

// Message is an event received from a client.
type Message struct {
	Conn    *Conn
	Event   string
	Payload json.RawMessage
}

// Server accepts Engine.IO v4 websocket connections and completes the
// Socket.IO handshake.
type Server struct {
	*httptest.Server

	t        testing.TB
	upgrader websocket.Upgrader
	reject   func(token string) string
	greeting []greeting

	mu    sync.Mutex
	conns []*Conn
	seq   int

	accepted chan *Conn
	received chan Message
}

// Option configures a Server.
type Option func(*Server)

// WithTokenCheck rejects connections for which check returns a non-empty
// message, answering with a connect error.
func WithTokenCheck(check func(token string) string) Option {
	return func(s *Server) { s.reject = check }
}

type greeting struct {
	event   string
	payload any
}

// WithGreeting makes the server emit event to every client as soon as its
// handshake completes, before the test sees the connection.
func WithGreeting(event string, payload any) Option {
	return func(s *Server) { s.greeting = append(s.greeting, greeting{event, payload}) }
}

// NewServer starts a server and closes it on test cleanup.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{
		t:        t,
		accepted: make(chan *Conn, 64),
		received: make(chan Message, 256),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Close disconnects every client and shuts the server down.
func (s *Server) Close() {
	s.mu.Lock()
	conns := append([]*Conn(nil), s.conns...)
	s.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
	s.Server.Close()
}

// Accept waits for the next client that completed the handshake.
func (s *Server) Accept(timeout time.Duration) *Conn {
	s.t.Helper()
	select {
	case c := <-s.accepted:
		return c
	case <-time.After(timeout):
		s.t.Fatalf("no socket client connected within %s", timeout)
		return nil
	}
}

// Received returns events sent by clients.
func (s *Server) Received() <-chan Message {
	return s.received
}

// Live returns the number of connected clients.
func (s *Server) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.conns {
		select {
		case <-c.done:
		default:
			n++
		}
	}
	return n
}

// Broadcast emits an event to every connected client.
func (s *Server) Broadcast(event string, payload any) {
	s.mu.Lock()
	conns := append([]*Conn(nil), s.conns...)
	s.mu.Unlock()
	for _, c := range conns {
		_ = c.Emit(event, payload)
	}
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("EIO") != "4" || r.URL.Query().Get("transport") != "websocket" {
		http.Error(w, "unsupported transport", http.StatusBadRequest)
		return
	}
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.seq++
	sid := fmt.Sprintf("sid-%d", s.seq)
	s.mu.Unlock()

	c := &Conn{ws: ws, SID: sid, Header: r.Header.Clone(), done: make(chan struct{})}
	open, _ := json.Marshal(socket.OpenInfo{SID: sid, PingInterval: 25000, PingTimeout: 20000, MaxPayload: 1000000})
	if err := c.write(append([]byte{socket.EngineOpen}, open...)); err != nil {
		c.Close()
		return
	}

	_, data, err := ws.ReadMessage()
	if err != nil {
		c.Close()
		return
	}
	f, err := socket.DecodeFrame(data)
	if err != nil || f.Engine != socket.EngineMessage || f.Socket != socket.SocketConnect {
		c.Close()
		return
	}
	var auth struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(f.Data, &auth)
	c.Token = auth.Token

	if s.reject != nil {
		if msg := s.reject(auth.Token); msg != "" {
			body, _ := json.Marshal(map[string]string{"message": msg})
			_ = c.write(append([]byte{socket.EngineMessage, socket.SocketConnectError}, body...))
			c.Close()
			return
		}
	}

	s.mu.Lock()
	s.conns = append(s.conns, c)
	s.mu.Unlock()

	body, _ := json.Marshal(map[string]string{"sid": sid})
	if err := c.write(append([]byte{socket.EngineMessage, socket.SocketConnect}, body...)); err != nil {
		c.Close()
		return
	}
	for _, g := range s.greeting {
		if err := c.Emit(g.event, g.payload); err != nil {
			c.Close()
			return
		}
	}
	select {
	case s.accepted <- c:
	default:
	}

	c.readLoop(s.received)
}

// Conn is the server side of one client connection.
type Conn struct {
	SID    string
	Token  string
	Header http.Header

	ws        *websocket.Conn
	wmu       sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Emit sends an event to the client.
func (c *Conn) Emit(event string, payload any) error {
	frame, err := socket.EncodeEvent(event, payload)
	if err != nil {
		return err
	}
	return c.write(frame)
}

// EmitRaw sends an event whose payload is already encoded JSON.
func (c *Conn) EmitRaw(event string, payload string) error {
	return c.Emit(event, json.RawMessage(payload))
}

// Ping sends an Engine.IO ping.
func (c *Conn) Ping() error {
	return c.write(socket.EncodeControl(socket.EnginePing))
}

// Kick disconnects the client from the server side.
func (c *Conn) Kick() {
	_ = c.write(socket.EncodeControl(socket.EngineMessage, socket.SocketDisconnect))
	c.Close()
}

// Done is closed once the client has gone away.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close drops the connection.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		_ = c.ws.Close()
		close(c.done)
	})
}

func (c *Conn) write(frame []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.ws.WriteMessage(websocket.TextMessage, frame)
}

func (c *Conn) readLoop(out chan<- Message) {
	defer c.Close()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		f, err := socket.DecodeFrame(data)
		if err != nil {
			continue
		}
		switch {
		case f.Engine == socket.EngineMessage && f.Socket == socket.SocketEvent:
			select {
			case out <- Message{Conn: c, Event: f.Event, Payload: f.Data}:
			case <-c.done:
				return
			}
		case f.Engine == socket.EngineMessage && f.Socket == socket.SocketDisconnect:
			return
		case f.Engine == socket.EngineClose:
			return
		}
	}
}
