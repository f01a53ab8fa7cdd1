package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/parceltrack/parceltrack/pkg/constants"
	"github.com/parceltrack/parceltrack/pkg/errors"
)

type listener struct {
	id ListenerID
	fn Handler
}

// conn is one connection attempt and, once the handshake succeeds, one
// live Socket.IO session. A closed conn never delivers another event.
type conn struct {
	m        *Manager
	token    string
	endpoint string

	ctx    context.Context
	cancel context.CancelFunc

	lmu       sync.RWMutex
	closed    bool
	listeners map[string][]listener
	ws        *websocket.Conn
	sid       string

	wmu       sync.Mutex
	connected atomic.Bool

	readyOnce sync.Once
	ready     chan struct{}
	readyErr  error

	pingInterval time.Duration
	pingTimeout  time.Duration
}

func newConn(ctx context.Context, m *Manager, token, endpoint string) *conn {
	cctx, cancel := context.WithCancel(ctx)
	return &conn{
		m:            m,
		token:        token,
		endpoint:     endpoint,
		ctx:          cctx,
		cancel:       cancel,
		listeners:    make(map[string][]listener),
		ready:        make(chan struct{}),
		pingInterval: constants.DefaultPingInterval,
		pingTimeout:  constants.DefaultPingTimeout,
	}
}

func (c *conn) run() {
	log := c.m.logger

	dialCtx, cancel := context.WithTimeout(c.ctx, c.m.dialTimeout)
	ws, _, err := c.m.dialer.DialContext(dialCtx, c.endpoint, bearer(c.token))
	cancel()
	if err != nil {
		c.fail(errors.NewTransportError("dial", c.endpoint, err))
		return
	}

	c.lmu.Lock()
	if c.closed {
		c.lmu.Unlock()
		_ = ws.Close()
		c.fail(errors.ErrCanceled)
		return
	}
	c.ws = ws
	c.lmu.Unlock()

	stop := context.AfterFunc(c.ctx, func() { _ = ws.Close() })
	defer stop()

	ws.SetReadLimit(constants.MaxFrameSize)
	if err := c.handshake(ws); err != nil {
		_ = ws.Close()
		c.fail(err)
		return
	}

	c.lmu.Lock()
	if c.closed {
		c.lmu.Unlock()
		_ = ws.Close()
		return
	}
	c.connected.Store(true)
	c.lmu.Unlock()
	c.readyOnce.Do(func() { close(c.ready) })
	log.Info().Str("sid", c.sessionID()).Msg("Socket connected")
	c.dispatch(EventConnect, nil)

	reason := c.readLoop(ws)
	c.connected.Store(false)
	_ = ws.Close()
	if c.isClosed() {
		return
	}
	log.Warn().Str("reason", reason).Msg("Socket disconnected")
	reasonJSON, _ := json.Marshal(reason)
	c.dispatch(EventDisconnect, reasonJSON)
}

// handshake reads the Engine.IO open packet, sends the Socket.IO connect
// packet carrying the token and waits for the server's answer.
func (c *conn) handshake(ws *websocket.Conn) error {
	deadline := time.Now().Add(c.m.dialTimeout)
	_ = ws.SetReadDeadline(deadline)

	f, err := c.readFrame(ws)
	if err != nil {
		return errors.NewTransportError("handshake", c.endpoint, err)
	}
	if f.Engine != EngineOpen {
		return errors.NewTransportError("handshake", c.endpoint, fmt.Errorf("expected open packet, got %s", f))
	}
	var open OpenInfo
	if err := json.Unmarshal(f.Data, &open); err != nil {
		return errors.NewTransportError("handshake", c.endpoint, err)
	}
	if open.PingInterval > 0 {
		c.pingInterval = time.Duration(open.PingInterval) * time.Millisecond
	}
	if open.PingTimeout > 0 {
		c.pingTimeout = time.Duration(open.PingTimeout) * time.Millisecond
	}

	frame, err := EncodeConnect(map[string]string{"token": c.token})
	if err != nil {
		return err
	}
	if err := c.writeTo(ws, frame); err != nil {
		return err
	}

	for {
		f, err := c.readFrame(ws)
		if err != nil {
			return errors.NewTransportError("handshake", c.endpoint, err)
		}
		switch {
		case f.Engine == EnginePing:
			if err := c.writeTo(ws, EncodeControl(EnginePong)); err != nil {
				return err
			}
		case f.Engine == EngineMessage && f.Socket == SocketConnect:
			var body struct {
				SID string `json:"sid"`
			}
			_ = json.Unmarshal(f.Data, &body)
			c.lmu.Lock()
			c.sid = body.SID
			c.lmu.Unlock()
			return nil
		case f.Engine == EngineMessage && f.Socket == SocketConnectError:
			var body connectError
			_ = json.Unmarshal(f.Data, &body)
			return errors.NewTransportError("handshake", c.endpoint, fmt.Errorf("connection refused: %s", body.Message))
		case f.Engine == EngineClose:
			return errors.NewTransportError("handshake", c.endpoint, errors.New("closed by server"))
		}
	}
}

// readLoop delivers frames until the connection ends and returns why.
func (c *conn) readLoop(ws *websocket.Conn) string {
	for {
		_ = ws.SetReadDeadline(time.Now().Add(c.pingInterval + c.pingTimeout))
		f, err := c.readFrame(ws)
		if err != nil {
			if c.ctx.Err() != nil {
				return "client disconnect"
			}
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				return "transport close"
			}
			c.m.logger.Debug().Err(err).Msg("Socket read failed")
			return "transport error"
		}

		switch f.Engine {
		case EnginePing:
			if err := c.write(EncodeControl(EnginePong)); err != nil {
				return "transport error"
			}
		case EngineClose:
			return "transport close"
		case EngineMessage:
			switch f.Socket {
			case SocketEvent:
				c.dispatch(f.Event, f.Data)
			case SocketDisconnect:
				return "io server disconnect"
			}
		}
	}
}

func (c *conn) readFrame(ws *websocket.Conn) (Frame, error) {
	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			return Frame{}, err
		}
		if mt != websocket.TextMessage {
			continue
		}
		f, err := DecodeFrame(data)
		if err != nil {
			c.m.logger.Warn().Err(err).Msg("Dropping malformed socket frame")
			continue
		}
		return f, nil
	}
}

// dispatch calls every listener of event in registration order, stopping
// as soon as the connection is closed.
func (c *conn) dispatch(event string, payload json.RawMessage) {
	c.lmu.RLock()
	if c.closed {
		c.lmu.RUnlock()
		return
	}
	ls := slices.Clone(c.listeners[event])
	c.lmu.RUnlock()

	if len(ls) == 0 {
		c.m.logger.Debug().Str("event", event).Msg("No listener for socket event")
		return
	}
	for _, l := range ls {
		if c.isClosed() {
			return
		}
		c.call(event, l.fn, payload)
	}
}

func (c *conn) call(event string, fn Handler, payload json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			c.m.logger.Error().Str("event", event).Interface("panic", r).Msg("Socket listener panicked")
		}
	}()
	fn(payload)
}

func (c *conn) fail(err error) {
	c.readyOnce.Do(func() {
		c.readyErr = err
		close(c.ready)
	})
	if c.isClosed() {
		return
	}
	c.m.logger.Error().Err(err).Msg("Socket connection error")
	msg, _ := json.Marshal(err.Error())
	c.dispatch(EventConnectError, msg)
}

func (c *conn) write(frame []byte) error {
	c.lmu.RLock()
	ws := c.ws
	closed := c.closed
	c.lmu.RUnlock()
	if ws == nil || closed {
		return errors.ErrNotConnected
	}
	return c.writeTo(ws, frame)
}

func (c *conn) writeTo(ws *websocket.Conn, frame []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	_ = ws.SetWriteDeadline(time.Now().Add(constants.WriteWait))
	if err := ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return errors.NewTransportError("write", c.endpoint, err)
	}
	return nil
}

// close detaches every listener, says goodbye to the server when the
// handshake completed and releases the socket.
func (c *conn) close() {
	c.lmu.Lock()
	if c.closed {
		c.lmu.Unlock()
		return
	}
	c.closed = true
	c.listeners = make(map[string][]listener)
	ws := c.ws
	wasConnected := c.connected.Swap(false)
	c.lmu.Unlock()

	if ws != nil && wasConnected {
		_ = c.writeTo(ws, EncodeControl(EngineMessage, SocketDisconnect))
	}
	c.cancel()
	if ws != nil {
		_ = ws.Close()
	}
	c.readyOnce.Do(func() {
		c.readyErr = errors.ErrCanceled
		close(c.ready)
	})
}

func (c *conn) isClosed() bool {
	c.lmu.RLock()
	defer c.lmu.RUnlock()
	return c.closed
}

func (c *conn) sessionID() string {
	c.lmu.RLock()
	defer c.lmu.RUnlock()
	return c.sid
}

func (c *conn) addListener(event string, id ListenerID, fn Handler) {
	c.lmu.Lock()
	defer c.lmu.Unlock()
	if c.closed {
		return
	}
	c.listeners[event] = append(c.listeners[event], listener{id: id, fn: fn})
}

func (c *conn) removeListener(event string, id ListenerID) {
	c.lmu.Lock()
	defer c.lmu.Unlock()

	if id == 0 {
		delete(c.listeners, event)
		return
	}
	ls := c.listeners[event]
	for i, l := range ls {
		if l.id == id {
			c.listeners[event] = slices.Delete(slices.Clone(ls), i, i+1)
			break
		}
	}
	if len(c.listeners[event]) == 0 {
		delete(c.listeners, event)
	}
}

func (c *conn) eventNames() []string {
	c.lmu.RLock()
	defer c.lmu.RUnlock()

	names := make([]string, 0, len(c.listeners))
	for name := range c.listeners {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
