package push

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/inkwell-social/inkwell-cli/pkg/logger"
	json "github.com/json-iterator/go"
)

// State represents the state of the push connection
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Envelope is the wire frame the push broker sends
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

const (
	frameTypeNotification = "notification"
	frameTypeError        = "error"
)

// subscribeFrame is sent once per connection to bind it to a topic
type subscribeFrame struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// Config holds push client configuration
type Config struct {
	URL              string // full ws:// or wss:// endpoint
	HandshakeTimeout time.Duration
	ReconnectDelay   time.Duration
	Jar              http.CookieJar // session cookies ride along on the handshake
}

// DefaultConfig returns the platform defaults. The reconnect delay is fixed;
// a dropped connection retries at this cadence for as long as the client is
// alive.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		ReconnectDelay:   5 * time.Second,
	}
}

// Client owns a single push connection scoped to one topic. Connect and
// Disconnect are the only entry points; everything between them (subscribe,
// reconnect, decode) is internal so callbacks cannot leak across identity
// switches.
type Client struct {
	config Config

	mu      sync.Mutex
	conn    *websocket.Conn
	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	state atomic.Int32
}

// NewClient creates a push client in the disconnected state
func NewClient(config Config) *Client {
	c := &Client{config: config}
	c.setState(StateDisconnected)
	return c
}

// Connect binds the client to a topic and starts delivering decoded event
// payloads to onEvent. The connection is maintained in the background:
// drops fall back to connecting and retry at the fixed delay, never a
// terminal failure. Returns an error if the client is already connected.
func (c *Client) Connect(topic string, onEvent func([]byte)) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("push client already connected")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true
	done := c.done
	c.mu.Unlock()

	go c.run(ctx, done, topic, onEvent)
	return nil
}

// Disconnect tears the connection down and waits for the background loop to
// exit, so a subsequent Connect can never race a stale read loop.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	cancel := c.cancel
	done := c.done
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	cancel()
	if conn != nil {
		// Unblocks the read loop
		conn.Close()
	}
	<-done

	c.setState(StateDisconnected)
	logger.Debug("Push connection closed")
}

// State returns the current connection state
func (c *Client) State() State {
	return State(c.state.Load())
}

// IsConnected returns true if the subscription is live
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

func (c *Client) run(ctx context.Context, done chan struct{}, topic string, onEvent func([]byte)) {
	defer close(done)

	for {
		c.setState(StateConnecting)

		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Debug("Push dial failed", "error", err)
			if !c.waitReconnect(ctx) {
				return
			}
			continue
		}

		if err := conn.WriteJSON(subscribeFrame{Action: "subscribe", Topic: topic}); err != nil {
			logger.Debug("Push subscribe failed", "error", err)
			conn.Close()
			if !c.waitReconnect(ctx) {
				return
			}
			continue
		}

		c.mu.Lock()
		if !c.running {
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.mu.Unlock()

		c.setState(StateConnected)
		logger.Debug("Push connected", "topic", topic)

		c.readLoop(conn, onEvent)

		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		conn.Close()

		if ctx.Err() != nil {
			return
		}

		// Dropped; fall back to connecting and keep retrying
		if !c.waitReconnect(ctx) {
			return
		}
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.HandshakeTimeout,
		Jar:              c.config.Jar,
	}
	conn, _, err := dialer.DialContext(ctx, c.config.URL, nil)
	return conn, err
}

// readLoop delivers frames until the connection drops or a protocol error
// occurs. Protocol errors surface as StateError and drop the connection, but
// reconnection continues regardless.
func (c *Client) readLoop(conn *websocket.Conn, onEvent func([]byte)) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			logger.Debug("Push read ended", "error", err)
			return
		}

		var frame Envelope
		if err := json.Unmarshal(data, &frame); err != nil {
			c.setState(StateError)
			logger.Error("Malformed push frame", "error", err)
			return
		}

		switch frame.Type {
		case frameTypeNotification:
			onEvent(frame.Payload)
		case frameTypeError:
			c.setState(StateError)
			logger.Error("Push server rejected subscription", "payload", string(frame.Payload))
			return
		default:
			logger.Debug("Ignoring push frame", "type", frame.Type)
		}
	}
}

// waitReconnect sleeps for the fixed reconnect delay; false means teardown
func (c *Client) waitReconnect(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.config.ReconnectDelay):
		return true
	}
}

func (c *Client) setState(state State) {
	c.state.Store(int32(state))
}
