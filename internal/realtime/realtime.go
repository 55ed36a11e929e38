// Package realtime maintains the live channel to the server: push
// notifications, file-change broadcasts and presence updates, with bounded
// automatic reconnection.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/filebox/filebox/pkg/protocol"
)

// Status is the connection state exposed to UI chrome.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Handlers receives inbound messages by type. Nil handlers drop their
// messages.
type Handlers struct {
	OnNotification func(protocol.Notification)
	OnFileUpdate   func(protocol.FileUpdate)
	OnUserActivity func(protocol.UserActivity)
	OnChat         func(protocol.ChatMessage)
	OnFileStatus   func(protocol.FileStatus)
}

// Config holds realtime client configuration.
type Config struct {
	// ServerURL is the http(s) base URL of the server; the client derives
	// the ws(s) endpoint from it.
	ServerURL string
	// Token supplies the current session credential. An empty credential
	// makes Connect a silent no-op.
	Token func() string
	// MaxReconnectAttempts caps consecutive failed connect attempts
	// (default 5). The counter resets to zero on every successful connect.
	MaxReconnectAttempts int
	// ReconnectInterval is the fixed delay between attempts (default 3s).
	// No backoff, no jitter.
	ReconnectInterval time.Duration
	Handlers          Handlers
	// OnStatus observes connection-state changes.
	OnStatus func(Status)
	Logger   *zap.Logger
}

// Client is the realtime channel client.
type Client struct {
	cfg Config
	log *zap.Logger

	mu     sync.Mutex
	status Status
	conn   *websocket.Conn
	cancel context.CancelFunc
}

// New creates a realtime client. Connect must be called to start it.
func New(cfg Config) *Client {
	if cfg.MaxReconnectAttempts == 0 {
		cfg.MaxReconnectAttempts = 5
	}
	if cfg.ReconnectInterval == 0 {
		cfg.ReconnectInterval = 3 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Token == nil {
		cfg.Token = func() string { return "" }
	}
	return &Client{cfg: cfg, log: cfg.Logger}
}

// Status returns the current connection state.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Client) setStatus(s Status) {
	c.mu.Lock()
	changed := c.status != s
	c.status = s
	c.mu.Unlock()
	if changed && c.cfg.OnStatus != nil {
		c.cfg.OnStatus(s)
	}
}

// endpoint derives the websocket URL from the configured server URL.
func (c *Client) endpoint() string {
	u := strings.TrimSuffix(c.cfg.ServerURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}

// Connect starts the channel. Without a stored credential it is a silent
// no-op, not an error. The connection lives until ctx is cancelled,
// Disconnect is called, or the reconnection cap is exhausted.
func (c *Client) Connect(ctx context.Context) {
	if c.cfg.Token() == "" {
		c.log.Debug("no credential, realtime channel not started")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		cancel()
		return // already running
	}
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(runCtx)
}

// Disconnect tears down the transport immediately and unconditionally.
func (c *Client) Disconnect() {
	c.mu.Lock()
	cancel := c.cancel
	conn := c.conn
	c.cancel = nil
	c.conn = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
	c.setStatus(StatusDisconnected)
}

// HandleTokenChange reacts to a session credential changing underneath a
// running channel: a removed credential tears the transport down, a
// replaced one tears down and redials with the new bearer. The caller must
// update its credential source before invoking this.
func (c *Client) HandleTokenChange(ctx context.Context) {
	c.Disconnect()
	if c.cfg.Token() != "" {
		c.Connect(ctx)
	}
}

func (c *Client) run(ctx context.Context) {
	attempts := 0

	for {
		c.setStatus(StatusConnecting)
		conn, err := c.dial(ctx)
		if err != nil {
			c.setStatus(StatusDisconnected)
			if ctx.Err() != nil {
				return
			}
			attempts++
			c.log.Error("realtime connect failed",
				zap.Int("attempt", attempts),
				zap.Int("max", c.cfg.MaxReconnectAttempts),
				zap.Error(err))
			if attempts >= c.cfg.MaxReconnectAttempts {
				c.log.Error("max reconnection attempts reached")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.cfg.ReconnectInterval):
			}
			continue
		}

		attempts = 0
		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		c.setStatus(StatusConnected)
		c.log.Info("realtime channel connected", zap.String("endpoint", c.endpoint()))

		c.subscribe(conn)
		c.readLoop(ctx, conn)

		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		conn.Close()

		// A cancelled loop must not overwrite the state of a successor
		// started by a later Connect.
		if ctx.Err() != nil {
			return
		}
		c.setStatus(StatusDisconnected)

		// Fixed delay before the first reconnect attempt after a drop.
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.ReconnectInterval):
		}
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if token := c.cfg.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, c.endpoint(), header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

// subscribe sends the four fixed subscriptions right after the handshake.
func (c *Client) subscribe(conn *websocket.Conn) {
	subs := []protocol.SubscribeFrame{
		{Command: "SUBSCRIBE", Destination: protocol.TopicUserNotifications, ID: "notifications"},
		{Command: "SUBSCRIBE", Destination: protocol.TopicNotifications, ID: "broadcast-notifications"},
		{Command: "SUBSCRIBE", Destination: protocol.TopicFileUpdates, ID: "file-updates"},
		{Command: "SUBSCRIBE", Destination: protocol.TopicUserActivity, ID: "user-activity"},
	}
	for _, s := range subs {
		if err := conn.WriteJSON(s); err != nil {
			c.log.Error("subscribe failed", zap.String("destination", s.Destination), zap.Error(err))
			return
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.log.Error("realtime read failed", zap.Error(err))
			}
			return
		}
		c.dispatch(data)
	}
}

// send writes an outbound application frame. No-op unless connected.
func (c *Client) send(destination string, body interface{}) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		c.log.Debug("realtime channel not connected, message dropped",
			zap.String("destination", destination))
		return
	}
	if err := conn.WriteJSON(protocol.SendFrame{Destination: destination, Body: body}); err != nil {
		c.log.Error("realtime send failed", zap.Error(err))
	}
}

// SendChat sends a chat message.
func (c *Client) SendChat(sender, message string) {
	c.send("/app/chat", protocol.ChatMessage{Sender: sender, Message: message})
}

// SendFileStatus reports transfer progress for a file.
func (c *Client) SendFileStatus(fileName, status string, progress float64) {
	c.send("/app/file-status", protocol.FileStatus{FileName: fileName, Status: status, Progress: progress})
}

// SendTyping reports the user's typing state.
func (c *Client) SendTyping(userID int64, username string, isTyping bool) {
	c.send("/app/user-typing", protocol.UserActivity{UserID: userID, Username: username, IsTyping: isTyping})
}

// dispatch decodes a tagged payload and routes it to its handler. Unknown
// tags are logged and dropped.
func (c *Client) dispatch(data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.log.Error("malformed realtime message", zap.Error(err))
		return
	}
	h := c.cfg.Handlers
	switch env.Type {
	case protocol.MessageNotification:
		var n protocol.Notification
		if json.Unmarshal(data, &n) == nil && h.OnNotification != nil {
			h.OnNotification(n)
		}
	case protocol.MessageFileUpdate:
		var u protocol.FileUpdate
		if json.Unmarshal(data, &u) == nil && h.OnFileUpdate != nil {
			h.OnFileUpdate(u)
		}
	case protocol.MessageUserActivity:
		var a protocol.UserActivity
		if json.Unmarshal(data, &a) == nil && h.OnUserActivity != nil {
			h.OnUserActivity(a)
		}
	case protocol.MessageChat:
		var m protocol.ChatMessage
		if json.Unmarshal(data, &m) == nil && h.OnChat != nil {
			h.OnChat(m)
		}
	case protocol.MessageFileStatus:
		var s protocol.FileStatus
		if json.Unmarshal(data, &s) == nil && h.OnFileStatus != nil {
			h.OnFileStatus(s)
		}
	default:
		c.log.Debug("unknown realtime message type", zap.String("type", env.Type))
	}
}
