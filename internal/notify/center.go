// Package notify holds the transient on-screen notifications: one entry per
// message, self-removing after a fixed display duration or on explicit
// dismissal.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification for display.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notification is one entry in the shared container.
type Notification struct {
	ID      string
	Kind    Kind
	Title   string
	Message string
	At      time.Time
}

// DefaultTTL is how long an entry stays on screen unless dismissed.
const DefaultTTL = 5 * time.Second

// DefaultCap bounds the container; the oldest entry is evicted beyond it.
const DefaultCap = 32

// Center owns the active notifications and fans changes out to subscribers.
type Center struct {
	ttl time.Duration
	cap int

	mu      sync.Mutex
	entries []Notification
	timers  map[string]*time.Timer
	subs    map[chan Notification]struct{}
	closed  bool
}

// NewCenter creates a notification center. ttl <= 0 uses DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl:    ttl,
		cap:    DefaultCap,
		timers: make(map[string]*time.Timer),
		subs:   make(map[chan Notification]struct{}),
	}
}

// Push appends a notification and schedules its auto-dismissal. Returns the
// entry ID.
func (c *Center) Push(kind Kind, title, message string) string {
	n := Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Title:   title,
		Message: message,
		At:      time.Now(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n.ID
	}
	c.entries = append(c.entries, n)
	if len(c.entries) > c.cap {
		evicted := c.entries[0]
		c.entries = c.entries[1:]
		c.stopTimerLocked(evicted.ID)
	}
	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	for ch := range c.subs {
		select {
		case ch <- n:
		default:
			// Drop for slow consumers.
		}
	}
	c.mu.Unlock()

	return n.ID
}

// Dismiss removes an entry. Missing IDs are a no-op.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked(id)
	for i, n := range c.entries {
		if n.ID == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

func (c *Center) stopTimerLocked(id string) {
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
}

// Active returns a snapshot of the current entries, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.entries))
	copy(out, c.entries)
	return out
}

// Subscribe returns a channel receiving every pushed notification. The
// caller must call Unsubscribe when done.
func (c *Center) Subscribe() chan Notification {
	ch := make(chan Notification, 16)
	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (c *Center) Unsubscribe(ch chan Notification) {
	c.mu.Lock()
	if _, ok := c.subs[ch]; ok {
		delete(c.subs, ch)
		close(ch)
	}
	c.mu.Unlock()
}

// Close stops all timers and closes all subscriber channels.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id := range c.timers {
		c.timers[id].Stop()
		delete(c.timers, id)
	}
	for ch := range c.subs {
		close(ch)
		delete(c.subs, ch)
	}
	c.entries = nil
}
