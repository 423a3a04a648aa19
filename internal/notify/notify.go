// Package notify implements the transient notification channel: at most one
// live message per severity, each cleared automatically after a fixed delay.
package notify

import (
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/bloglist/internal/model"
)

// DefaultExpiry is how long a notification stays visible.
const DefaultExpiry = 3000 * time.Millisecond

// EventKind says whether an event shows or clears a message.
type EventKind int

const (
	Shown EventKind = iota
	Cleared
)

// Event is delivered to subscribers on every state change.
type Event struct {
	Kind         EventKind
	Severity     model.Severity
	Notification model.Notification // zero for Cleared
}

type slot struct {
	msg   *model.Notification
	timer *time.Timer
	gen   uint64
}

// Channel holds the live notification for each severity.
type Channel struct {
	expiry time.Duration
	logger *slog.Logger

	mu     sync.Mutex
	slots  map[model.Severity]*slot
	subs   []func(Event)
	closed bool
}

// Option configures a Channel.
type Option func(*Channel)

// WithExpiry overrides DefaultExpiry.
func WithExpiry(d time.Duration) Option {
	return func(c *Channel) { c.expiry = d }
}

// New creates a Channel.
func New(logger *slog.Logger, opts ...Option) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Channel{
		expiry: DefaultExpiry,
		logger: logger,
		slots:  make(map[model.Severity]*slot),
	}
	for _, o := range opts {
		o(c)
	}
	for _, sev := range model.Severities {
		c.slots[sev] = &slot{}
	}
	return c
}

// Subscribe registers fn to receive events. fn is called without the
// channel lock held, possibly from a timer goroutine.
func (c *Channel) Subscribe(fn func(Event)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Show replaces the live message for sev and restarts its expiry timer.
func (c *Channel) Show(sev model.Severity, text string) {
	now := time.Now()
	n := model.Notification{
		ID:       ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		Severity: sev,
		Text:     text,
		IssuedAt: now,
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	s, ok := c.slots[sev]
	if !ok {
		s = &slot{}
		c.slots[sev] = s
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.msg = &n
	s.timer = time.AfterFunc(c.expiry, func() { c.expire(sev, gen) })
	subs := c.subscribers()
	c.mu.Unlock()

	if sev == model.SeverityError {
		c.logger.Error("notification", slog.String("severity", string(sev)), slog.String("text", text))
	} else {
		c.logger.Info("notification", slog.String("severity", string(sev)), slog.String("text", text))
	}
	for _, fn := range subs {
		fn(Event{Kind: Shown, Severity: sev, Notification: n})
	}
}

// expire clears sev unless a newer Show has happened since the timer was armed.
func (c *Channel) expire(sev model.Severity, gen uint64) {
	c.mu.Lock()
	if s := c.slots[sev]; s.gen != gen {
		c.mu.Unlock()
		return
	}
	c.clearLocked(sev)
}

// Clear removes the live message for sev.
func (c *Channel) Clear(sev model.Severity) {
	c.mu.Lock()
	c.clearLocked(sev)
}

// clearLocked must be called with c.mu held; it releases it.
func (c *Channel) clearLocked(sev model.Severity) {
	s, ok := c.slots[sev]
	if !ok || s.msg == nil {
		c.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.msg = nil
	subs := c.subscribers()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Kind: Cleared, Severity: sev})
	}
}

// Current returns the live message for sev.
func (c *Channel) Current(sev model.Severity) (model.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[sev]
	if !ok || s.msg == nil {
		return model.Notification{}, false
	}
	return *s.msg, true
}

// Close stops all pending timers. Later calls to Show are ignored.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, s := range c.slots {
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
	}
}

func (c *Channel) subscribers() []func(Event) {
	out := make([]func(Event), len(c.subs))
	copy(out, c.subs)
	return out
}
