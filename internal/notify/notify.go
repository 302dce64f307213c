// Package notify carries user-facing outcome notifications. Every operation
// outcome (success, partial success, failure, cancellation) produces exactly
// one notification; sinks decide how to show it.
package notify

import (
	"fmt"
	"sync"
	"time"
)

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one toast-equivalent message.
type Notification struct {
	ID      uint64    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notifications.
type Notifier interface {
	Notify(level Level, format string, args ...interface{})
}

// Func adapts a function to the Notifier interface.
type Func func(level Level, format string, args ...interface{})

func (f Func) Notify(level Level, format string, args ...interface{}) {
	f(level, format, args...)
}

// Discard drops all notifications. Useful in tests.
var Discard Notifier = Func(func(Level, string, ...interface{}) {})

const defaultKeep = 200

// Center buffers recent notifications and fans them out to sinks. The web
// feed reads the buffer; the CLI attaches a printing sink.
type Center struct {
	mu    sync.Mutex
	next  uint64
	keep  int
	items []Notification
	sinks []Notifier
}

// NewCenter creates a notification center.
func NewCenter() *Center {
	return &Center{next: 1, keep: defaultKeep}
}

// Attach adds a sink that receives every future notification.
func (c *Center) Attach(sink Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, sink)
}

// Notify records and fans out one notification.
func (c *Center) Notify(level Level, format string, args ...interface{}) {
	c.mu.Lock()
	n := Notification{
		ID:      c.next,
		Level:   level,
		Message: fmt.Sprintf(format, args...),
		At:      time.Now(),
	}
	c.next++
	c.items = append(c.items, n)
	if len(c.items) > c.keep {
		c.items = c.items[len(c.items)-c.keep:]
	}
	sinks := append([]Notifier(nil), c.sinks...)
	c.mu.Unlock()

	for _, s := range sinks {
		s.Notify(level, "%s", n.Message)
	}
}

// Since returns notifications with ID greater than after, oldest first.
func (c *Center) Since(after uint64) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Notification
	for _, n := range c.items {
		if n.ID > after {
			out = append(out, n)
		}
	}
	return out
}

// Recent returns up to limit of the newest notifications, oldest first.
func (c *Center) Recent(limit int) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limit <= 0 || limit > len(c.items) {
		limit = len(c.items)
	}
	out := make([]Notification, limit)
	copy(out, c.items[len(c.items)-limit:])
	return out
}
