// Package notify keeps short-lived user notifications ("toasts") that the
// web layer renders on the next page view.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultLifetime is how long a toast stays visible.
const DefaultLifetime = 4 * time.Second

// maxToasts bounds the queue; the oldest toasts are dropped first.
const maxToasts = 20

// Level is the toast severity.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Toast is a single transient notification.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier raises user-facing notifications.
type Notifier interface {
	Error(message string) Toast
	Info(message string) Toast
}

// Center is an in-memory Notifier. Safe for concurrent use.
type Center struct {
	mu       sync.Mutex
	toasts   []Toast
	lifetime time.Duration
	now      func() time.Time
}

// NewCenter creates a notification center. A non-positive lifetime uses
// DefaultLifetime.
func NewCenter(lifetime time.Duration) *Center {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Center{
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Error raises an error toast.
func (c *Center) Error(message string) Toast {
	return c.push(LevelError, message)
}

// Info raises an informational toast.
func (c *Center) Info(message string) Toast {
	return c.push(LevelInfo, message)
}

func (c *Center) push(level Level, message string) Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	t := Toast{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.lifetime),
	}

	c.toasts = append(c.toasts, t)
	if len(c.toasts) > maxToasts {
		c.toasts = c.toasts[len(c.toasts)-maxToasts:]
	}
	return t
}

// Active returns toasts that have not expired yet, oldest first.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	c.toasts = kept

	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}

// Dismiss removes a toast by ID. It reports whether the toast existed.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return true
		}
	}
	return false
}
