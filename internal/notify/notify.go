// Package notify keeps the in-memory notification center: every discrete
// event the engine produces lands here and can be listed and acknowledged.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// maxRetained caps the center; the oldest notifications are dropped first.
const maxRetained = 200

// Center is a bounded, newest-first notification inbox. It implements
// port.NotificationSink.
type Center struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

// NewCenter creates an empty notification center.
func NewCenter() *Center {
	return &Center{}
}

// Publish stores a notification. Missing ids and timestamps are filled in.
func (c *Center) Publish(n domain.Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = append([]domain.Notification{n}, c.notifications...)
	if len(c.notifications) > maxRetained {
		c.notifications = c.notifications[:maxRetained]
	}
}

// List returns all notifications, newest first.
func (c *Center) List() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}

// Unread counts the notifications not yet acknowledged.
func (c *Center) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, item := range c.notifications {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkRead acknowledges one notification.
func (c *Center) MarkRead(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.notifications {
		if c.notifications[i].ID == id {
			c.notifications[i].Read = true
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "notification", ID: id}
}

// MarkAllRead acknowledges everything.
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.notifications {
		c.notifications[i].Read = true
	}
}
