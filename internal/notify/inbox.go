package notify

import (
	"context"
	"fmt"
	"sync"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/internal/pkg/clock"
	"antique-catalog/utils"
)

// DefaultInboxCapacity is how many notifications each audience retains
const DefaultInboxCapacity = 200

// Inbox keeps the most recent notifications per audience in memory
type Inbox struct {
	mu       sync.RWMutex
	capacity int
	clock    clock.Clock
	byAud    map[Audience][]Notification
}

// NewInbox creates an Inbox. capacity <= 0 uses DefaultInboxCapacity.
func NewInbox(capacity int, clk clock.Clock) *Inbox {
	if capacity <= 0 {
		capacity = DefaultInboxCapacity
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Inbox{
		capacity: capacity,
		clock:    clk,
		byAud:    make(map[Audience][]Notification),
	}
}

// Notify stores n, assigning an ID and timestamp when missing. The oldest
// entry is dropped once the audience is at capacity.
func (i *Inbox) Notify(_ context.Context, n Notification) {
	if n.ID == "" {
		n.ID = utils.GenerateID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = i.clock.Now()
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	list := append(i.byAud[n.Audience], n)
	if len(list) > i.capacity {
		list = list[len(list)-i.capacity:]
	}
	i.byAud[n.Audience] = list
}

// List returns the notifications for audience, newest first
func (i *Inbox) List(audience Audience) ([]Notification, error) {
	if !audience.IsValid() {
		return nil, fmt.Errorf("inbox: %w - %q", catalogerrors.ErrInvalidAudience, audience)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	list := i.byAud[audience]
	out := make([]Notification, len(list))
	for k, n := range list {
		out[len(list)-1-k] = n
	}
	return out, nil
}

// MarkRead flags the notification with the given id as read
func (i *Inbox) MarkRead(id string) (Notification, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	for aud, list := range i.byAud {
		for k := range list {
			if list[k].ID == id {
				list[k].Read = true
				i.byAud[aud] = list
				return list[k], nil
			}
		}
	}
	return Notification{}, fmt.Errorf("inbox: %w - %s", catalogerrors.ErrNotificationNotFound, id)
}
