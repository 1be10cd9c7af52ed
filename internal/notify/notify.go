package notify

//go:generate mockgen -source=notify.go -destination=mock_notify.go -package=notify

import (
	"context"
	"time"
)

// Severity is how a notification is presented
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Audience is who a notification is addressed to
type Audience string

const (
	AudienceAdmin   Audience = "admin"
	AudienceEndUser Audience = "end-user"
)

// IsValid reports whether a is a known audience
func (a Audience) IsValid() bool {
	return a == AudienceAdmin || a == AudienceEndUser
}

// Notification is a user-visible message raised by a catalog event
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Audience  Audience  `json:"audience"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// Sink accepts notifications. Delivery is fire-and-forget: a sink never
// reports failure back to the caller.
type Sink interface {
	Notify(ctx context.Context, n Notification)
}

// Pusher delivers a notification to an external channel.
type Pusher interface {
	Push(ctx context.Context, n Notification) error
	Close() error
}
