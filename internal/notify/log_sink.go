package notify

import (
	"context"

	"antique-catalog/utils"
)

// LogSink writes every notification to the structured log
type LogSink struct{}

// Notify logs n at info level
func (LogSink) Notify(_ context.Context, n Notification) {
	utils.Info("notification", map[string]any{
		"audience": n.Audience,
		"severity": n.Severity,
		"message":  n.Message,
	})
}
