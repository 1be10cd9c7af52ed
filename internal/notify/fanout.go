package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"antique-catalog/utils"
)

// DefaultPushTimeout bounds a single push delivery
const DefaultPushTimeout = 5 * time.Second

// Fanout forwards every notification to its sinks in order and to each
// pusher in the background. Push failures are logged and dropped.
type Fanout struct {
	sinks   []Sink
	pushers []Pusher
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewFanout creates a Fanout over the given sinks and pushers
func NewFanout(sinks []Sink, pushers []Pusher, timeout time.Duration) *Fanout {
	if timeout <= 0 {
		timeout = DefaultPushTimeout
	}
	return &Fanout{sinks: sinks, pushers: pushers, timeout: timeout}
}

// Notify delivers n to every sink, then starts pushes
func (f *Fanout) Notify(ctx context.Context, n Notification) {
	for _, s := range f.sinks {
		s.Notify(ctx, n)
	}

	for _, p := range f.pushers {
		f.wg.Add(1)
		go func(p Pusher) {
			defer f.wg.Done()
			pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
			defer cancel()
			if err := p.Push(pushCtx, n); err != nil {
				utils.Warn("notification push failed", map[string]any{
					"audience": n.Audience,
					"error":    err.Error(),
				})
			}
		}(p)
	}
}

// Close waits for in-flight pushes and closes every pusher
func (f *Fanout) Close() error {
	f.wg.Wait()

	var errs []error
	for _, p := range f.pushers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
