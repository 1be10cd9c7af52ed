package queue

import (
	"context"
	"fmt"
	"sync"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/utils"
)

// Mutation reads current state, computes the next state and persists it.
type Mutation func(ctx context.Context) error

type job struct {
	ctx  context.Context
	fn   Mutation
	done chan error
}

// Queue runs mutations one at a time in the order they were enqueued. A
// mutation starts only after the previous one, including everything it waits
// on, has returned.
type Queue struct {
	mu      sync.Mutex
	pending []job
	running bool
	closed  bool
	wg      sync.WaitGroup
}

// New creates an empty queue. No goroutine runs while the queue is idle.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends fn to the pending sequence and returns a channel that
// receives its result once it has run. Mutations cannot be cancelled once
// enqueued; ctx is only handed to fn.
func (q *Queue) Enqueue(ctx context.Context, fn Mutation) <-chan error {
	done := make(chan error, 1)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		done <- catalogerrors.ErrQueueClosed
		return done
	}

	q.pending = append(q.pending, job{ctx: context.WithoutCancel(ctx), fn: fn, done: done})
	if !q.running {
		q.running = true
		q.wg.Add(1)
		go q.drain()
	}
	return done
}

// Do enqueues fn and waits for its result. If ctx ends first Do returns
// ctx.Err() while fn still runs in its turn.
func (q *Queue) Do(ctx context.Context, fn Mutation) error {
	done := q.Enqueue(ctx, fn)
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of mutations waiting to start.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close rejects further mutations and waits for the pending ones to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.wg.Wait()
}

// drain is the single worker; it exits when the pending sequence is empty
func (q *Queue) drain() {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		next := q.pending[0]
		q.pending[0] = job{}
		q.pending = q.pending[1:]
		q.mu.Unlock()

		next.done <- run(next)
	}
}

func run(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			utils.Error("mutation panicked", map[string]any{"panic": fmt.Sprint(r)})
			err = fmt.Errorf("mutation panicked: %v", r)
		}
	}()
	return j.fn(j.ctx)
}
