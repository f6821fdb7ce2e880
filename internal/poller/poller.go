// Package poller runs a check on a fixed interval until it reports completion,
// fails, times out or is stopped.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeout is reported when the hard timeout elapses before completion
var ErrTimeout = errors.New("poller: timed out")

// ErrStopped is reported when Stop is called before completion
var ErrStopped = errors.New("poller: stopped")

// CheckFunc is invoked on every tick. Returning done=true or an error ends the poll.
type CheckFunc func(ctx context.Context) (done bool, err error)

// Poller describes a recurring check
type Poller struct {
	interval time.Duration
	timeout  time.Duration
	check    CheckFunc
	// OnTimeout runs once after the hard timeout, with a fresh context
	OnTimeout func(ctx context.Context)
}

// New creates a Poller. A non-positive timeout disables the hard limit.
func New(interval, timeout time.Duration, check CheckFunc) *Poller {
	return &Poller{interval: interval, timeout: timeout, check: check}
}

// Handle controls a running poll
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	err     error
	stopped bool
}

// Start launches the poll in its own goroutine. The first check runs after one interval.
func (p *Poller) Start(ctx context.Context) *Handle {
	var runCtx context.Context
	var cancel context.CancelFunc
	if p.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, p.timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go p.run(runCtx, ctx, h)
	return h
}

func (p *Poller) run(ctx, parent context.Context, h *Handle) {
	defer close(h.done)
	defer h.cancel()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.finish(p.classify(ctx, parent, h))
			return
		case <-ticker.C:
			done, err := p.check(ctx)
			if err != nil {
				if ctx.Err() != nil {
					err = p.classify(ctx, parent, h)
				}
				h.finish(err)
				return
			}
			if done {
				h.finish(nil)
				return
			}
		}
	}
}

func (p *Poller) classify(ctx, parent context.Context, h *Handle) error {
	h.mu.Lock()
	stopped := h.stopped
	h.mu.Unlock()
	switch {
	case stopped:
		return ErrStopped
	case parent.Err() != nil:
		return parent.Err()
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		if p.OnTimeout != nil {
			p.OnTimeout(context.WithoutCancel(parent))
		}
		return ErrTimeout
	default:
		return ctx.Err()
	}
}

func (h *Handle) finish(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
}

// Stop cancels the poll and waits for its goroutine to exit
func (h *Handle) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	h.cancel()
	<-h.done
}

// Done is closed when the poll ends
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns why the poll ended: nil on completion, ErrTimeout, ErrStopped,
// the parent context error or the check error. It is nil while running.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
