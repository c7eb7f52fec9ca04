package activity

import (
	"context"
	"log/slog"
	"sync"
)

// Notifier consumes one notification to completion.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Pipeline decouples the host's dispatch from classification. Submit never
// blocks; a single worker drains the queue in arrival order.
type Pipeline struct {
	target    Notifier
	logger    *slog.Logger
	queue     chan Notification
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewPipeline creates a pipeline with the given queue capacity.
func NewPipeline(target Notifier, capacity int, logger *slog.Logger) *Pipeline {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Pipeline{
		target: target,
		logger: orDiscard(logger),
		queue:  make(chan Notification, capacity),
		done:   make(chan struct{}),
	}
}

// Start runs the worker until Close is called. ctx is passed to every Notify.
func (p *Pipeline) Start(ctx context.Context) {
	go func() {
		defer close(p.done)
		for n := range p.queue {
			p.target.Notify(ctx, n)
		}
	}()
}

// Submit enqueues n. It returns false when the queue is full or closed.
func (p *Pipeline) Submit(n Notification) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.queue <- n:
		return true
	default:
		p.logger.Warn("activity queue full, dropping notification", "correlation_id", n.CorrelationID, "event", n.Event, "type", n.Kind)
		return false
	}
}

// Depth returns the number of queued notifications.
func (p *Pipeline) Depth() int {
	return len(p.queue)
}

// Close stops accepting notifications and waits for the queue to drain.
// Start must have been called.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
	})
	<-p.done
}
