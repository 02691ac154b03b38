package analytics

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Sink receives dispatched events. Errors are logged and otherwise ignored.
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, event Event) error

func (f SinkFunc) Deliver(ctx context.Context, event Event) error { return f(ctx, event) }

// Dispatcher fans events out to sinks on a background worker. Publish never
// blocks the caller: when the queue is full the event is dropped.
type Dispatcher struct {
	logger *zap.Logger
	sinks  []Sink
	queue  chan Event

	mu     sync.RWMutex
	closed bool

	started atomic.Bool
	done    chan struct{}
}

// NewDispatcher 创建分发器，buffer<=0 时使用默认队列长度。
func NewDispatcher(logger *zap.Logger, buffer int, sinks ...Sink) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = 256
	}
	return &Dispatcher{
		logger: logger.Named("analytics"),
		sinks:  sinks,
		queue:  make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// Publish enqueues events for delivery.
func (d *Dispatcher) Publish(events ...Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	for _, ev := range events {
		select {
		case d.queue <- ev:
		default:
			d.logger.Warn("event queue full, dropping event",
				zap.String("event", ev.Name),
				zap.String("session", ev.SessionID))
		}
	}
}

// Run delivers queued events until ctx is cancelled or Close is called.
func (d *Dispatcher) Run(ctx context.Context) {
	d.started.Store(true)
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			d.drain(context.Background())
			return
		case ev, ok := <-d.queue:
			if !ok {
				return
			}
			d.deliver(ctx, ev)
		}
	}
}

// Close stops accepting events and waits for the worker to flush the queue.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	if d.started.Load() {
		<-d.done
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case ev, ok := <-d.queue:
			if !ok {
				return
			}
			d.deliver(ctx, ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	for _, sink := range d.sinks {
		if err := sink.Deliver(ctx, ev); err != nil {
			d.logger.Warn("sink delivery failed",
				zap.String("event", ev.Name),
				zap.Error(err))
		}
	}
}

// LogSink writes every event to the structured log.
func LogSink(logger *zap.Logger) Sink {
	return SinkFunc(func(_ context.Context, ev Event) error {
		logger.Info("pixel event",
			zap.String("event", ev.Name),
			zap.String("session", ev.SessionID),
			zap.String("step", string(ev.Step)),
			zap.Any("params", ev.Params))
		return nil
	})
}
