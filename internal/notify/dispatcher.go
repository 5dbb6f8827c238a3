package notify

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

const defaultDeliveryTimeout = 5 * time.Second

// Dispatcher is an asynchronous [Sender]. Send only enqueues; worker
// goroutines started by Run deliver through the wrapped sender.
type Dispatcher struct {
	next    Sender
	queue   chan Message
	workers int
	timeout time.Duration
	logger  *logger.Logger
}

// NewDispatcher wraps next with a queue of queueSize messages drained by
// the given number of workers. Each delivery is bounded by timeout.
func NewDispatcher(next Sender, queueSize, workers int, timeout time.Duration, log *logger.Logger) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}

	return &Dispatcher{
		next:    next,
		queue:   make(chan Message, queueSize),
		workers: workers,
		timeout: timeout,
		logger:  log,
	}
}

// Send enqueues msg without blocking. A full queue drops the message and
// returns [ErrQueueFull].
func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	select {
	case d.queue <- msg:
		return nil
	default:
		logger.FromContext(ctx).Warn().
			Str("kind", string(msg.Kind)).
			Str("to", msg.To).
			Msg("notification queue is full, dropping message")
		return ErrQueueFull
	}
}

// Run delivers queued messages until ctx is cancelled, then flushes what is
// left in the queue and returns.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info().Int("workers", d.workers).Msg("notification dispatcher started")

	var wg sync.WaitGroup
	for range d.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.work(ctx)
		}()
	}
	wg.Wait()

	d.flush(context.WithoutCancel(ctx))
	d.logger.Info().Msg("notification dispatcher stopped")
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.queue:
			d.deliver(ctx, msg)
		}
	}
}

func (d *Dispatcher) flush(ctx context.Context) {
	for {
		select {
		case msg := <-d.queue:
			d.deliver(ctx, msg)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.next.Send(ctx, msg); err != nil {
		d.logger.Err(err).
			Str("func", "Dispatcher.deliver").
			Str("kind", string(msg.Kind)).
			Str("to", msg.To).
			Msg("failed to deliver notification")
		return
	}

	d.logger.Debug().Str("kind", string(msg.Kind)).Str("to", msg.To).Msg("notification delivered")
}
