package queue

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/retailhub/user-service/internal/core/domain"
	"github.com/retailhub/user-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	deliverTimeout = 5 * time.Second
	eventSource    = "user-management"
)

// StreamAppender is the slice of the Redis client the publisher needs.
type StreamAppender interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Publisher delivers domain events to the platform event bus (a Redis
// Stream) through a fixed pool of workers. Publish is fire-and-forget:
// it never blocks the caller and never propagates delivery failures. A
// full buffer drops the event with a warning.
type Publisher struct {
	stream string
	buf    chan domain.Event
	client StreamAppender
	log    zerolog.Logger
	n      int
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewPublisher creates a Publisher writing to the named stream with
// numWorkers delivery workers. If numWorkers <= 0, defaultWorkers is used.
func NewPublisher(client StreamAppender, stream string, numWorkers int, log zerolog.Logger) *Publisher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Publisher{
		stream: stream,
		buf:    make(chan domain.Event, channelBuffer),
		client: client,
		log:    log,
		n:      numWorkers,
	}
}

// Start launches the worker goroutines. Workers run until Stop closes
// the buffer.
func (p *Publisher) Start() {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go p.runWorker(i)
	}
}

// Stop closes the buffer and waits for the workers to drain the queued
// events, up to ctx's deadline. Events still pending when the deadline
// expires are counted as dropped. Call Stop only after request traffic
// has stopped: Publish on a stopped Publisher drops the event.
func (p *Publisher) Stop(ctx context.Context) {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	close(p.buf)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pending := len(p.buf)
		eventsDroppedTotal.Add(float64(pending))
		p.log.Warn().Int("pending", pending).Msg("event drain deadline exceeded")
	}
}

// Publish enqueues an event for asynchronous delivery. The caller's ctx
// is deliberately not used for delivery: the event outlives the request
// that produced it.
func (p *Publisher) Publish(_ context.Context, eventType string, data map[string]any) {
	if p.closed.Load() {
		eventsDroppedTotal.Inc()
		p.log.Warn().Str("event_type", eventType).Msg("publisher stopped, dropping event")
		return
	}

	event := domain.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    eventSource,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	select {
	case p.buf <- event:
	default:
		eventsDroppedTotal.Inc()
		p.log.Warn().Str("event_type", eventType).Msg("event buffer full, dropping event")
	}
}

func (p *Publisher) runWorker(id int) {
	defer p.wg.Done()
	for event := range p.buf {
		p.deliver(id, event)
	}
}

func (p *Publisher) deliver(workerID int, event domain.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Str("event_id", event.ID).Msg("event marshal failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_type": event.Type,
			"payload":    payload,
		},
	}).Err()
	if err != nil {
		p.log.Error().Err(err).
			Str("event_type", event.Type).
			Int("worker_id", workerID).
			Msg("event publish failed")
		return
	}

	eventsPublishedTotal.WithLabelValues(event.Type).Inc()
	p.log.Debug().Str("event_type", event.Type).Str("event_id", event.ID).Msg("event published")
}

var _ ports.EventPublisher = (*Publisher)(nil)
