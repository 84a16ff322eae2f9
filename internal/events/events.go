// Package events publishes domain events (signups, quiz submissions, doses taken)
// to an optional broker.
package events

import (
	"context"
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/constanfit/constanfit/internal/metrics"
)

// Event types, used as routing keys.
const (
	TypeAccountCreated  = "account.created"
	TypeQuizSubmitted   = "quiz.submitted"
	TypeMedicationTaken = "medication.taken"
)

// PublishTimeout is the max time to wait for the broker on an async publish.
const PublishTimeout = 2 * time.Second

// Event is the envelope sent to the broker.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	UserID     string         `json:"user_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Publisher delivers an event to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Dispatcher stamps events and publishes them without blocking the caller.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	metrics   metrics.Recorder
	now       func() time.Time

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
	wg        sync.WaitGroup
}

// NewDispatcher creates a dispatcher over publisher. A nil publisher discards events.
func NewDispatcher(publisher Publisher, logger *slog.Logger, recorder metrics.Recorder) *Dispatcher {
	if publisher == nil {
		publisher = Noop{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Dispatcher{
		publisher: publisher,
		logger:    logger.With("component", "events.dispatcher"),
		metrics:   recorder,
		now:       time.Now,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// Emit builds an event and publishes it in the background.
// Errors are logged but not returned (fire-and-forget).
func (d *Dispatcher) Emit(eventType, userID string, data map[string]any) {
	event := Event{
		ID:         d.newID(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: d.now().UTC(),
		Data:       data,
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		if err := d.publisher.Publish(ctx, event); err != nil {
			d.logger.Warn("failed to publish event",
				"event_type", event.Type,
				"event_id", event.ID,
				"error", err,
			)
			d.metrics.IncEventPublished("dropped")
			return
		}

		d.logger.Debug("event published", "event_type", event.Type, "event_id", event.ID)
		d.metrics.IncEventPublished("success")
	}()
}

// Close waits for in-flight publishes and closes the publisher.
func (d *Dispatcher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.logger.Warn("shutdown deadline reached with events in flight")
	}
	return d.publisher.Close()
}

func (d *Dispatcher) newID() string {
	d.entropyMu.Lock()
	defer d.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(d.now()), d.entropy).String()
}

// Noop discards every event.
type Noop struct{}

// Publish is a no-op.
func (Noop) Publish(context.Context, Event) error { return nil }

// Close is a no-op.
func (Noop) Close() error { return nil }
