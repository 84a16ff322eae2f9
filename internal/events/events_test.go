package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/constanfit/constanfit/internal/metrics"
	"github.com/constanfit/constanfit/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
	closed bool
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_EmitPublishesEnvelope(t *testing.T) {
	pub := &recordingPublisher{}
	rec := metrics.NewInMemory()
	d := NewDispatcher(pub, discardLogger(), rec)

	d.Emit(TypeQuizSubmitted, "user-1", map[string]any{"goal": "lose_weight"})
	d.Emit(TypeMedicationTaken, "user-1", nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(pub.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(pub.events))
	}
	if !pub.closed {
		t.Error("publisher should be closed")
	}

	ids := map[string]bool{}
	for _, e := range pub.events {
		if e.ID == "" || e.UserID != "user-1" || e.OccurredAt.IsZero() {
			t.Errorf("incomplete envelope: %+v", e)
		}
		ids[e.ID] = true
	}
	if len(ids) != 2 {
		t.Error("event ids must be unique")
	}
	if got := rec.Snapshot().EventsPublished["success"]; got != 2 {
		t.Errorf("expected 2 successful publishes, got %d", got)
	}
}

func TestDispatcher_PublishFailureIsDropped(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	rec := metrics.NewInMemory()
	d := NewDispatcher(pub, discardLogger(), rec)

	d.Emit(TypeAccountCreated, "user-1", nil)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := rec.Snapshot().EventsPublished["dropped"]; got != 1 {
		t.Errorf("expected 1 dropped event, got %d", got)
	}
}

func TestDispatcher_NilPublisherDiscards(t *testing.T) {
	d := NewDispatcher(nil, discardLogger(), nil)
	d.Emit(TypeAccountCreated, "user-1", nil)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestRedisPublisher_AppendsToStream(t *testing.T) {
	ctx := context.Background()
	_, client := testutil.NewRedis(t)
	pub := NewRedisPublisher(client)

	event := Event{ID: "01J0000000000000000000000A", Type: TypeAccountCreated, UserID: "user-1", OccurredAt: time.Now().UTC()}
	if err := pub.Publish(ctx, event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs, err := client.XRange(ctx, StreamKey, "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 stream entry, got %d", len(msgs))
	}
	if msgs[0].Values["type"] != TypeAccountCreated {
		t.Errorf("unexpected type field: %v", msgs[0].Values["type"])
	}

	var decoded Event
	if err := json.Unmarshal([]byte(msgs[0].Values["payload"].(string)), &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.ID != event.ID || decoded.UserID != "user-1" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}
