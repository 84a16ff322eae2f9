package medication

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/constanfit/constanfit/internal/model"
	"github.com/oklog/ulid/v2"
)

var (
	// ErrNameRequired is returned when an entry is added without a name.
	ErrNameRequired = errors.New("medication name is required")
	// ErrTimeRequired is returned when an entry is added without a time.
	ErrTimeRequired = errors.New("medication time is required")
	// ErrInvalidTime is returned when the time is not HH:MM.
	ErrInvalidTime = errors.New("medication time must be HH:MM")
)

// ActivityNotifier is called once each time an entry transitions to taken.
type ActivityNotifier func(ctx context.Context, ownerID string, at time.Time)

// Tracker manages a user's daily medication reminders.
type Tracker struct {
	store    *Store
	notify   ActivityNotifier
	now      func() time.Time
	location *time.Location

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides the tracker's time source.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLocation sets the location that defines a calendar day.
func WithLocation(loc *time.Location) TrackerOption {
	return func(t *Tracker) {
		if loc != nil {
			t.location = loc
		}
	}
}

// WithNotifier registers the callback fired when a dose is marked taken.
func WithNotifier(fn ActivityNotifier) TrackerOption {
	return func(t *Tracker) {
		t.notify = fn
	}
}

// NewTracker creates a tracker over store.
func NewTracker(store *Store, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store:    store,
		now:      time.Now,
		location: time.UTC,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Add validates and stores a new reminder for ownerID.
func (t *Tracker) Add(ctx context.Context, ownerID, name, at string) (*model.MedicationEntry, error) {
	name = strings.TrimSpace(name)
	at = strings.TrimSpace(at)
	if name == "" {
		return nil, ErrNameRequired
	}
	if at == "" {
		return nil, ErrTimeRequired
	}
	if _, err := time.Parse("15:04", at); err != nil || len(at) != 5 {
		return nil, ErrInvalidTime
	}

	now := t.now()
	id, err := t.newID(now)
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	entry := &model.MedicationEntry{
		ID:         id,
		OwnerID:    ownerID,
		Name:       name,
		Time:       at,
		Taken:      false,
		CreatedAt:  now.UTC(),
		CreatedDay: t.day(now),
	}
	if err := t.store.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ToggleTaken flips an entry's taken flag and returns the new value.
func (t *Tracker) ToggleTaken(ctx context.Context, ownerID, id string) (bool, error) {
	taken, err := t.store.ToggleTaken(ctx, ownerID, id)
	if err != nil {
		return false, err
	}

	if taken && t.notify != nil {
		t.notify(ctx, ownerID, t.now())
	}
	return taken, nil
}

// Delete removes a single entry.
func (t *Tracker) Delete(ctx context.Context, ownerID, id string) error {
	return t.store.Delete(ctx, ownerID, id)
}

// Today returns the entries created on the current calendar day, ordered by time.
func (t *Tracker) Today(ctx context.Context, ownerID string) ([]*model.MedicationEntry, error) {
	entries, err := t.store.ListByDay(ctx, ownerID, t.day(t.now()))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*model.MedicationEntry{}
	}
	return entries, nil
}

// Summary counts taken and total entries for today.
func (t *Tracker) Summary(ctx context.Context, ownerID string) (model.MedicationSummary, error) {
	entries, err := t.Today(ctx, ownerID)
	if err != nil {
		return model.MedicationSummary{}, err
	}
	return Summarize(entries), nil
}

// Summarize counts taken and total over entries.
func Summarize(entries []*model.MedicationEntry) model.MedicationSummary {
	summary := model.MedicationSummary{Total: len(entries)}
	for _, e := range entries {
		if e.Taken {
			summary.Taken++
		}
	}
	return summary
}

func (t *Tracker) day(at time.Time) string {
	return at.In(t.location).Format(model.DayLayout)
}

func (t *Tracker) newID(at time.Time) (string, error) {
	t.entropyMu.Lock()
	defer t.entropyMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(at), t.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
