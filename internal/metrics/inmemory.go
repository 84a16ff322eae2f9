package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Signups           map[string]uint64
	Logins            map[string]uint64
	QuizSteps         map[string]uint64
	QuizSubmissions   map[string]uint64
	ResultCacheHits   uint64
	ResultCacheMisses uint64
	MedicationActions map[string]uint64
	EventsPublished   map[string]uint64
	StoreCalls        map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{snap: Snapshot{
		Signups:           map[string]uint64{},
		Logins:            map[string]uint64{},
		QuizSteps:         map[string]uint64{},
		QuizSubmissions:   map[string]uint64{},
		MedicationActions: map[string]uint64{},
		EventsPublished:   map[string]uint64{},
		StoreCalls:        map[string]uint64{},
	}}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Signups:           copyCounts(m.snap.Signups),
		Logins:            copyCounts(m.snap.Logins),
		QuizSteps:         copyCounts(m.snap.QuizSteps),
		QuizSubmissions:   copyCounts(m.snap.QuizSubmissions),
		ResultCacheHits:   m.snap.ResultCacheHits,
		ResultCacheMisses: m.snap.ResultCacheMisses,
		MedicationActions: copyCounts(m.snap.MedicationActions),
		EventsPublished:   copyCounts(m.snap.EventsPublished),
		StoreCalls:        copyCounts(m.snap.StoreCalls),
	}
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, label string) {
	m.mu.Lock()
	counts[label]++
	m.mu.Unlock()
}

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup(status string) { m.inc(m.snap.Signups, status) }

// IncLogin increments the login counter.
func (m *InMemoryRecorder) IncLogin(status string) { m.inc(m.snap.Logins, status) }

// IncQuizStep increments the quiz navigation counter.
func (m *InMemoryRecorder) IncQuizStep(action string) { m.inc(m.snap.QuizSteps, action) }

// IncQuizSubmitted increments the quiz submission counter.
func (m *InMemoryRecorder) IncQuizSubmitted(status string) { m.inc(m.snap.QuizSubmissions, status) }

// IncResultCacheHit increments the result cache hit counter.
func (m *InMemoryRecorder) IncResultCacheHit() {
	m.mu.Lock()
	m.snap.ResultCacheHits++
	m.mu.Unlock()
}

// IncResultCacheMiss increments the result cache miss counter.
func (m *InMemoryRecorder) IncResultCacheMiss() {
	m.mu.Lock()
	m.snap.ResultCacheMisses++
	m.mu.Unlock()
}

// IncMedicationAction increments the medication action counter.
func (m *InMemoryRecorder) IncMedicationAction(action string) {
	m.inc(m.snap.MedicationActions, action)
}

// IncEventPublished increments the event publish counter.
func (m *InMemoryRecorder) IncEventPublished(status string) { m.inc(m.snap.EventsPublished, status) }

// ObserveStoreDuration counts store calls; durations are not kept.
func (m *InMemoryRecorder) ObserveStoreDuration(op string, _ time.Duration) {
	m.inc(m.snap.StoreCalls, op)
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
