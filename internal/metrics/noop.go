package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup(status string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(status string) {}

// IncQuizStep is a no-op.
func (n *NoopRecorder) IncQuizStep(action string) {}

// IncQuizSubmitted is a no-op.
func (n *NoopRecorder) IncQuizSubmitted(status string) {}

// IncResultCacheHit is a no-op.
func (n *NoopRecorder) IncResultCacheHit() {}

// IncResultCacheMiss is a no-op.
func (n *NoopRecorder) IncResultCacheMiss() {}

// IncMedicationAction is a no-op.
func (n *NoopRecorder) IncMedicationAction(action string) {}

// IncEventPublished is a no-op.
func (n *NoopRecorder) IncEventPublished(status string) {}

// ObserveStoreDuration is a no-op.
func (n *NoopRecorder) ObserveStoreDuration(op string, duration time.Duration) {}
