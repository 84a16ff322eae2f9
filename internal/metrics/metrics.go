// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// Auth metrics. status: "success" or "failed"
	IncSignup(status string)
	IncLogin(status string)

	// Quiz metrics
	IncQuizStep(action string) // action: "advance", "retreat", "blocked"
	IncQuizSubmitted(status string)
	IncResultCacheHit()
	IncResultCacheMiss()

	// Medication tracker metrics. action: "add", "taken", "untaken", "delete"
	IncMedicationAction(action string)

	// Domain events. status: "success" or "dropped"
	IncEventPublished(status string)

	// Store latency by operation name
	ObserveStoreDuration(op string, duration time.Duration)
}
