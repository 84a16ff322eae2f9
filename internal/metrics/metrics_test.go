package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue sums every series of the named counter family whose labels include label=value.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					total += m.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

func TestPrometheusRecorder_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg)

	m.IncSignup("success")
	m.IncSignup("success")
	m.IncLogin("failed")
	m.IncMedicationAction("taken")
	m.IncResultCacheHit()
	m.ObserveStoreDuration("insert_quiz_response", 12*time.Millisecond)

	if got := counterValue(t, reg, "constanfit_auth_signups_total", "status", "success"); got != 2 {
		t.Errorf("expected 2 signups, got %v", got)
	}
	if got := counterValue(t, reg, "constanfit_auth_logins_total", "status", "failed"); got != 1 {
		t.Errorf("expected 1 failed login, got %v", got)
	}
	if got := counterValue(t, reg, "constanfit_result_cache_lookups_total", "result", "hit"); got != 1 {
		t.Errorf("expected 1 cache hit, got %v", got)
	}
}

func TestInMemoryRecorder_Snapshot(t *testing.T) {
	m := NewInMemory()

	m.IncQuizStep("advance")
	m.IncQuizStep("advance")
	m.IncQuizStep("blocked")
	m.IncQuizSubmitted("success")
	m.IncResultCacheMiss()
	m.IncEventPublished("dropped")

	snap := m.Snapshot()
	if snap.QuizSteps["advance"] != 2 || snap.QuizSteps["blocked"] != 1 {
		t.Errorf("unexpected quiz steps: %v", snap.QuizSteps)
	}
	if snap.QuizSubmissions["success"] != 1 {
		t.Errorf("unexpected submissions: %v", snap.QuizSubmissions)
	}
	if snap.ResultCacheMisses != 1 {
		t.Errorf("expected 1 cache miss, got %d", snap.ResultCacheMisses)
	}

	// Snapshots are copies.
	snap.QuizSteps["advance"] = 99
	if m.Snapshot().QuizSteps["advance"] != 2 {
		t.Error("snapshot must not alias recorder state")
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoop()
	r.IncSignup("success")
	r.IncMedicationAction("delete")
	r.ObserveStoreDuration("op", time.Second)
}
