package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "constanfit"

// PrometheusRecorder exports counters and histograms through a Prometheus registry.
type PrometheusRecorder struct {
	signups         *prometheus.CounterVec
	logins          *prometheus.CounterVec
	quizSteps       *prometheus.CounterVec
	quizSubmitted   *prometheus.CounterVec
	resultCache     *prometheus.CounterVec
	medications     *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
}

// NewPrometheus registers the application metrics on reg.
// A nil reg uses the default registerer.
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	m := &PrometheusRecorder{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Signup attempts by outcome",
		}, []string{"status"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome",
		}, []string{"status"}),
		quizSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "step_transitions_total",
			Help:      "Quiz navigation events",
		}, []string{"action"}),
		quizSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "submissions_total",
			Help:      "Quiz submissions by outcome",
		}, []string{"status"}),
		resultCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "result",
			Name:      "cache_lookups_total",
			Help:      "Latest-result cache lookups",
		}, []string{"result"}),
		medications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "medication",
			Name:      "actions_total",
			Help:      "Medication tracker actions",
		}, []string{"action"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Domain events published by outcome",
		}, []string{"status"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Latency of store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.signups,
		m.logins,
		m.quizSteps,
		m.quizSubmitted,
		m.resultCache,
		m.medications,
		m.eventsPublished,
		m.storeDuration,
	)
	return m
}

// IncSignup increments the signup counter.
func (m *PrometheusRecorder) IncSignup(status string) { m.signups.WithLabelValues(status).Inc() }

// IncLogin increments the login counter.
func (m *PrometheusRecorder) IncLogin(status string) { m.logins.WithLabelValues(status).Inc() }

// IncQuizStep increments the quiz navigation counter.
func (m *PrometheusRecorder) IncQuizStep(action string) { m.quizSteps.WithLabelValues(action).Inc() }

// IncQuizSubmitted increments the submission counter.
func (m *PrometheusRecorder) IncQuizSubmitted(status string) {
	m.quizSubmitted.WithLabelValues(status).Inc()
}

// IncResultCacheHit increments the cache hit counter.
func (m *PrometheusRecorder) IncResultCacheHit() { m.resultCache.WithLabelValues("hit").Inc() }

// IncResultCacheMiss increments the cache miss counter.
func (m *PrometheusRecorder) IncResultCacheMiss() { m.resultCache.WithLabelValues("miss").Inc() }

// IncMedicationAction increments the medication action counter.
func (m *PrometheusRecorder) IncMedicationAction(action string) {
	m.medications.WithLabelValues(action).Inc()
}

// IncEventPublished increments the event publish counter.
func (m *PrometheusRecorder) IncEventPublished(status string) {
	m.eventsPublished.WithLabelValues(status).Inc()
}

// ObserveStoreDuration records a store operation's latency.
func (m *PrometheusRecorder) ObserveStoreDuration(op string, duration time.Duration) {
	m.storeDuration.WithLabelValues(op).Observe(duration.Seconds())
}
