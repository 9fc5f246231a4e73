package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	translationAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coffeegraph_translation_attempts_total",
			Help: "Total number of Cypher translation attempts.",
		},
	)
	validationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coffeegraph_validation_failures_total",
			Help: "Total number of candidate queries rejected by EXPLAIN validation.",
		},
	)
	outOfScopeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coffeegraph_out_of_scope_total",
			Help: "Total number of questions refused as outside the coffee domain.",
		},
	)
	fallbackFormatterTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coffeegraph_fallback_formatter_total",
			Help: "Total number of answers rendered by the deterministic fallback formatter.",
		},
	)
	answersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coffeegraph_answers_total",
			Help: "Total number of pipeline outcomes by status.",
		},
		[]string{"status"},
	)
	answerLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coffeegraph_answer_latency_seconds",
			Help:    "End-to-end question answering latency in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)
)

func init() {
	prometheus.MustRegister(
		translationAttemptsTotal,
		validationFailuresTotal,
		outOfScopeTotal,
		fallbackFormatterTotal,
		answersTotal,
		answerLatencySeconds,
	)
}

func ObserveTranslationAttempt() {
	translationAttemptsTotal.Inc()
}

func ObserveValidationFailure() {
	validationFailuresTotal.Inc()
}

func ObserveOutOfScope() {
	outOfScopeTotal.Inc()
}

func ObserveFallbackFormatter() {
	fallbackFormatterTotal.Inc()
}

func ObserveAnswer(status string, elapsed time.Duration) {
	answersTotal.WithLabelValues(status).Inc()
	answerLatencySeconds.Observe(elapsed.Seconds())
}
