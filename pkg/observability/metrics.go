package observability

import (
	"context"
	"time"

	"github.com/aretw0/segue/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records transition outcomes as Prometheus collectors.
type Metrics struct {
	Outcomes    *prometheus.CounterVec
	Degraded    prometheus.Counter
	Backgrounds prometheus.Counter
	Duration    prometheus.Histogram

	now func() time.Time
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg registers nothing, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "segue_transitions_total",
				Help: "Total number of scene transitions by result",
			},
			[]string{"result"},
		),
		Degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "segue_transitions_degraded_total",
			Help: "Transitions that inserted a diagnostic placeholder",
		}),
		Backgrounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "segue_background_triggers_total",
			Help: "Background regenerations requested",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "segue_transition_duration_seconds",
			Help:    "Duration of scene transitions",
			Buckets: prometheus.DefBuckets,
		}),
		now: time.Now,
	}
	if reg != nil {
		reg.MustRegister(m.Outcomes, m.Degraded, m.Backgrounds, m.Duration)
	}
	return m
}

// ResultLabel maps an outcome to a low-cardinality label value.
func ResultLabel(o domain.Outcome) string {
	switch {
	case o == domain.OutcomeInserted:
		return "inserted"
	case o == domain.OutcomeNoOutput:
		return "no_output"
	case o.IsError():
		return "error"
	}
	return "unknown"
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBackgroundTrigger: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Backgrounds.Inc()
		},
		OnOutcome: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Outcomes.WithLabelValues(ResultLabel(e.Outcome)).Inc()
			if e.Degraded {
				m.Degraded.Inc()
			}
			if !e.Timestamp.IsZero() {
				m.Duration.Observe(m.now().Sub(e.Timestamp).Seconds())
			}
		},
	}
}
