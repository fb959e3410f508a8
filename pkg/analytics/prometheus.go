package analytics

import (
	"context"
	"fmt"

	"github.com/aretw0/upskill/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus records analytics events as metrics.
type Prometheus struct {
	events      *prometheus.CounterVec
	completions *prometheus.CounterVec
	quoteValue  *prometheus.HistogramVec
	teamSize    prometheus.Histogram
}

// NewPrometheus creates the collectors and registers them on reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upskill_events_total",
				Help: "Total number of analytics events by name",
			},
			[]string{"event"},
		),
		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upskill_assessments_completed_total",
				Help: "Completed assessments by recommended track and delivery mode",
			},
			[]string{"track", "delivery"},
		),
		quoteValue: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upskill_quote_value",
				Help:    "Final quote totals in whole currency units",
				Buckets: prometheus.ExponentialBuckets(10000, 2, 8),
			},
			[]string{"track"},
		),
		teamSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "upskill_team_size",
			Help:    "Team sizes of completed assessments",
			Buckets: []float64{8, 10, 11, 15, 20, 25, 50, 100},
		}),
	}
	for _, c := range []prometheus.Collector{p.events, p.completions, p.quoteValue, p.teamSize} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return p, nil
}

// Emit implements ports.AnalyticsSink.
func (p *Prometheus) Emit(_ context.Context, event domain.Event) error {
	p.events.WithLabelValues(string(event.Name)).Inc()
	if event.Name != domain.EventAssessmentCompleted {
		return nil
	}

	track, _ := event.Properties["track"].(string)
	delivery, _ := event.Properties["delivery"].(string)
	p.completions.WithLabelValues(track, delivery).Inc()

	if total, ok := asInt64(event.Properties["final_total"]); ok {
		p.quoteValue.WithLabelValues(track).Observe(float64(domain.Money(total).Whole()))
	}
	if size, ok := asInt64(event.Properties["team_size"]); ok {
		p.teamSize.Observe(float64(size))
	}
	return nil
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}
