package infra

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics implementa application.Metrics.
type PipelineMetrics struct {
	stages   *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

func NewPipelineMetrics(reg prometheus.Registerer) (*PipelineMetrics, error) {
	stages := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "resodo",
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Duration of each pipeline stage (crawl, contacts, draft, compose).",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"stage", "result"})

	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resodo",
		Subsystem: "pipeline",
		Name:      "outcomes_total",
		Help:      "Pipeline runs by outcome.",
	}, []string{"outcome"})

	if reg != nil {
		for _, c := range []prometheus.Collector{stages, outcomes} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return &PipelineMetrics{stages: stages, outcomes: outcomes}, nil
}

func (m *PipelineMetrics) ObserveStage(stage string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.stages.WithLabelValues(stage, result).Observe(d.Seconds())
}

func (m *PipelineMetrics) CountOutcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}
