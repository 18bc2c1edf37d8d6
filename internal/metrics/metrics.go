// Package metrics exposes Prometheus counters for hashing activity.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "checksums"

// Metrics groups the collectors updated by the pool and the jobs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	submitted  prometheus.Counter
	deferred   prometheus.Counter
	outcomes   *prometheus.CounterVec
	bytes      prometheus.Counter
	liveTokens prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		submitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_submitted_total",
			Help:      "Hashing jobs handed to the worker pool.",
		}),
		deferred: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_deferred_total",
			Help:      "Submissions that could not start immediately and were queued.",
		}),
		outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_finished_total",
			Help:      "Finished hashing jobs by outcome.",
		}, []string{"outcome"}),
		bytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_hashed_total",
			Help:      "Bytes fed to digest accumulators.",
		}),
		liveTokens: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_tokens",
			Help:      "Cancellation tokens not yet released by both owners.",
		}),
	}
}

// Submitted counts one pool submission.
func (m *Metrics) Submitted() {
	if m != nil {
		m.submitted.Inc()
	}
}

// Deferred counts one submission that had to wait for a worker.
func (m *Metrics) Deferred() {
	if m != nil {
		m.deferred.Inc()
	}
}

// Finished counts one job outcome.
func (m *Metrics) Finished(outcome string) {
	if m != nil {
		m.outcomes.WithLabelValues(outcome).Inc()
	}
}

// Hashed adds n bytes to the hashed total.
func (m *Metrics) Hashed(n int) {
	if m != nil {
		m.bytes.Add(float64(n))
	}
}

// TokenCreated increments the live token gauge.
func (m *Metrics) TokenCreated() {
	if m != nil {
		m.liveTokens.Inc()
	}
}

// TokenFreed decrements the live token gauge.
func (m *Metrics) TokenFreed() {
	if m != nil {
		m.liveTokens.Dec()
	}
}

// Summary renders every checksums_* sample gathered from g, one per line.
func Summary(g prometheus.Gatherer) (string, error) {
	families, err := g.Gather()
	if err != nil {
		return "", fmt.Errorf("gather metrics: %w", err)
	}
	var lines []string
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			lines = append(lines, fmt.Sprintf("%s%s %g", mf.GetName(), labelSuffix(m.GetLabel()), value(mf.GetType(), m)))
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}

func labelSuffix(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	}
	return 0
}
