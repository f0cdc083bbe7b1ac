package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// InstructionMetrics records commerce instruction activity on the RPC
// surface.
type InstructionMetrics struct {
	processed *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

var (
	instructionOnce     sync.Once
	instructionRegistry *InstructionMetrics
)

// Instructions returns the lazily-initialised instruction metrics registry.
func Instructions() *InstructionMetrics {
	instructionOnce.Do(func() {
		instructionRegistry = &InstructionMetrics{
			processed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "cmx",
				Subsystem: "commerce",
				Name:      "instructions_total",
				Help:      "Total commerce instructions processed, segmented by instruction and outcome.",
			}, []string{"instruction", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "cmx",
				Subsystem: "commerce",
				Name:      "invocation_duration_seconds",
				Help:      "Latency distribution for commerce invocations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"instruction"}),
		}
		prometheus.MustRegister(
			instructionRegistry.processed,
			instructionRegistry.latency,
		)
	})
	return instructionRegistry
}

// Observe records one invocation's instruction label, outcome and duration.
func (m *InstructionMetrics) Observe(instruction, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.processed.WithLabelValues(instruction, outcome).Inc()
	m.latency.WithLabelValues(instruction).Observe(duration.Seconds())
}
