package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects counters and latency samples for chat processing.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	// Last maxDurations request latencies, oldest dropped first.
	durations    []time.Duration
	maxDurations int
}

// NewMetrics creates a new metrics collector keeping up to maxDurations
// latency samples.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		durations:    make([]time.Duration, 0, maxDurations),
		maxDurations: maxDurations,
	}
}

var globalMetrics = NewMetrics(1000)

// GlobalMetrics returns the process-wide metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records one completed request with its latency.
func (m *Metrics) RecordRequest(duration time.Duration) {
	m.requestTotal.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, duration)
}

// RecordFailure records a failed request.
func (m *Metrics) RecordFailure() {
	m.requestFailed.Add(1)
}

// Snapshot is a point-in-time metrics summary.
type Snapshot struct {
	TotalRequests int64 `json:"total_requests"`
	ErrorCount    int64 `json:"error_count"`
	AvgLatencyMs  int64 `json:"avg_latency_ms"`
	P50LatencyMs  int64 `json:"p50_latency_ms"`
	P95LatencyMs  int64 `json:"p95_latency_ms"`
}

// Current returns the current metrics summary.
func (m *Metrics) Current() Snapshot {
	snapshot := Snapshot{
		TotalRequests: m.requestTotal.Load(),
		ErrorCount:    m.requestFailed.Load(),
	}

	m.mu.Lock()
	samples := make([]time.Duration, len(m.durations))
	copy(samples, m.durations)
	m.mu.Unlock()

	if len(samples) == 0 {
		return snapshot
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	var total time.Duration
	for _, d := range samples {
		total += d
	}
	snapshot.AvgLatencyMs = (total / time.Duration(len(samples))).Milliseconds()
	snapshot.P50LatencyMs = samples[len(samples)/2].Milliseconds()
	snapshot.P95LatencyMs = samples[len(samples)*95/100].Milliseconds()
	return snapshot
}
