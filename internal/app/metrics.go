package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts recording and editing activity for one editor.
// All methods are safe for concurrent use.
type Metrics struct {
	// Recording
	recordings atomic.Uint64
	aborts     atomic.Uint64
	events     atomic.Uint64
	compiled   atomic.Uint64

	// Stop latency covers drain, optimize and append.
	stopCount   atomic.Uint64
	stopTotalNs atomic.Int64
	stopMinNs   atomic.Int64
	stopMaxNs   atomic.Int64

	// Editing
	edits    atomic.Uint64
	rejected atomic.Uint64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.stopMinNs.Store(1<<63 - 1)
	return m
}

// RecordRecording records a completed recording.
func (m *Metrics) RecordRecording(events, actions int, stop time.Duration) {
	m.recordings.Add(1)
	m.events.Add(uint64(events))
	m.compiled.Add(uint64(actions))

	ns := stop.Nanoseconds()
	m.stopCount.Add(1)
	m.stopTotalNs.Add(ns)

	for {
		old := m.stopMinNs.Load()
		if ns >= old || m.stopMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.stopMaxNs.Load()
		if ns <= old || m.stopMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordAbort records a recording that ended in a capture failure.
func (m *Metrics) RecordAbort() {
	m.aborts.Add(1)
}

// RecordEdit records a change of the list, recorded or manual.
func (m *Metrics) RecordEdit() {
	m.edits.Add(1)
}

// RecordRejected records an edit refused for an invalid reference or offset.
func (m *Metrics) RecordRejected() {
	m.rejected.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	stopCount := m.stopCount.Load()

	var avgStopNs int64
	if stopCount > 0 {
		avgStopNs = m.stopTotalNs.Load() / int64(stopCount)
	}

	minStopNs := m.stopMinNs.Load()
	if minStopNs == 1<<63-1 {
		minStopNs = 0
	}

	return MetricsSnapshot{
		Recordings: m.recordings.Load(),
		Aborts:     m.aborts.Load(),
		Events:     m.events.Load(),
		Actions:    m.compiled.Load(),
		AvgStopNs:  avgStopNs,
		MinStopNs:  minStopNs,
		MaxStopNs:  m.stopMaxNs.Load(),
		Edits:      m.edits.Load(),
		Rejected:   m.rejected.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.recordings.Store(0)
	m.aborts.Store(0)
	m.events.Store(0)
	m.compiled.Store(0)
	m.stopCount.Store(0)
	m.stopTotalNs.Store(0)
	m.stopMinNs.Store(1<<63 - 1)
	m.stopMaxNs.Store(0)
	m.edits.Store(0)
	m.rejected.Store(0)
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Recordings uint64
	Aborts     uint64
	Events     uint64
	Actions    uint64
	AvgStopNs  int64
	MinStopNs  int64
	MaxStopNs  int64
	Edits      uint64
	Rejected   uint64
}

// CompressionRatio returns raw events per compiled action.
func (s MetricsSnapshot) CompressionRatio() float64 {
	if s.Actions == 0 {
		return 0
	}
	return float64(s.Events) / float64(s.Actions)
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
