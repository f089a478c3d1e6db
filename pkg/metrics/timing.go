// Package metrics times the hot paths of mindcanvas: canvas redraws, JSON
// encoding and decoding, validation, picture export and snapshot saves.
//
// Counters are updated atomically, so surfaces rendering concurrently can
// share a metric. Set MINDCANVAS_METRICS=0 to turn collection off.
//
//	defer metrics.Timer(metrics.Redraw)()
package metrics

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

var enabled = os.Getenv("MINDCANVAS_METRICS") != "0"

// TimingMetric accumulates durations for one named operation.
type TimingMetric struct {
	name    string
	count   atomic.Int64
	totalNs atomic.Int64
	maxNs   atomic.Int64
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !enabled {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.totalNs.Add(ns)
	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			return
		}
	}
}

// Stats returns a snapshot of the metric.
func (m *TimingMetric) Stats() TimingStats {
	count, total := m.count.Load(), m.totalNs.Load()
	s := TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: float64(total) / 1e6,
		MaxMs:   float64(m.maxNs.Load()) / 1e6,
	}
	if count > 0 {
		s.AvgMs = s.TotalMs / float64(count)
	}
	return s
}

// TimingStats is a point-in-time view of a TimingMetric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
}

// String formats the stats as one line for the debug log.
func (s TimingStats) String() string {
	return fmt.Sprintf("%s: n=%d avg=%.3fms max=%.3fms total=%.1fms",
		s.Name, s.Count, s.AvgMs, s.MaxMs, s.TotalMs)
}

// Timer starts timing m and returns the function that stops it.
func Timer(m *TimingMetric) func() {
	if !enabled || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() { m.Record(time.Since(start)) }
}

var (
	Redraw        = newTimingMetric("redraw")
	JSONEncode    = newTimingMetric("json_encode")
	JSONDecode    = newTimingMetric("json_decode")
	Validate      = newTimingMetric("validate")
	PictureExport = newTimingMetric("picture_export")
	SnapshotSave  = newTimingMetric("snapshot_save")

	all = []*TimingMetric{Redraw, JSONEncode, JSONDecode, Validate, PictureExport, SnapshotSave}
)

// AllTimingStats returns stats for every metric that has recorded data.
func AllTimingStats() []TimingStats {
	stats := make([]TimingStats, 0, len(all))
	for _, m := range all {
		if m.count.Load() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}
