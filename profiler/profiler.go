// Package profiler - operation timing and memory reporting for batch runs.
package profiler

import (
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"
)

// MetricTracker tracks statistics for a custom metric.
type MetricTracker struct {
	sum   float64
	min   float64
	max   float64
	count int64
}

// TimeTracker tracks operation timing statistics.
type TimeTracker struct {
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// Profiler collects per-operation durations and custom metric samples.
// It is safe for concurrent use.
type Profiler struct {
	mu             sync.Mutex
	startTime      time.Time
	now            func() time.Time
	customMetrics  map[string]*MetricTracker
	operationTimes map[string]*TimeTracker
}

// New creates a profiler whose uptime starts now.
func New() *Profiler {
	return &Profiler{
		startTime:      time.Now(),
		now:            time.Now,
		customMetrics:  make(map[string]*MetricTracker),
		operationTimes: make(map[string]*TimeTracker),
	}
}

// RecordMetric records a custom metric value.
//
// Arguments:
// - name: The name of the metric
// - value: The metric value to record
func (p *Profiler) RecordMetric(name string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, exists := p.customMetrics[name]
	if !exists {
		tracker = &MetricTracker{min: value, max: value}
		p.customMetrics[name] = tracker
	}
	tracker.sum += value
	tracker.count++
	tracker.min = min(tracker.min, value)
	tracker.max = max(tracker.max, value)
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes
func (p *Profiler) StartOperation(name string) func() {
	start := p.now()
	return func() {
		p.recordOperationTime(name, p.now().Sub(start))
	}
}

func (p *Profiler) recordOperationTime(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, exists := p.operationTimes[name]
	if !exists {
		tracker = &TimeTracker{minTime: d, maxTime: d}
		p.operationTimes[name] = tracker
	}
	tracker.totalTime += d
	tracker.count++
	tracker.minTime = min(tracker.minTime, d)
	tracker.maxTime = max(tracker.maxTime, d)
}

// OperationStats is a snapshot of one operation's timings.
type OperationStats struct {
	Name               string
	Count              int64
	Avg, Min, Max, Sum time.Duration
}

// MetricStats is a snapshot of one metric's samples.
type MetricStats struct {
	Name          string
	Count         int64
	Avg, Min, Max float64
}

// Operations returns the timing snapshots sorted by name.
func (p *Profiler) Operations() []OperationStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]OperationStats, 0, len(p.operationTimes))
	for name, t := range p.operationTimes {
		out = append(out, OperationStats{
			Name: name, Count: t.count, Sum: t.totalTime,
			Avg: t.totalTime / time.Duration(t.count), Min: t.minTime, Max: t.maxTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Metrics returns the metric snapshots sorted by name.
func (p *Profiler) Metrics() []MetricStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]MetricStats, 0, len(p.customMetrics))
	for name, t := range p.customMetrics {
		out = append(out, MetricStats{
			Name: name, Count: t.count, Avg: t.sum / float64(t.count), Min: t.min, Max: t.max,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Report logs uptime, memory usage, every operation timing and every metric at Info level.
func (p *Profiler) Report(logger *slog.Logger) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	logger.Info("profile",
		slog.Duration("uptime", p.now().Sub(p.startTime).Truncate(time.Millisecond)),
		slog.String("heap_alloc", formatBytes(mem.HeapAlloc)),
		slog.String("total_alloc", formatBytes(mem.TotalAlloc)),
		slog.Uint64("gc_cycles", uint64(mem.NumGC)))

	for _, op := range p.Operations() {
		logger.Info("operation",
			slog.String("name", op.Name), slog.Int64("count", op.Count),
			slog.Duration("avg", op.Avg.Truncate(time.Microsecond)),
			slog.Duration("min", op.Min.Truncate(time.Microsecond)),
			slog.Duration("max", op.Max.Truncate(time.Microsecond)))
	}
	for _, m := range p.Metrics() {
		logger.Info("metric",
			slog.String("name", m.Name), slog.Int64("samples", m.Count),
			slog.Float64("avg", m.Avg), slog.Float64("min", m.Min), slog.Float64("max", m.Max))
	}
}

// formatBytes formats byte counts in human-readable format.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
