// Package stats keeps rolling latency samples for the analysis stages.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at         time.Time
	durationMs int64
}

// Snapshot is a point-in-time aggregate of the samples in one series.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Latency tracks durations per series (for example per input format)
// within a rolling window. It is safe for concurrent use.
type Latency struct {
	mu     sync.Mutex
	series map[string][]sample
	maxAge time.Duration
	now    func() time.Time
}

func NewLatency(maxAge time.Duration) *Latency {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Latency{
		series: make(map[string][]sample),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Record adds one sample to series. Negative durations count as zero.
func (l *Latency) Record(series string, d time.Duration) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.series[series] = append(l.prune(series, now), sample{at: now, durationMs: ms})
}

// Snapshot aggregates one series. An unknown or expired series yields the
// zero Snapshot.
func (l *Latency) Snapshot(series string) Snapshot {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	return aggregate(l.prune(series, now))
}

// All aggregates every series plus an "all" entry over the union.
func (l *Latency) All() map[string]Snapshot {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]Snapshot, len(l.series)+1)
	var union []sample
	for name := range l.series {
		samples := l.prune(name, now)
		if len(samples) == 0 {
			delete(l.series, name)
			continue
		}
		out[name] = aggregate(samples)
		union = append(union, samples...)
	}
	out["all"] = aggregate(union)
	return out
}

// prune drops expired samples from series in place and returns what is left.
func (l *Latency) prune(series string, now time.Time) []sample {
	cutoff := now.Add(-l.maxAge)
	samples := l.series[series]
	kept := samples[:0]
	for _, s := range samples {
		if !s.at.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	l.series[series] = kept
	return kept
}

func aggregate(samples []sample) Snapshot {
	if len(samples) == 0 {
		return Snapshot{}
	}

	values := make([]int64, 0, len(samples))
	var sum int64
	for _, s := range samples {
		values = append(values, s.durationMs)
		sum += s.durationMs
	}
	slices.Sort(values)

	return Snapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*weight
}
