package stats

import (
	"testing"
	"time"
)

func TestLatencySnapshotPercentiles(t *testing.T) {
	l := NewLatency(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		l.Record(".md", time.Duration(ms)*time.Millisecond)
	}

	snap := l.Snapshot(".md")
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestLatencyPrunesExpiredSamples(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewLatency(time.Minute)
	l.now = func() time.Time { return now }

	l.Record(".pdf", 100*time.Millisecond)
	now = now.Add(2 * time.Minute)

	if snap := l.Snapshot(".pdf"); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	l.Record(".pdf", 200*time.Millisecond)
	snap := l.Snapshot(".pdf")
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected one fresh 200ms sample, got %+v", snap)
	}
}

func TestLatencyClampsNegativeDuration(t *testing.T) {
	l := NewLatency(time.Hour)
	l.Record("x", -10*time.Millisecond)
	snap := l.Snapshot("x")
	if snap.Count != 1 || snap.MinMs != 0 {
		t.Fatalf("expected one clamped sample, got %+v", snap)
	}
}

func TestLatencyAll(t *testing.T) {
	l := NewLatency(time.Hour)
	l.Record(".md", 10*time.Millisecond)
	l.Record(".md", 30*time.Millisecond)
	l.Record(".html", 50*time.Millisecond)

	all := l.All()
	if len(all) != 3 {
		t.Fatalf("expected .md, .html and all, got %v", all)
	}
	if all[".md"].Count != 2 || all[".html"].Count != 1 {
		t.Errorf("unexpected per-series counts %+v", all)
	}
	if all["all"].Count != 3 || all["all"].MaxMs != 50 {
		t.Errorf("unexpected union %+v", all["all"])
	}
}

func TestLatencyUnknownSeries(t *testing.T) {
	l := NewLatency(0)
	if snap := l.Snapshot("nope"); snap != (Snapshot{}) {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}
