package workspace

import (
	"testing"
	"time"
)

func TestPassStatsSnapshotPercentiles(t *testing.T) {
	stats := NewPassStats(time.Hour)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms) * time.Millisecond)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %f", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %f", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms < 479.999 || snap.P95Ms > 480.001 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms < 495.999 || snap.P99Ms > 496.001 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestPassStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewPassStats(10 * time.Millisecond)
	stats.Record(100 * time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200 * time.Millisecond)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
}

func TestPassStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewPassStats(time.Hour)
	stats.Record(-5 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 {
		t.Fatalf("expected negative duration clamped to 0, got %f", snap.MinMs)
	}
}

func TestPassStatsEmptySnapshot(t *testing.T) {
	snap := NewPassStats(0).Snapshot()
	if snap.Count != 0 || snap.P99Ms != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}
