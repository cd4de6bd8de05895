package fragment

import (
	"errors"
	"testing"
	"time"
)

func TestFetchStatsSnapshotPercentiles(t *testing.T) {
	stats := NewFetchStats(time.Hour)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, nil)
	}
	stats.Record(50*time.Millisecond, errors.New("boom"))
	stats.Hit()

	snap := stats.Snapshot()
	if snap.Fetches != 6 || snap.Failures != 1 || snap.Hits != 1 {
		t.Fatalf("expected 6 fetches, 1 failure, 1 hit, got %+v", snap)
	}
	if snap.MinMs != 50 || snap.MaxMs != 500 {
		t.Fatalf("expected min=50 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 1550.0/6 {
		t.Fatalf("expected avg=%f, got %f", 1550.0/6, snap.AvgMs)
	}
	if snap.P50Ms != 250 {
		t.Fatalf("expected p50=250, got %f", snap.P50Ms)
	}
	if snap.P99Ms != 495 {
		t.Fatalf("expected p99=495, got %f", snap.P99Ms)
	}
}

func TestFetchStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewFetchStats(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	stats.now = func() time.Time { return now }

	stats.Record(100*time.Millisecond, nil)
	now = now.Add(2 * time.Minute)
	if snap := stats.Snapshot(); snap.Fetches != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Fetches)
	}

	stats.Record(-time.Second, nil)
	snap := stats.Snapshot()
	if snap.Fetches != 1 || snap.MinMs != 0 {
		t.Fatalf("expected one clamped sample, got %+v", snap)
	}
}

func TestCacheStats(t *testing.T) {
	cache := NewCache(&stubSource{tree: sampleTree()}, time.Minute, nil)
	for range 3 {
		if _, err := cache.Fetch(t.Context(), "/nav"); err != nil {
			t.Fatal(err)
		}
	}
	snap := cache.Stats()
	if snap.Fetches != 1 || snap.Hits != 2 {
		t.Errorf("expected 1 fetch and 2 hits, got %+v", snap)
	}
}
