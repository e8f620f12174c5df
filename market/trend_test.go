package market

import "testing"

func TestTrendTrackerFirstObservationHasNoSignal(t *testing.T) {
	var tr TrendTracker
	tr.Observe(100, 60)
	if tr.Trend() != 0 {
		t.Fatalf("expected no signal on first observation, got %d", tr.Trend())
	}
	if tr.Volume() != 80 {
		t.Fatalf("expected volume 80, got %d", tr.Volume())
	}
}

func TestTrendTrackerSign(t *testing.T) {
	var tr TrendTracker
	tr.Observe(100, 100) // v=100
	tr.Observe(150, 150) // v=150, rising
	if tr.Trend() != 1 {
		t.Fatalf("expected +1 on rising volume, got %d", tr.Trend())
	}
	tr.Observe(50, 50) // v=50, falling
	if tr.Trend() != -1 {
		t.Fatalf("expected -1 on falling volume, got %d", tr.Trend())
	}
	tr.Observe(50, 50) // unchanged
	if tr.Trend() != 0 {
		t.Fatalf("expected 0 on flat volume, got %d", tr.Trend())
	}
}
