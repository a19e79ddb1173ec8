package profiler

import (
	"errors"
	"testing"
)

func TestOptimalQueueDepthAtDiminishingReturns(t *testing.T) {
	series := []QueueDepthSample{
		{Depth: 1, IOPS: 10000},
		{Depth: 2, IOPS: 19000},
		{Depth: 4, IOPS: 36000},
		{Depth: 8, IOPS: 40000}, // +11%, still worthwhile
		{Depth: 16, IOPS: 41000}, // +2.5%
		{Depth: 32, IOPS: 41500}, // +1.2%, global peak
	}
	finding, err := OptimalQueueDepth(series, 0.10)
	if err != nil {
		t.Fatalf("OptimalQueueDepth: %v", err)
	}
	if finding.OptimalDepth != 8 {
		t.Fatalf("optimal depth = %d, want 8 (not the peak depth)", finding.OptimalDepth)
	}
	if finding.PeakDepth != 32 || finding.PeakIOPS != 41500 {
		t.Fatalf("peak = qd%d @ %v, want qd32 @ 41500", finding.PeakDepth, finding.PeakIOPS)
	}
}

func TestOptimalQueueDepthFlatSweep(t *testing.T) {
	// No depth ever gains 10%: depth 1 already saturates the device.
	series := []QueueDepthSample{
		{Depth: 1, IOPS: 40000},
		{Depth: 2, IOPS: 41000},
		{Depth: 4, IOPS: 40500},
	}
	finding, err := OptimalQueueDepth(series, 0.10)
	if err != nil {
		t.Fatalf("OptimalQueueDepth: %v", err)
	}
	if finding.OptimalDepth != 1 {
		t.Fatalf("optimal depth = %d, want 1 for a flat sweep", finding.OptimalDepth)
	}
}

func TestOptimalQueueDepthInsufficientData(t *testing.T) {
	_, err := OptimalQueueDepth([]QueueDepthSample{{Depth: 1, IOPS: 100}}, 0.10)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestOptimalQueueDepthSkipsGapNeighbors(t *testing.T) {
	// A zero-IOPS record should never divide; gaps are filtered before
	// this function, but defend the ratio anyway.
	series := []QueueDepthSample{
		{Depth: 1, IOPS: 0},
		{Depth: 2, IOPS: 19000},
		{Depth: 4, IOPS: 19500},
	}
	finding, err := OptimalQueueDepth(series, 0.10)
	if err != nil {
		t.Fatalf("OptimalQueueDepth: %v", err)
	}
	if finding.OptimalDepth != 1 {
		t.Fatalf("optimal depth = %d, want 1", finding.OptimalDepth)
	}
}
