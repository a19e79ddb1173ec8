package profiler

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/surya62324151/apple-silicon-bench/internal/probe"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMeasureTakesMedianOfRepeats(t *testing.T) {
	p := New(Config{Repeats: 3}, discardLogger())
	vals := []float64{100, 900, 110} // one noisy outlier
	i := 0
	pr := probe.NewFunc("noisy", "units", probe.HigherIsBetter, func() (float64, error) {
		v := vals[i%len(vals)]
		i++
		return v, nil
	})
	got, ok := p.measure(pr)
	if !ok {
		t.Fatalf("expected a measurement")
	}
	if got != 110 {
		t.Fatalf("center = %v, want median 110, not the outlier", got)
	}
}

func TestMeasureAllFailuresIsGap(t *testing.T) {
	p := New(Config{Repeats: 3}, discardLogger())
	pr := probe.NewFunc("broken", "units", probe.HigherIsBetter, func() (float64, error) {
		return 0, errors.New("unavailable")
	})
	if _, ok := p.measure(pr); ok {
		t.Fatalf("a point where every invocation failed must be a gap")
	}
}

func TestMeasurePartialFailuresStillMeasure(t *testing.T) {
	p := New(Config{Repeats: 4}, discardLogger())
	i := 0
	pr := probe.NewFunc("flaky", "units", probe.HigherIsBetter, func() (float64, error) {
		i++
		if i%2 == 0 {
			return 0, errors.New("transient")
		}
		return 50, nil
	})
	got, ok := p.measure(pr)
	if !ok || got != 50 {
		t.Fatalf("got %v ok=%v, want 50 from the surviving repeats", got, ok)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Repeats != 3 {
		t.Errorf("repeats = %d, want 3", cfg.Repeats)
	}
	if cfg.CacheDropThreshold != 0.15 {
		t.Errorf("cache drop = %v, want 0.15", cfg.CacheDropThreshold)
	}
	if cfg.QueueDepthMarginalGain != 0.10 {
		t.Errorf("qd gain = %v, want 0.10", cfg.QueueDepthMarginalGain)
	}
	if cfg.CliffThresholdPercent != 70 {
		t.Errorf("cliff threshold = %v, want 70", cfg.CliffThresholdPercent)
	}
	if cfg.MaxWorkers < 1 {
		t.Errorf("max workers = %d, want >= 1", cfg.MaxWorkers)
	}
	if cfg.Disk.FileBytes == 0 {
		t.Errorf("disk config not defaulted")
	}
}
