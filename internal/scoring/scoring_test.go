package scoring

import (
	"math"
	"testing"

	"github.com/surya62324151/apple-silicon-bench/internal/probe"
)

func tableWith(entries map[string]Baseline, refCores int) Table {
	return NewTable(entries, refCores)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRoundTripScoresExactly1000(t *testing.T) {
	table := tableWith(map[string]Baseline{
		"c.a": {Value: 100, Direction: probe.HigherIsBetter},
		"c.b": {Value: 5.5, Direction: probe.HigherIsBetter},
		"c.c": {Value: 42, Direction: probe.LowerIsBetter},
	}, 8)
	e := NewEngine(table)
	score := e.Category([]MetricValue{
		{Key: "c.a", Value: 100},
		{Key: "c.b", Value: 5.5},
		{Key: "c.c", Value: 42},
	}, Options{})
	if score.Outcome != Ran {
		t.Fatalf("outcome = %v, want Ran", score.Outcome)
	}
	if !almostEqual(score.Value, 1000) {
		t.Fatalf("score = %v, want exactly 1000 at baseline", score.Value)
	}
}

func TestGeometricMeanIsScaleInvariant(t *testing.T) {
	e1 := NewEngine(tableWith(map[string]Baseline{
		"c.a": {Value: 100, Direction: probe.HigherIsBetter},
		"c.b": {Value: 10, Direction: probe.HigherIsBetter},
	}, 8))
	e2 := NewEngine(tableWith(map[string]Baseline{
		"c.a": {Value: 200, Direction: probe.HigherIsBetter}, // doubled
		"c.b": {Value: 10, Direction: probe.HigherIsBetter},
	}, 8))

	s1 := e1.Category([]MetricValue{{Key: "c.a", Value: 150}, {Key: "c.b", Value: 12}}, Options{})
	s2 := e2.Category([]MetricValue{{Key: "c.a", Value: 300}, {Key: "c.b", Value: 12}}, Options{})
	if !almostEqual(s1.Value, s2.Value) {
		t.Fatalf("doubling a metric and its baseline changed the score: %v vs %v", s1.Value, s2.Value)
	}
}

func TestFailedMetricExcludedNotZeroed(t *testing.T) {
	table := tableWith(map[string]Baseline{
		"c.a": {Value: 10, Direction: probe.HigherIsBetter},
		"c.b": {Value: 10, Direction: probe.HigherIsBetter},
		"c.c": {Value: 10, Direction: probe.HigherIsBetter},
		"c.d": {Value: 10, Direction: probe.HigherIsBetter},
	}, 8)
	e := NewEngine(table)
	score := e.Category([]MetricValue{
		{Key: "c.a", Value: 20},
		{Key: "c.b", Value: 20},
		{Key: "c.c", Value: 20},
		{Key: "c.d", Value: 0}, // failed
	}, Options{})
	if score.Outcome != Ran {
		t.Fatalf("outcome = %v, want Ran", score.Outcome)
	}
	// Geometric mean of the three ratio-2 successes, not dragged to
	// zero by the failure.
	if !almostEqual(score.Value, 2000) {
		t.Fatalf("score = %v, want 2000 from the three successes", score.Value)
	}
}

func TestLowerIsBetterInvertsRatio(t *testing.T) {
	e := NewEngine(tableWith(map[string]Baseline{
		"c.lat": {Value: 100, Direction: probe.LowerIsBetter},
	}, 8))
	score := e.Category([]MetricValue{{Key: "c.lat", Value: 50}}, Options{})
	if !almostEqual(score.Value, 2000) {
		t.Fatalf("score = %v, want 2000 for halved latency", score.Value)
	}
}

func TestClampedRatios(t *testing.T) {
	table := tableWith(map[string]Baseline{
		"d.fast": {Value: 1, Direction: probe.HigherIsBetter},
		"d.slow": {Value: 1, Direction: probe.HigherIsBetter},
	}, 8)
	e := NewEngine(table)

	high := e.Category([]MetricValue{{Key: "d.fast", Value: 100}}, Options{ClampRatios: true})
	if !almostEqual(high.Value, 4000) {
		t.Fatalf("outlier ratio 100 should contribute as 4.0, got score %v", high.Value)
	}
	low := e.Category([]MetricValue{{Key: "d.slow", Value: 0.01}}, Options{ClampRatios: true})
	if !almostEqual(low.Value, 250) {
		t.Fatalf("outlier ratio 0.01 should contribute as 0.25, got score %v", low.Value)
	}
}

func TestAllFailedIsRanAndFailed(t *testing.T) {
	e := NewEngine(tableWith(map[string]Baseline{
		"c.a": {Value: 10, Direction: probe.HigherIsBetter},
	}, 8))
	score := e.Category([]MetricValue{{Key: "c.a", Value: 0}}, Options{})
	if score.Outcome != RanAndFailed {
		t.Fatalf("outcome = %v, want RanAndFailed", score.Outcome)
	}
	if score.Value != 0 {
		t.Fatalf("score = %v, want 0", score.Value)
	}
}

func TestAbsentBaselineExcluded(t *testing.T) {
	e := NewEngine(tableWith(map[string]Baseline{
		"c.known": {Value: 10, Direction: probe.HigherIsBetter},
	}, 8))
	score := e.Category([]MetricValue{
		{Key: "c.known", Value: 20},
		{Key: "c.unknown", Value: 999},
	}, Options{})
	if !almostEqual(score.Value, 2000) {
		t.Fatalf("absent baseline must be excluded, got score %v", score.Value)
	}
}

func TestMultiCoreDenominatorScaling(t *testing.T) {
	// Reference machine has 8 cores; this machine has 4. The same
	// per-core performance must score the same.
	e := NewEngine(tableWith(map[string]Baseline{
		"m.x": {Value: 800, Direction: probe.HigherIsBetter},
	}, 8))
	score := e.Category([]MetricValue{{Key: "m.x", Value: 400}}, Options{
		MultiCore:   true,
		ActualCores: 4,
	})
	if !almostEqual(score.Value, 1000) {
		t.Fatalf("score = %v, want 1000 after core-count scaling", score.Value)
	}
}

func TestTotalRenormalizesPartialRuns(t *testing.T) {
	weights := CanonicalWeights()
	scores := map[string]CategoryScore{
		CPUSingle: {Outcome: NotSelected},
		CPUMulti:  {Outcome: NotSelected},
		Memory:    {Outcome: Ran, Value: 1200},
		Disk:      {Outcome: Ran, Value: 800},
		GPU:       {Outcome: NotSelected},
	}
	total := Total(scores, weights)
	// Equal weights 0.15/0.15 renormalize to a plain mean.
	if !almostEqual(total, 1000) {
		t.Fatalf("total = %v, want 1000 from {1200, 800}", total)
	}
}

func TestTotalFailedCategoryDragsDown(t *testing.T) {
	weights := CanonicalWeights()
	scores := map[string]CategoryScore{
		Memory: {Outcome: Ran, Value: 1000},
		Disk:   {Outcome: RanAndFailed, Value: 0},
	}
	total := Total(scores, weights)
	if !almostEqual(total, 500) {
		t.Fatalf("total = %v, want 500: failure keeps its weight at score 0", total)
	}
}

func TestTotalAllNotSelected(t *testing.T) {
	if total := Total(map[string]CategoryScore{
		Memory: {Outcome: NotSelected},
	}, CanonicalWeights()); total != 0 {
		t.Fatalf("total = %v, want 0 with nothing ran", total)
	}
}

func TestCanonicalWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, w := range CanonicalWeights() {
		sum += w
	}
	if !almostEqual(sum, 1.0) {
		t.Fatalf("canonical weights sum to %v, want 1.0", sum)
	}
}
