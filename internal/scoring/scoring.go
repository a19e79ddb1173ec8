// Package scoring normalizes raw benchmark metrics against a
// reference-baseline table and composes per-category and total scores.
// Category scores are 1000 times the geometric mean of observed-to-
// baseline ratios: the geometric mean is scale-invariant, so metrics
// with heterogeneous units (GFLOPS, MB/s, nanoseconds) combine without
// the largest-unit metric dominating.
package scoring

import (
	"math"

	"github.com/samber/lo"

	"github.com/surya62324151/apple-silicon-bench/internal/probe"
)

// Category keys and canonical weights. The weights sum to 1.0 when all
// categories run.
const (
	CPUSingle = "cpu-single"
	CPUMulti  = "cpu-multi"
	Memory    = "memory"
	Disk      = "disk"
	GPU       = "gpu"
)

// CanonicalWeights returns a fresh copy of the default category
// weights.
func CanonicalWeights() map[string]float64 {
	return map[string]float64{
		CPUSingle: 0.25,
		CPUMulti:  0.25,
		Memory:    0.15,
		Disk:      0.15,
		GPU:       0.20,
	}
}

// Clamp bounds applied to disk ratios so cache-state or capacity
// outliers that are not representative of sustained performance stay
// bounded.
const (
	clampLo = 0.25
	clampHi = 4.0
)

// Outcome is the exhaustive per-category state. A single tagged value
// replaces parallel ran/failed booleans, so invalid combinations
// cannot be constructed.
type Outcome int

const (
	// NotSelected categories never appear in score breakdowns or the
	// total-score weight sum. Absence is not zero.
	NotSelected Outcome = iota
	// Ran categories scored at least one metric.
	Ran
	// RanAndFailed categories were selected but every metric failed;
	// they carry score 0 and their full weight, dragging the total
	// down. Failure and non-selection must stay distinguishable.
	RanAndFailed
)

func (o Outcome) String() string {
	switch o {
	case Ran:
		return "ran"
	case RanAndFailed:
		return "failed"
	default:
		return "not-selected"
	}
}

// MetricValue is one observed metric to be scored. Key is the baseline
// lookup key; Value <= 0 denotes failure.
type MetricValue struct {
	Key   string
	Value float64
}

// CategoryScore pairs the outcome tag with the score value, which is
// meaningful only for Ran.
type CategoryScore struct {
	Outcome Outcome
	Value   float64
}

// Options tunes category scoring.
type Options struct {
	// ClampRatios bounds each ratio into [0.25, 4.0] before
	// aggregation (disk).
	ClampRatios bool
	// MultiCore scales baseline denominators by ActualCores over the
	// table's reference core count, keeping multi-core scores
	// comparable across machines with different core counts.
	MultiCore   bool
	ActualCores int
}

// Engine scores metrics against one immutable baseline table.
type Engine struct {
	table Table
}

func NewEngine(table Table) *Engine {
	return &Engine{table: table}
}

// Category scores one selected category. Failed metrics (value <= 0)
// and metrics absent from the baseline table are excluded from the
// aggregate entirely; scoring them as zero-ratio would crater an
// otherwise valid category through arithmetic distortion. If no metric
// survives, the category is RanAndFailed with score 0.
func (e *Engine) Category(metrics []MetricValue, opts Options) CategoryScore {
	var lnSum float64
	var n int
	for _, m := range metrics {
		if m.Value <= 0 {
			continue
		}
		base, ok := e.table.Lookup(m.Key)
		if !ok {
			continue
		}
		b := base.Value
		if opts.MultiCore && opts.ActualCores > 0 && e.table.refCores > 0 {
			b *= float64(opts.ActualCores) / float64(e.table.refCores)
		}
		var ratio float64
		if base.Direction == probe.LowerIsBetter {
			ratio = b / m.Value
		} else {
			ratio = m.Value / b
		}
		if opts.ClampRatios {
			ratio = math.Min(math.Max(ratio, clampLo), clampHi)
		}
		lnSum += math.Log(ratio)
		n++
	}
	if n == 0 {
		return CategoryScore{Outcome: RanAndFailed}
	}
	return CategoryScore{Outcome: Ran, Value: 1000 * math.Exp(lnSum/float64(n))}
}

// Total composes the weighted total over categories that ran. Weights
// are renormalized to the ran subset, so a partial run stays on the
// same scale as a full run, while a RanAndFailed category keeps its
// weight at score 0 and lowers the total.
func Total(scores map[string]CategoryScore, weights map[string]float64) float64 {
	ran := lo.PickBy(scores, func(_ string, s CategoryScore) bool {
		return s.Outcome != NotSelected
	})
	var weightSum, acc float64
	for key, s := range ran {
		w := weights[key]
		weightSum += w
		acc += w * s.Value
	}
	if weightSum <= 0 {
		return 0
	}
	return acc / weightSum
}
