// Package runner executes benchmark categories in declared order,
// bracketing each with thermal snapshots, and assembles the exposed
// report. Categories run strictly sequentially: each is itself
// resource-saturating, and concurrent categories would corrupt each
// other's measurements.
package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/surya62324151/apple-silicon-bench/internal/probe"
	"github.com/surya62324151/apple-silicon-bench/internal/sampling"
	"github.com/surya62324151/apple-silicon-bench/internal/scaling"
	"github.com/surya62324151/apple-silicon-bench/internal/scoring"
	"github.com/surya62324151/apple-silicon-bench/internal/sysinfo"
	"github.com/surya62324151/apple-silicon-bench/internal/thermal"
	"github.com/surya62324151/apple-silicon-bench/pkg/benchreport"
)

// Category is one benchmark group. Probes execute in declared order.
type Category struct {
	// Key is the scoring and weight key ("cpu-single", ...).
	Key   string
	Title string
	// Probes run in order; metric keys are Key + "." + probe name.
	Probes []probe.Probe
	// Parallel routes every probe through the scaling harness with a
	// worker per logical core.
	Parallel bool
	// ClampRatios bounds scoring ratios for outlier-prone categories
	// (disk).
	ClampRatios bool
}

// Options tunes one run.
type Options struct {
	// Budget is the per-category sampling budget.
	Budget time.Duration
	// Quick skips warm-up invocations.
	Quick bool
	// Selected filters categories by key; nil selects all.
	Selected map[string]bool
	// Weights defaults to scoring.CanonicalWeights() merged with any
	// overrides.
	Weights map[string]float64
	Label   string
}

// Runner wires the engine pieces together for one process.
type Runner struct {
	log     *slog.Logger
	engine  *scoring.Engine
	sup     *thermal.Supervisor
	info    sysinfo.Info
	weights map[string]float64
}

func New(log *slog.Logger, table scoring.Table, sup *thermal.Supervisor, overrides map[string]float64) *Runner {
	weights := scoring.CanonicalWeights()
	for k, w := range overrides {
		weights[k] = w
	}
	return &Runner{
		log:     log,
		engine:  scoring.NewEngine(table),
		sup:     sup,
		info:    sysinfo.Collect(),
		weights: weights,
	}
}

// Run executes the selected categories and returns the report.
// Failures never abort the run: a failed metric is recorded as failed,
// a fully failed category scores zero with its weight intact, and the
// composite score is always produced.
func (r *Runner) Run(ctx context.Context, categories []Category, opts Options) benchreport.Report {
	r.sup.Record("run-start")
	start := time.Now()

	scores := make(map[string]scoring.CategoryScore, len(categories))
	var results []benchreport.CategoryResult

	for _, cat := range categories {
		if opts.Selected != nil && !opts.Selected[cat.Key] {
			scores[cat.Key] = scoring.CategoryScore{Outcome: scoring.NotSelected}
			continue
		}
		results = append(results, r.runCategory(ctx, cat, opts, scores))
	}

	r.sup.Record("run-end")

	report := benchreport.Report{
		TimestampRFC3339: start.Format(time.RFC3339),
		Label:            opts.Label,
		Env: benchreport.Env{
			OS:           r.info.OS,
			Arch:         r.info.Arch,
			CPUModel:     r.info.CPUModel,
			LogicalCores: r.info.LogicalCores,
			GPUName:      r.info.GPUName,
		},
		BudgetSeconds: opts.Budget.Seconds(),
		Quick:         opts.Quick,
		Categories:    results,
		TotalScore:    scoring.Total(scores, r.weights),
		Throttled:     r.sup.SawThrottling(),
		ThermalSnapshots: lo.Map(r.sup.Snapshots(), func(s thermal.Snapshot, _ int) benchreport.ThermalSnapshot {
			return benchreport.ThermalSnapshot{
				TimestampRFC3339: s.Time.Format(time.RFC3339),
				Level:            s.Level.String(),
				Phase:            s.Phase,
			}
		}),
	}
	return report
}

func (r *Runner) runCategory(ctx context.Context, cat Category, opts Options, scores map[string]scoring.CategoryScore) benchreport.CategoryResult {
	before := r.sup.Record(cat.Key + "-start")
	catStart := time.Now()
	r.log.Info("category start", "category", cat.Key, "thermal", before.Level.String())

	metrics := make([]benchreport.MetricResult, 0, len(cat.Probes))
	values := make([]scoring.MetricValue, 0, len(cat.Probes))

	for _, p := range cat.Probes {
		value := r.measure(ctx, p, cat, opts)
		metrics = append(metrics, benchreport.MetricResult{
			Name:      p.Name(),
			Value:     value,
			Unit:      p.Unit(),
			Direction: p.Direction().String(),
			Failed:    value <= 0,
		})
		values = append(values, scoring.MetricValue{
			Key:   cat.Key + "." + p.Name(),
			Value: value,
		})
		if value <= 0 {
			r.log.Warn("metric failed", "category", cat.Key, "metric", p.Name())
		}
	}

	score := r.engine.Category(values, scoring.Options{
		ClampRatios: cat.ClampRatios,
		MultiCore:   cat.Parallel,
		ActualCores: r.info.LogicalCores,
	})
	scores[cat.Key] = score

	after := r.sup.Record(cat.Key + "-end")
	r.log.Info("category done",
		"category", cat.Key,
		"score", score.Value,
		"outcome", score.Outcome.String(),
		"thermal", after.Level.String(),
	)

	return benchreport.CategoryResult{
		Name:            cat.Key,
		Title:           cat.Title,
		Metrics:         metrics,
		Score:           score.Value,
		Outcome:         score.Outcome.String(),
		DurationSeconds: time.Since(catStart).Seconds(),
		ThermalStart:    before.Level.String(),
		ThermalEnd:      after.Level.String(),
	}
}

// measure runs one probe through the sampling loop, or through the
// scaling harness for parallel categories. Harness errors (timeout)
// degrade to a failed metric, never a failed run.
func (r *Runner) measure(ctx context.Context, p probe.Probe, cat Category, opts Options) float64 {
	if cat.Parallel {
		agg, err := scaling.Measure(ctx, p, scaling.Config{
			Workers: r.info.LogicalCores,
			Budget:  opts.Budget,
			Warmup:  !opts.Quick,
		})
		if err != nil {
			r.log.Warn("scaling harness failed", "metric", p.Name(), "error", err)
			return 0
		}
		return agg
	}
	res := sampling.Run(p, opts.Budget, sampling.Options{SkipWarmup: opts.Quick})
	return res.Mean
}
