// Package sampling implements the duration-bound sampling loop: run a
// probe repeatedly for a fixed wall-clock budget and average the
// results. Fixed-duration sampling keeps total run time predictable
// regardless of machine speed, and in-loop averaging smooths scheduler
// jitter without a separate statistics pass.
package sampling

import (
	"time"

	"github.com/surya62324151/apple-silicon-bench/internal/probe"
)

// Options tunes one sampling run.
type Options struct {
	// SkipWarmup drops the untimed warm-up invocation (quick mode,
	// or callers that already warmed the probe).
	SkipWarmup bool
}

// Result is the aggregate of one sampling run. Individual samples are
// not retained; only the running sum and count are kept.
type Result struct {
	// Mean is sum/count over successful invocations, 0 if none
	// completed (failure, not "true zero throughput").
	Mean float64
	// Count is the number of successful invocations.
	Count int
	// Failures is the number of invocations that returned an error
	// or a non-positive value.
	Failures int
	// Elapsed is the wall-clock time spent in the measured loop.
	Elapsed time.Duration
}

// Failed reports whether no invocation produced a usable sample.
func (r Result) Failed() bool { return r.Count == 0 }

// Run invokes p repeatedly until at least budget wall-clock time has
// passed, then returns the average of the successful samples.
//
// The budget check happens after each invocation, so a probe whose
// single invocation exceeds the budget still records exactly one
// sample. A probe that fails every time keeps being retried until the
// budget runs out and yields Mean 0.
func Run(p probe.Probe, budget time.Duration, opts Options) Result {
	if !opts.SkipWarmup {
		_, _ = p.Invoke()
	}

	var (
		sum      float64
		count    int
		failures int
	)
	start := time.Now()
	for {
		v, err := p.Invoke()
		if err == nil && v > 0 {
			sum += v
			count++
		} else {
			failures++
		}
		if time.Since(start) >= budget {
			break
		}
	}
	elapsed := time.Since(start)

	res := Result{Count: count, Failures: failures, Elapsed: elapsed}
	if count > 0 {
		res.Mean = sum / float64(count)
	}
	return res
}
