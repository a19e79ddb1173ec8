// Package scaling measures aggregate throughput of a probe under full
// parallel load: N independent workers each run the sampling loop
// against the same budget, and the aggregate is the sum of per-worker
// averages. Total system throughput is the request, not per-worker
// throughput.
package scaling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/surya62324151/apple-silicon-bench/internal/probe"
	"github.com/surya62324151/apple-silicon-bench/internal/sampling"
)

// ErrTimeout is returned when the harness hits its hard upper bound
// before every worker finished. Indefinite blocking on a stalled
// worker is a usability defect in a benchmarking tool.
var ErrTimeout = errors.New("scaling: harness timed out waiting for workers")

// Config tunes one harness run.
type Config struct {
	// Workers is the fan-out width, normally the logical core count.
	Workers int
	// Budget is the per-worker sampling budget.
	Budget time.Duration
	// Warmup runs one discarded parallel round before measuring.
	Warmup bool
	// Timeout is the hard upper bound on the whole measurement. Zero
	// selects 4×Budget plus one second.
	Timeout time.Duration
}

// Measure fans p out across cfg.Workers workers and returns the summed
// per-worker sampling averages. Workers share no mutable state and
// have no ordering relationship; the aggregate is finalized only after
// every worker returned (a commutative sum, so arrival order is
// irrelevant).
func Measure(ctx context.Context, p probe.Probe, cfg Config) (float64, error) {
	if cfg.Workers < 1 {
		return 0, fmt.Errorf("scaling: workers must be >= 1, got %d", cfg.Workers)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 4*cfg.Budget + time.Second
	}

	if cfg.Warmup {
		warm := new(errgroup.Group)
		for i := 0; i < cfg.Workers; i++ {
			warm.Go(func() error {
				_, _ = p.Invoke()
				return nil
			})
		}
		_ = warm.Wait()
	}

	means := make([]float64, cfg.Workers)
	g := new(errgroup.Group)
	for i := 0; i < cfg.Workers; i++ {
		i := i
		g.Go(func() error {
			// Workers already warmed above; per-worker loops skip
			// their own warm-up so all budgets start together.
			res := sampling.Run(p, cfg.Budget, sampling.Options{SkipWarmup: true})
			means[i] = res.Mean
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		return 0, ErrTimeout
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	var aggregate float64
	for _, m := range means {
		aggregate += m
	}
	return aggregate, nil
}
