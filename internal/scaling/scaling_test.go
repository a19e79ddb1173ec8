package scaling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/surya62324151/apple-silicon-bench/internal/probe"
)

func constantProbe(v float64) probe.Probe {
	return probe.NewFunc("const", "units", probe.HigherIsBetter, func() (float64, error) {
		time.Sleep(time.Millisecond)
		return v, nil
	})
}

func TestAggregateIsSumOfWorkerAverages(t *testing.T) {
	const x = 2.5
	agg, err := Measure(context.Background(), constantProbe(x), Config{
		Workers: 4,
		Budget:  15 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if agg != 4*x {
		t.Fatalf("aggregate = %v, want %v (sum, not mean)", agg, 4*x)
	}
}

func TestSingleWorkerMatchesSamplingContract(t *testing.T) {
	agg, err := Measure(context.Background(), constantProbe(7), Config{
		Workers: 1,
		Budget:  10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if agg != 7 {
		t.Fatalf("aggregate = %v, want 7", agg)
	}
}

func TestTimeoutOnStalledWorker(t *testing.T) {
	stalled := probe.NewFunc("stalled", "units", probe.HigherIsBetter, func() (float64, error) {
		time.Sleep(5 * time.Second)
		return 1, nil
	})
	_, err := Measure(context.Background(), stalled, Config{
		Workers: 2,
		Budget:  time.Millisecond,
		Timeout: 20 * time.Millisecond,
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestFailedWorkersContributeZero(t *testing.T) {
	broken := probe.NewFunc("broken", "units", probe.HigherIsBetter, func() (float64, error) {
		time.Sleep(time.Millisecond)
		return 0, errors.New("unavailable")
	})
	agg, err := Measure(context.Background(), broken, Config{
		Workers: 3,
		Budget:  5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if agg != 0 {
		t.Fatalf("aggregate = %v, want 0 for all-failing workers", agg)
	}
}

func TestInvalidWorkerCount(t *testing.T) {
	if _, err := Measure(context.Background(), constantProbe(1), Config{Workers: 0, Budget: time.Millisecond}); err == nil {
		t.Fatalf("expected error for zero workers")
	}
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stalled := probe.NewFunc("stalled", "units", probe.HigherIsBetter, func() (float64, error) {
		time.Sleep(time.Second)
		return 1, nil
	})
	_, err := Measure(ctx, stalled, Config{Workers: 1, Budget: 500 * time.Millisecond})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
