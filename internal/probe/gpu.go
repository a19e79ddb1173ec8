package probe

import (
	"errors"
	"fmt"
)

// ErrNoGPUBackend is returned by every GPU probe when no compute
// backend is bound. The category then surfaces as ran-and-failed
// rather than being silently dropped.
var ErrNoGPUBackend = errors.New("no gpu compute backend available")

// GPUBackend abstracts a compute API. There is no portable compute
// backend in pure Go; platform integrations implement this interface
// and inject it at wiring time.
type GPUBackend interface {
	// Name identifies the backend (e.g. "metal", "cuda").
	Name() string
	// MatrixMultiply runs an n×n single-precision multiply and
	// returns achieved GFLOPS.
	MatrixMultiply(n int) (float64, error)
	// CopyBandwidth transfers the given number of bytes device-to-
	// device and returns achieved GB/s.
	CopyBandwidth(bytes int) (float64, error)
}

// GPUProbes returns the GPU payload set bound to backend. A nil
// backend yields probes that fail on every invocation, exercising the
// category-unavailable path.
func GPUProbes(backend GPUBackend) []Probe {
	return []Probe{
		NewGPUMatmul(backend, 1024),
		NewGPUCopy(backend, 64<<20),
	}
}

func NewGPUMatmul(backend GPUBackend, n int) Probe {
	return NewFunc("gpu-matmul", "GFLOPS", HigherIsBetter, func() (float64, error) {
		if backend == nil {
			return 0, ErrNoGPUBackend
		}
		v, err := backend.MatrixMultiply(n)
		if err != nil {
			return 0, fmt.Errorf("gpu-matmul(%s): %w", backend.Name(), err)
		}
		return v, nil
	})
}

func NewGPUCopy(backend GPUBackend, bytes int) Probe {
	return NewFunc("gpu-copy", "GB/s", HigherIsBetter, func() (float64, error) {
		if backend == nil {
			return 0, ErrNoGPUBackend
		}
		v, err := backend.CopyBandwidth(bytes)
		if err != nil {
			return 0, fmt.Errorf("gpu-copy(%s): %w", backend.Name(), err)
		}
		return v, nil
	})
}
