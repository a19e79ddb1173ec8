package probe

import (
	"fmt"
	"time"
)

const (
	memBufBytes     = 8 << 20
	memCopyPasses   = 8
	latencyEntries  = 1 << 20 // 8 MiB of uint64 indices, well past L2
	latencySteps    = 1 << 21
	strideWorkBytes = 16 << 20
)

// MemoryProbes returns the default memory payload set: sequential copy
// bandwidth, triad bandwidth, and dependent-load latency.
func MemoryProbes() []Probe {
	return []Probe{
		NewCopyBandwidth(),
		NewTriadBandwidth(),
		NewRandomLatency(),
	}
}

// NewCopyBandwidth measures large sequential copy bandwidth in GB/s.
func NewCopyBandwidth() Probe {
	return NewFunc("copy-bandwidth", "GB/s", HigherIsBetter, func() (float64, error) {
		src := patternBuffer(memBufBytes)
		dst := make([]byte, memBufBytes)
		start := time.Now()
		for pass := 0; pass < memCopyPasses; pass++ {
			copy(dst, src)
		}
		elapsed := time.Since(start).Seconds()
		sink = uint64(dst[len(dst)-1])
		if elapsed <= 0 {
			return 0, fmt.Errorf("copy-bandwidth: timer resolution too coarse")
		}
		// Count bytes read plus bytes written.
		return float64(memBufBytes) * memCopyPasses * 2 / elapsed / 1e9, nil
	})
}

// NewTriadBandwidth measures a[i] = b[i] + s*c[i] streaming bandwidth
// in GB/s, three 8-byte accesses per element.
func NewTriadBandwidth() Probe {
	return NewFunc("triad-bandwidth", "GB/s", HigherIsBetter, func() (float64, error) {
		const n = memBufBytes / 8
		a := make([]float64, n)
		b := make([]float64, n)
		c := make([]float64, n)
		for i := range b {
			b[i] = float64(i)
			c[i] = float64(n - i)
		}
		const scalar = 3.0
		start := time.Now()
		for pass := 0; pass < memCopyPasses; pass++ {
			for i := 0; i < n; i++ {
				a[i] = b[i] + scalar*c[i]
			}
		}
		elapsed := time.Since(start).Seconds()
		sink = uint64(a[n-1])
		if elapsed <= 0 {
			return 0, fmt.Errorf("triad-bandwidth: timer resolution too coarse")
		}
		return float64(n) * 8 * 3 * memCopyPasses / elapsed / 1e9, nil
	})
}

// NewRandomLatency measures dependent-load latency over a pointer
// chase through a shuffled permutation, in ns per access. Lower is
// better.
func NewRandomLatency() Probe {
	return NewFunc("random-latency", "ns", LowerIsBetter, func() (float64, error) {
		chain := permutationChain(latencyEntries)
		idx := uint64(0)
		start := time.Now()
		for i := 0; i < latencySteps; i++ {
			idx = chain[idx]
		}
		elapsed := time.Since(start).Seconds()
		sink = idx
		if elapsed <= 0 {
			return 0, fmt.Errorf("random-latency: timer resolution too coarse")
		}
		return elapsed / float64(latencySteps) * 1e9, nil
	})
}

// NewSizedCopy returns a copy-bandwidth probe over a fixed working-set
// size, used by the cache-boundary sweep. Throughput is in MB/s so
// small working sets keep readable magnitudes.
func NewSizedCopy(sizeBytes int) Probe {
	name := fmt.Sprintf("copy-%d", sizeBytes)
	return NewFunc(name, "MB/s", HigherIsBetter, func() (float64, error) {
		if sizeBytes < 64 {
			return 0, fmt.Errorf("sized-copy: working set %d too small", sizeBytes)
		}
		src := make([]byte, sizeBytes)
		dst := make([]byte, sizeBytes)
		for i := range src {
			src[i] = byte(i)
		}
		// Scale pass count so every size runs a comparable byte volume.
		passes := (64 << 20) / sizeBytes
		if passes < 4 {
			passes = 4
		}
		start := time.Now()
		for p := 0; p < passes; p++ {
			copy(dst, src)
		}
		elapsed := time.Since(start).Seconds()
		sink = uint64(dst[0])
		if elapsed <= 0 {
			return 0, fmt.Errorf("sized-copy: timer resolution too coarse")
		}
		return float64(sizeBytes) * float64(passes) * 2 / elapsed / 1e6, nil
	})
}

// NewStrideTouch returns a probe that walks a fixed working set
// touching one byte every strideBytes, reporting effective touched
// bandwidth in MB/s. Peak throughput over a stride sweep marks the
// granularity where sequential-access advantage ends.
func NewStrideTouch(strideBytes int) Probe {
	name := fmt.Sprintf("stride-%d", strideBytes)
	return NewFunc(name, "MB/s", HigherIsBetter, func() (float64, error) {
		if strideBytes < 1 {
			return 0, fmt.Errorf("stride-touch: invalid stride %d", strideBytes)
		}
		buf := make([]byte, strideWorkBytes)
		var acc uint64
		start := time.Now()
		for pass := 0; pass < 4; pass++ {
			for i := 0; i < strideWorkBytes; i += strideBytes {
				acc += uint64(buf[i])
				buf[i] = byte(acc)
			}
		}
		elapsed := time.Since(start).Seconds()
		sink = acc
		touched := float64(strideWorkBytes/strideBytes) * 4
		if elapsed <= 0 {
			return 0, fmt.Errorf("stride-touch: timer resolution too coarse")
		}
		return touched / elapsed / 1e6, nil
	})
}

// permutationChain builds a random single-cycle permutation so every
// load depends on the previous one.
func permutationChain(n int) []uint64 {
	perm := make([]uint64, n)
	for i := range perm {
		perm[i] = uint64(i)
	}
	x := uint64(0xda942042e4dd58b5)
	for i := n - 1; i > 0; i-- {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		j := int(x % uint64(i+1))
		perm[i], perm[j] = perm[j], perm[i]
	}
	chain := make([]uint64, n)
	for i := 0; i < n-1; i++ {
		chain[perm[i]] = perm[i+1]
	}
	chain[perm[n-1]] = perm[0]
	return chain
}
