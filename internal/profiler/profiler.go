package profiler

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/perf/benchmath"

	"github.com/surya62324151/apple-silicon-bench/internal/probe"
	"github.com/surya62324151/apple-silicon-bench/internal/scaling"
)

// Config tunes the sweeps and their inference thresholds.
type Config struct {
	// Repeats per sweep point; the median is kept so one noisy
	// invocation cannot fake a boundary.
	Repeats int
	// CacheDropThreshold is the fractional throughput drop that
	// declares a cache boundary (default 0.15).
	CacheDropThreshold float64
	// QueueDepthMarginalGain is the fractional IOPS gain below which
	// deeper queues are diminishing returns (default 0.10).
	QueueDepthMarginalGain float64
	// CliffThresholdPercent is the scaling-efficiency floor (default
	// 70).
	CliffThresholdPercent float64
	// SweepBudget is the per-point sampling budget of the scaling
	// sweep (default 250ms).
	SweepBudget time.Duration
	// MaxWorkers bounds the scaling sweep (default logical cores).
	MaxWorkers int
	// Disk locates scratch files for the queue-depth sweep.
	Disk probe.DiskConfig
}

func (c Config) withDefaults() Config {
	if c.Repeats <= 0 {
		c.Repeats = 3
	}
	if c.CacheDropThreshold <= 0 {
		c.CacheDropThreshold = 0.15
	}
	if c.QueueDepthMarginalGain <= 0 {
		c.QueueDepthMarginalGain = 0.10
	}
	if c.CliffThresholdPercent <= 0 {
		c.CliffThresholdPercent = 70
	}
	if c.SweepBudget <= 0 {
		c.SweepBudget = 250 * time.Millisecond
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = runtime.NumCPU()
	}
	if c.Disk.FileBytes == 0 {
		c.Disk = probe.DefaultDiskConfig()
	}
	return c
}

// Findings aggregates the three structural reports. A nil sub-report
// means that analysis was omitted for lack of valid sweep points.
type Findings struct {
	Memory *MemoryFindings `json:"memory,omitempty"`
	Disk   *DiskFindings   `json:"disk,omitempty"`
	CPU    *CPUFindings    `json:"cpu,omitempty"`
}

// MemoryFindings reports the cache-boundary and stride analyses.
// Boundaries is nil when the analysis was omitted and empty (non-nil)
// when the sweep was valid but found no qualifying drop.
type MemoryFindings struct {
	SizeSweep       []SizeSample    `json:"size_sweep"`
	Boundaries      []CacheBoundary `json:"boundaries"`
	StrideSweep     []StrideSample  `json:"stride_sweep"`
	PeakStrideBytes int             `json:"peak_stride_bytes,omitempty"`
}

// DiskFindings reports the queue-depth sweeps. A nil finding means the
// corresponding sweep ended with fewer than two valid points.
type DiskFindings struct {
	ReadSweep  []QueueDepthSample `json:"read_sweep"`
	WriteSweep []QueueDepthSample `json:"write_sweep"`
	Read       *QueueDepthFinding `json:"read,omitempty"`
	Write      *QueueDepthFinding `json:"write,omitempty"`
}

// CPUFindings reports the worker-count sweep and cliff detection.
type CPUFindings struct {
	Sweep []ScalingSample `json:"sweep"`
	Cliff *CliffFinding   `json:"cliff,omitempty"`
}

// Profiler runs the advanced sweeps. Sweeps execute sequentially; each
// is itself resource-saturating, and concurrent sweeps would corrupt
// each other's measurements.
type Profiler struct {
	cfg Config
	log *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Profiler {
	return &Profiler{cfg: cfg.withDefaults(), log: log}
}

// Run executes all three analyses and returns whatever survived their
// failure semantics.
func (p *Profiler) Run(ctx context.Context) Findings {
	return Findings{
		Memory: p.MemoryProfile(),
		Disk:   p.DiskProfile(),
		CPU:    p.CPUProfile(ctx),
	}
}

// MemoryProfile sweeps working-set sizes from 4 KiB to 64 MiB
// (doubling, spanning the expected L1/L2/L3/DRAM range) and access
// strides from 8 B to 4 KiB at a fixed working set.
func (p *Profiler) MemoryProfile() *MemoryFindings {
	f := &MemoryFindings{}

	for size := 4 << 10; size <= 64<<20; size <<= 1 {
		v, ok := p.measure(probe.NewSizedCopy(size))
		if !ok {
			p.log.Warn("size sweep point failed, recording gap", "size_bytes", size)
			continue
		}
		f.SizeSweep = append(f.SizeSweep, SizeSample{SizeBytes: size, Throughput: v})
	}
	boundaries, err := DetectCacheBoundaries(f.SizeSweep, p.cfg.CacheDropThreshold)
	if err != nil {
		p.log.Warn("cache-boundary analysis omitted", "error", err)
	} else {
		f.Boundaries = boundaries
	}

	for stride := 8; stride <= 4<<10; stride <<= 1 {
		v, ok := p.measure(probe.NewStrideTouch(stride))
		if !ok {
			p.log.Warn("stride sweep point failed, recording gap", "stride_bytes", stride)
			continue
		}
		f.StrideSweep = append(f.StrideSweep, StrideSample{StrideBytes: stride, Throughput: v})
	}
	if peak, err := PeakStride(f.StrideSweep); err != nil {
		p.log.Warn("stride analysis omitted", "error", err)
	} else {
		f.PeakStrideBytes = peak
	}

	if len(f.SizeSweep) == 0 && len(f.StrideSweep) == 0 {
		return nil
	}
	return f
}

// DiskProfile sweeps read and write queue depths 1, 2, 4, ..., 32 and
// locates the diminishing-returns depth for each direction
// independently.
func (p *Profiler) DiskProfile() *DiskFindings {
	f := &DiskFindings{}

	for depth := 1; depth <= 32; depth <<= 1 {
		if v, ok := p.measure(probe.NewRandomRead(p.cfg.Disk, depth)); ok {
			f.ReadSweep = append(f.ReadSweep, QueueDepthSample{Depth: depth, IOPS: v})
		} else {
			p.log.Warn("read queue-depth point failed, recording gap", "depth", depth)
		}
		if v, ok := p.measure(probe.NewRandomWrite(p.cfg.Disk, depth)); ok {
			f.WriteSweep = append(f.WriteSweep, QueueDepthSample{Depth: depth, IOPS: v})
		} else {
			p.log.Warn("write queue-depth point failed, recording gap", "depth", depth)
		}
	}

	if finding, err := OptimalQueueDepth(f.ReadSweep, p.cfg.QueueDepthMarginalGain); err != nil {
		p.log.Warn("read queue-depth analysis omitted", "error", err)
	} else {
		f.Read = &finding
	}
	if finding, err := OptimalQueueDepth(f.WriteSweep, p.cfg.QueueDepthMarginalGain); err != nil {
		p.log.Warn("write queue-depth analysis omitted", "error", err)
	} else {
		f.Write = &finding
	}

	if len(f.ReadSweep) == 0 && len(f.WriteSweep) == 0 {
		return nil
	}
	return f
}

// CPUProfile sweeps worker counts 1..MaxWorkers over an integer
// throughput probe and runs cliff detection on the result.
func (p *Profiler) CPUProfile(ctx context.Context) *CPUFindings {
	f := &CPUFindings{}
	pr := probe.NewIntegerOps()

	for k := 1; k <= p.cfg.MaxWorkers; k++ {
		agg, err := scaling.Measure(ctx, pr, scaling.Config{
			Workers: k,
			Budget:  p.cfg.SweepBudget,
			Warmup:  k == 1,
		})
		if err != nil || agg <= 0 {
			p.log.Warn("scaling sweep point failed, recording gap", "workers", k, "error", err)
			continue
		}
		f.Sweep = append(f.Sweep, ScalingSample{Workers: k, Throughput: agg})
	}

	if finding, err := DetectCliff(f.Sweep, p.cfg.CliffThresholdPercent); err != nil {
		p.log.Warn("cliff analysis omitted", "error", err)
	} else {
		f.Cliff = &finding
	}

	if len(f.Sweep) == 0 {
		return nil
	}
	return f
}

// measure invokes pr Repeats times and summarizes the successes by
// their median. A point where every invocation failed is a gap, not a
// zero.
func (p *Profiler) measure(pr probe.Probe) (float64, bool) {
	vals := make([]float64, 0, p.cfg.Repeats)
	for i := 0; i < p.cfg.Repeats; i++ {
		if v, err := pr.Invoke(); err == nil && v > 0 {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0, false
	}
	sample := benchmath.NewSample(vals, &benchmath.DefaultThresholds)
	summary := benchmath.AssumeNothing.Summary(sample, 0.95)
	return summary.Center, true
}
