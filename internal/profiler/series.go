// Package profiler runs the opt-in advanced sweeps and infers
// structural hardware properties from them: cache boundaries, optimal
// I/O queue depth, and multicore scaling cliffs. Each sweep produces an
// explicit ordered sample series; inference is a pure function over
// that series, so the logic is unit-testable against synthetic data
// without touching real hardware.
package profiler

import "errors"

// ErrInsufficientData marks a sweep that ended with fewer than two
// valid points. The corresponding finding is omitted entirely:
// reporting "no boundary" or "no cliff" from such a sweep would be a
// false claim.
var ErrInsufficientData = errors.New("profiler: fewer than two valid sweep points")

// SizeSample is one working-set-size sweep point.
type SizeSample struct {
	SizeBytes  int     `json:"size_bytes"`
	Throughput float64 `json:"throughput_mb_s"`
}

// StrideSample is one access-stride sweep point at a fixed working
// set.
type StrideSample struct {
	StrideBytes int     `json:"stride_bytes"`
	Throughput  float64 `json:"throughput_mb_s"`
}

// QueueDepthSample is one concurrency sweep point for disk I/O.
type QueueDepthSample struct {
	Depth int     `json:"queue_depth"`
	IOPS  float64 `json:"iops"`
}

// ScalingSample is one worker-count sweep point.
type ScalingSample struct {
	Workers    int     `json:"workers"`
	Throughput float64 `json:"aggregate_throughput"`
}

// EfficiencyPoint is scaling efficiency at one worker count:
// aggregate(k) / (aggregate(1) × k) × 100.
type EfficiencyPoint struct {
	Workers int     `json:"workers"`
	Percent float64 `json:"efficiency_percent"`
}
