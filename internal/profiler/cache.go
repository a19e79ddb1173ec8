package profiler

// CacheBoundary is one detected transition out of a cache level: the
// last working-set size that still fit, with the level it is estimated
// to delimit.
type CacheBoundary struct {
	SizeBytes int    `json:"size_bytes"`
	Level     string `json:"estimated_level"`
}

// DetectCacheBoundaries scans an ordered size sweep and declares a
// boundary wherever throughput drops by more than dropThreshold
// (fractional, e.g. 0.15) relative to the previous size. Boundaries
// come back ordered by size. An empty (non-nil) result means the sweep
// was valid and found no boundary, which is distinct from
// ErrInsufficientData.
func DetectCacheBoundaries(series []SizeSample, dropThreshold float64) ([]CacheBoundary, error) {
	if len(series) < 2 {
		return nil, ErrInsufficientData
	}
	boundaries := []CacheBoundary{}
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		if prev.Throughput <= 0 {
			continue
		}
		if cur.Throughput < prev.Throughput*(1-dropThreshold) {
			boundaries = append(boundaries, CacheBoundary{
				SizeBytes: prev.SizeBytes,
				Level:     cacheLevelName(len(boundaries)),
			})
		}
	}
	return boundaries, nil
}

// cacheLevelName maps the ordinal of a detected boundary to the cache
// level it most plausibly delimits.
func cacheLevelName(ordinal int) string {
	switch ordinal {
	case 0:
		return "L1"
	case 1:
		return "L2"
	case 2:
		return "L3"
	default:
		return "beyond-L3"
	}
}

// PeakStride returns the stride with the highest throughput in an
// ordered stride sweep: the granularity beyond which sequential-access
// advantage is gone.
func PeakStride(series []StrideSample) (int, error) {
	if len(series) < 2 {
		return 0, ErrInsufficientData
	}
	best := series[0]
	for _, s := range series[1:] {
		if s.Throughput > best.Throughput {
			best = s
		}
	}
	return best.StrideBytes, nil
}
