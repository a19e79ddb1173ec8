package profiler

// QueueDepthFinding reports the depth where additional concurrency
// stops paying, alongside the global peak for context. Optimal is not
// simply the peak-IOPS depth: peak IOPS may sit at a depth with
// impractical latency.
type QueueDepthFinding struct {
	OptimalDepth int     `json:"optimal_depth"`
	PeakDepth    int     `json:"peak_depth"`
	PeakIOPS     float64 `json:"peak_iops"`
}

// OptimalQueueDepth scans an ordered depth sweep and returns the
// smallest depth at or after which every further step yields a
// relative IOPS gain below marginalGain (fractional, e.g. 0.10).
func OptimalQueueDepth(series []QueueDepthSample, marginalGain float64) (QueueDepthFinding, error) {
	if len(series) < 2 {
		return QueueDepthFinding{}, ErrInsufficientData
	}

	// The last step that still gained at least marginalGain; every
	// step after it is diminishing returns.
	lastWorthwhile := 0
	for i := 1; i < len(series); i++ {
		prev := series[i-1].IOPS
		if prev <= 0 {
			continue
		}
		if (series[i].IOPS-prev)/prev >= marginalGain {
			lastWorthwhile = i
		}
	}

	peak := series[0]
	for _, s := range series[1:] {
		if s.IOPS > peak.IOPS {
			peak = s
		}
	}

	return QueueDepthFinding{
		OptimalDepth: series[lastWorthwhile].Depth,
		PeakDepth:    peak.Depth,
		PeakIOPS:     peak.IOPS,
	}, nil
}
