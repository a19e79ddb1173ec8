package profiler

// CliffFinding reports the smallest worker count at which scaling
// efficiency drops below the threshold and stays below it for every
// larger sampled count. The sustained-to-the-end rule means a single
// transient dip that recovers is not a cliff; whether such a dip
// should instead be flagged as a transient is a policy choice an
// implementer could reasonably revisit.
type CliffFinding struct {
	ThresholdPercent float64           `json:"threshold_percent"`
	Detected         bool              `json:"detected"`
	Workers          int               `json:"workers,omitempty"`
	Efficiency       []EfficiencyPoint `json:"efficiency"`
}

// ComputeEfficiency converts a worker-count sweep into efficiency
// percentages relative to the single-worker point, which must be
// present and positive.
func ComputeEfficiency(series []ScalingSample) ([]EfficiencyPoint, error) {
	if len(series) < 2 {
		return nil, ErrInsufficientData
	}
	var single float64
	for _, s := range series {
		if s.Workers == 1 {
			single = s.Throughput
			break
		}
	}
	if single <= 0 {
		return nil, ErrInsufficientData
	}
	points := make([]EfficiencyPoint, 0, len(series))
	for _, s := range series {
		points = append(points, EfficiencyPoint{
			Workers: s.Workers,
			Percent: s.Throughput / (single * float64(s.Workers)) * 100,
		})
	}
	return points, nil
}

// DetectCliff runs cliff detection at thresholdPercent (e.g. 70) over
// an ordered worker-count sweep. When no sustained drop exists the
// finding reports Detected=false with the threshold used, never a
// false positive at a transient dip.
func DetectCliff(series []ScalingSample, thresholdPercent float64) (CliffFinding, error) {
	points, err := ComputeEfficiency(series)
	if err != nil {
		return CliffFinding{}, err
	}
	finding := CliffFinding{ThresholdPercent: thresholdPercent, Efficiency: points}

	for i, p := range points {
		if p.Percent >= thresholdPercent {
			continue
		}
		sustained := true
		for _, rest := range points[i+1:] {
			if rest.Percent >= thresholdPercent {
				sustained = false
				break
			}
		}
		if sustained {
			finding.Detected = true
			finding.Workers = p.Workers
			return finding, nil
		}
	}
	return finding, nil
}
