package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/surya62324151/apple-silicon-bench/internal/probe"
)

// Baseline is one reference measurement: the denominator of a scoring
// ratio.
type Baseline struct {
	Value     float64
	Direction probe.Direction
}

// Table is an immutable reference-baseline snapshot, constructed once
// per run and passed explicitly to the scoring engine. Never a
// singleton; measurement never mutates it.
type Table struct {
	entries  map[string]Baseline
	refCores int
}

// NewTable copies entries into an immutable table. refCores is the
// logical core count of the reference machine, used to scale
// multi-core denominators.
func NewTable(entries map[string]Baseline, refCores int) Table {
	copied := make(map[string]Baseline, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return Table{entries: copied, refCores: refCores}
}

// Lookup returns the baseline for a metric key. Absent entries are
// excluded from scoring, not treated as zero.
func (t Table) Lookup(key string) (Baseline, bool) {
	b, ok := t.entries[key]
	return b, ok
}

// ReferenceCores is the logical core count of the calibration machine.
func (t Table) ReferenceCores() int { return t.refCores }

// DefaultTable is the built-in snapshot calibrated on the reference
// machine (Apple M1, 8 logical cores). Multi-core entries are
// calibrated independently, not derived from single-core values.
func DefaultTable() Table {
	return NewTable(map[string]Baseline{
		"cpu-single.int-ops":          {Value: 950, Direction: probe.HigherIsBetter},
		"cpu-single.float-ops":        {Value: 5.4, Direction: probe.HigherIsBetter},
		"cpu-single.blake3":           {Value: 1500, Direction: probe.HigherIsBetter},
		"cpu-single.chacha20poly1305": {Value: 1250, Direction: probe.HigherIsBetter},
		"cpu-single.zstd":             {Value: 620, Direction: probe.HigherIsBetter},
		"cpu-single.lz4":              {Value: 780, Direction: probe.HigherIsBetter},

		"cpu-multi.int-ops":          {Value: 6100, Direction: probe.HigherIsBetter},
		"cpu-multi.float-ops":        {Value: 33.0, Direction: probe.HigherIsBetter},
		"cpu-multi.blake3":           {Value: 9200, Direction: probe.HigherIsBetter},
		"cpu-multi.chacha20poly1305": {Value: 7800, Direction: probe.HigherIsBetter},
		"cpu-multi.zstd":             {Value: 3900, Direction: probe.HigherIsBetter},
		"cpu-multi.lz4":              {Value: 4800, Direction: probe.HigherIsBetter},

		"memory.copy-bandwidth":  {Value: 58, Direction: probe.HigherIsBetter},
		"memory.triad-bandwidth": {Value: 52, Direction: probe.HigherIsBetter},
		"memory.random-latency":  {Value: 105, Direction: probe.LowerIsBetter},

		"disk.seq-write":      {Value: 2800, Direction: probe.HigherIsBetter},
		"disk.seq-read":       {Value: 3100, Direction: probe.HigherIsBetter},
		"disk.rand-read-qd4":  {Value: 48000, Direction: probe.HigherIsBetter},
		"disk.rand-write-qd4": {Value: 39000, Direction: probe.HigherIsBetter},

		"gpu.gpu-matmul": {Value: 2200, Direction: probe.HigherIsBetter},
		"gpu.gpu-copy":   {Value: 55, Direction: probe.HigherIsBetter},
	}, 8)
}

type baselineFile struct {
	ReferenceCores int `yaml:"reference_cores"`
	Metrics        map[string]struct {
		Value     float64 `yaml:"value"`
		Direction string  `yaml:"direction"`
	} `yaml:"metrics"`
}

// LoadTable reads a baseline snapshot from a YAML file. Direction is
// "higher" (default) or "lower".
func LoadTable(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("baseline: %w", err)
	}
	var f baselineFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Table{}, fmt.Errorf("baseline: parse %s: %w", path, err)
	}
	if f.ReferenceCores <= 0 {
		return Table{}, fmt.Errorf("baseline: %s: reference_cores must be positive", path)
	}
	entries := make(map[string]Baseline, len(f.Metrics))
	for key, m := range f.Metrics {
		if m.Value <= 0 {
			return Table{}, fmt.Errorf("baseline: %s: metric %q: value must be positive", path, key)
		}
		dir := probe.HigherIsBetter
		if m.Direction == "lower" {
			dir = probe.LowerIsBetter
		}
		entries[key] = Baseline{Value: m.Value, Direction: dir}
	}
	return NewTable(entries, f.ReferenceCores), nil
}
