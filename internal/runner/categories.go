package runner

import (
	"github.com/surya62324151/apple-silicon-bench/internal/probe"
	"github.com/surya62324151/apple-silicon-bench/internal/scoring"
)

// DefaultCategories builds the standard category set in its fixed
// execution order. gpuBackend may be nil; the GPU category then fails
// rather than disappearing, keeping selection and failure
// distinguishable.
func DefaultCategories(disk probe.DiskConfig, gpuBackend probe.GPUBackend) []Category {
	return []Category{
		{
			Key:    scoring.CPUSingle,
			Title:  "CPU (1 core)",
			Probes: probe.CPUProbes(),
		},
		{
			Key:      scoring.CPUMulti,
			Title:    "CPU (all cores)",
			Probes:   probe.CPUProbes(),
			Parallel: true,
		},
		{
			Key:    scoring.Memory,
			Title:  "Memory",
			Probes: probe.MemoryProbes(),
		},
		{
			Key:         scoring.Disk,
			Title:       "Disk",
			Probes:      probe.DiskProbes(disk),
			ClampRatios: true,
		},
		{
			Key:    scoring.GPU,
			Title:  "GPU",
			Probes: probe.GPUProbes(gpuBackend),
		},
	}
}
