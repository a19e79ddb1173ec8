// Package benchreport is the result model exposed to report and
// export collaborators: per-category metric averages and scores, the
// total score, the thermal snapshot sequence, and the advanced
// profiling findings. Nothing else leaves the engine.
package benchreport

import (
	"github.com/surya62324151/apple-silicon-bench/internal/profiler"
)

// MetricResult is one averaged metric. Failed metrics carry Value 0
// and are excluded from scoring aggregates upstream.
type MetricResult struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Direction string  `json:"direction"`
	Failed    bool    `json:"failed"`
}

// ThermalSnapshot is one entry of the run's append-only thermal
// sequence.
type ThermalSnapshot struct {
	TimestampRFC3339 string `json:"timestamp_rfc3339"`
	Level            string `json:"level"`
	Phase            string `json:"phase"`
}

// CategoryResult is one selected category's outcome. Categories that
// were not selected never appear in a report.
type CategoryResult struct {
	Name            string         `json:"name"`
	Title           string         `json:"title"`
	Metrics         []MetricResult `json:"metrics"`
	Score           float64        `json:"score"`
	Outcome         string         `json:"outcome"` // "ran" or "failed"
	DurationSeconds float64        `json:"duration_seconds"`
	ThermalStart    string         `json:"thermal_start"`
	ThermalEnd      string         `json:"thermal_end"`
}

type Env struct {
	OS           string `json:"os"`
	Arch         string `json:"arch"`
	CPUModel     string `json:"cpu_model"`
	LogicalCores int    `json:"cpu_num_logical"`
	GPUName      string `json:"gpu_name,omitempty"`
}

type Report struct {
	TimestampRFC3339 string             `json:"timestamp_rfc3339"`
	Label            string             `json:"label,omitempty"`
	Env              Env                `json:"env"`
	BudgetSeconds    float64            `json:"budget_seconds"`
	Quick            bool               `json:"quick"`
	Categories       []CategoryResult   `json:"categories"`
	TotalScore       float64            `json:"total_score"`
	Throttled        bool               `json:"throttled"`
	ThermalSnapshots []ThermalSnapshot  `json:"thermal_snapshots"`
	Advanced         *profiler.Findings `json:"advanced,omitempty"`
}
