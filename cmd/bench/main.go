package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/surya62324151/apple-silicon-bench/internal/config"
	"github.com/surya62324151/apple-silicon-bench/internal/profiler"
	"github.com/surya62324151/apple-silicon-bench/internal/probe"
	"github.com/surya62324151/apple-silicon-bench/internal/runner"
	"github.com/surya62324151/apple-silicon-bench/internal/scoring"
	"github.com/surya62324151/apple-silicon-bench/internal/thermal"
	"github.com/surya62324151/apple-silicon-bench/pkg/benchreport"
)

func main() {
	var (
		configPath = flag.String("config", "bench.yaml", "path to YAML config (missing file uses defaults)")
		budget     = flag.Float64("budget", 0, "per-category sampling budget in seconds (overrides config)")
		only       = flag.String("only", "", "comma-separated category keys to run (cpu-single,cpu-multi,memory,disk,gpu); empty runs all but gpu")
		quick      = flag.Bool("quick", false, "skip warm-up invocations")
		advanced   = flag.Bool("advanced", false, "run the advanced profiling sweeps")
		label      = flag.String("label", "", "optional label for this machine/config")
		outPath    = flag.String("out", "", "optional path to write the JSON report (defaults to stdout)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	if *budget > 0 {
		cfg.Run.BudgetSeconds = *budget
	}
	if *quick {
		cfg.Run.Quick = true
	}
	if *label != "" {
		cfg.Run.Label = *label
	}

	table := scoring.DefaultTable()
	if cfg.BaselinePath != "" {
		table, err = scoring.LoadTable(cfg.BaselinePath)
		if err != nil {
			fatalf("load baselines: %v", err)
		}
	}

	diskCfg := probe.DiskConfig{
		Dir:          cfg.Disk.Dir,
		FileBytes:    cfg.Disk.FileSizeMB << 20,
		MaxFileBytes: cfg.Disk.MaxSizeMB << 20,
	}

	selected := parseSelection(*only)

	sup := thermal.NewSupervisor()
	r := runner.New(log, table, sup, cfg.Weights)

	ctx := context.Background()
	report := r.Run(ctx, runner.DefaultCategories(diskCfg, nil), runner.Options{
		Budget:   time.Duration(cfg.Run.BudgetSeconds * float64(time.Second)),
		Quick:    cfg.Run.Quick,
		Selected: selected,
		Label:    cfg.Run.Label,
	})

	if *advanced {
		p := profiler.New(profiler.Config{
			Repeats:                cfg.Profiler.Repeats,
			CacheDropThreshold:     cfg.Profiler.CacheDropPercent / 100,
			QueueDepthMarginalGain: cfg.Profiler.QueueDepthGainPercent / 100,
			CliffThresholdPercent:  cfg.Profiler.CliffThresholdPercent,
			Disk:                   diskCfg,
		}, log)
		findings := p.Run(ctx)
		report.Advanced = &findings
	}

	benchreport.WriteSummary(os.Stderr, report)
	if err := benchreport.WriteJSON(report, *outPath); err != nil {
		fatalf("write report: %v", err)
	}
}

// parseSelection turns the -only flag into a selection set. Empty
// selects every category except gpu, which has no default compute
// backend and would only dilute the total with a guaranteed failure.
func parseSelection(only string) map[string]bool {
	selected := map[string]bool{
		scoring.CPUSingle: true,
		scoring.CPUMulti:  true,
		scoring.Memory:    true,
		scoring.Disk:      true,
	}
	if only == "" {
		return selected
	}
	selected = map[string]bool{}
	for _, key := range strings.Split(only, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			selected[key] = true
		}
	}
	return selected
}

func fatalf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
