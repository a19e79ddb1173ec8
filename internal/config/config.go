package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Run struct {
		// BudgetSeconds is the per-category sampling budget.
		BudgetSeconds float64 `yaml:"budget_seconds"`
		// Quick skips warm-up invocations.
		Quick bool   `yaml:"quick"`
		Label string `yaml:"label"`
	} `yaml:"run"`

	Disk struct {
		Dir        string `yaml:"dir"`
		FileSizeMB int64  `yaml:"file_size_mb"`
		MaxSizeMB  int64  `yaml:"max_size_mb"`
	} `yaml:"disk"`

	// Weights overrides the canonical category weights; keys are
	// category names, omitted categories keep their defaults.
	Weights map[string]float64 `yaml:"weights"`

	// BaselinePath points at a YAML baseline snapshot; empty uses the
	// built-in reference table.
	BaselinePath string `yaml:"baseline_path"`

	Profiler struct {
		Repeats               int     `yaml:"repeats"`
		CacheDropPercent      float64 `yaml:"cache_drop_percent"`
		QueueDepthGainPercent float64 `yaml:"queue_depth_gain_percent"`
		CliffThresholdPercent float64 `yaml:"cliff_threshold_percent"`
	} `yaml:"profiler"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.Run.BudgetSeconds = 2.0
	c.Disk.Dir = os.TempDir()
	c.Disk.FileSizeMB = 64
	c.Disk.MaxSizeMB = 1024
	c.Profiler.Repeats = 3
	c.Profiler.CacheDropPercent = 15
	c.Profiler.QueueDepthGainPercent = 10
	c.Profiler.CliffThresholdPercent = 70
	return c
}

// Load reads path over the defaults. A missing file is not an error;
// it yields Default().
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if c.Run.BudgetSeconds <= 0 {
		return c, fmt.Errorf("config: %s: run.budget_seconds must be positive", path)
	}
	for name, w := range c.Weights {
		if w < 0 || w > 1 {
			return c, fmt.Errorf("config: %s: weight for %q must be in [0, 1], got %v", path, name, w)
		}
	}
	return c, nil
}
