package benchreport

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteJSON encodes the report with indentation to outPath, or to
// stdout when outPath is empty. Parent directories are created.
func WriteJSON(r Report, outPath string) error {
	if outPath == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteSummary prints the human-readable score table with a throttling
// badge when the supervisor saw serious or critical pressure.
func WriteSummary(w io.Writer, r Report) {
	fmt.Fprintf(w, "\n%s (%d cores, %s/%s)\n", r.Env.CPUModel, r.Env.LogicalCores, r.Env.OS, r.Env.Arch)
	if r.Label != "" {
		fmt.Fprintf(w, "label: %s\n", r.Label)
	}
	fmt.Fprintln(w)
	for _, c := range r.Categories {
		badge := ""
		if c.Outcome == "failed" {
			badge = "  [FAILED]"
		}
		fmt.Fprintf(w, "  %-12s %8.0f%s\n", c.Title, c.Score, badge)
		for _, m := range c.Metrics {
			if m.Failed {
				fmt.Fprintf(w, "    %-22s %s\n", m.Name, "failed")
				continue
			}
			fmt.Fprintf(w, "    %-22s %12.2f %s\n", m.Name, m.Value, m.Unit)
		}
	}
	fmt.Fprintf(w, "\n  %-12s %8.0f\n", "TOTAL", r.TotalScore)
	if r.Throttled {
		fmt.Fprintf(w, "\n  ⚠ thermal throttling observed during the run; scores may understate this machine\n")
	}
}
