// Package thermal brackets benchmark phases with thermal-pressure
// snapshots. Throttling never halts or invalidates a benchmark; it is
// recorded and surfaced so the caller can judge validity. When the
// platform gives us no thermal signal we fail open to Nominal:
// availability of the measurement matters more than precision of this
// particular signal.
package thermal

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Level is the coarse thermal-pressure state, mirroring the four
// process-info thermal states on macOS.
type Level int

const (
	Nominal Level = iota
	Fair
	Serious
	Critical
)

func (l Level) String() string {
	switch l {
	case Fair:
		return "fair"
	case Serious:
		return "serious"
	case Critical:
		return "critical"
	default:
		return "nominal"
	}
}

// Snapshot is one point-in-time thermal reading labeled with the phase
// it brackets.
type Snapshot struct {
	Time  time.Time
	Level Level
	Phase string
}

// Supervisor records an append-only snapshot sequence for a run. The
// runner records sequentially; the supervisor is not safe for
// concurrent use and does not need to be.
type Supervisor struct {
	read      func() Level
	snapshots []Snapshot
}

// NewSupervisor reads thermal state from the platform.
func NewSupervisor() *Supervisor {
	return &Supervisor{read: readLevel}
}

// NewSupervisorWithReader injects a reader, for tests.
func NewSupervisorWithReader(read func() Level) *Supervisor {
	return &Supervisor{read: read}
}

// CurrentLevel is a point-in-time read; it does not append a snapshot.
func (s *Supervisor) CurrentLevel() Level { return s.read() }

// IsThrottling reports whether the current level is Serious or worse.
func (s *Supervisor) IsThrottling() bool { return s.read() >= Serious }

// Record reads the current level and appends a snapshot labeled with
// phase.
func (s *Supervisor) Record(phase string) Snapshot {
	snap := Snapshot{Time: time.Now(), Level: s.read(), Phase: phase}
	s.snapshots = append(s.snapshots, snap)
	return snap
}

// Snapshots returns the ordered sequence recorded so far.
func (s *Supervisor) Snapshots() []Snapshot { return s.snapshots }

// SawThrottling reports whether any recorded snapshot was Serious or
// worse.
func (s *Supervisor) SawThrottling() bool {
	for _, snap := range s.snapshots {
		if snap.Level >= Serious {
			return true
		}
	}
	return false
}

// readLevel reads platform thermal state, Nominal on any failure.
func readLevel() Level {
	switch runtime.GOOS {
	case "darwin":
		out, err := exec.Command("pmset", "-g", "therm").Output()
		if err != nil {
			return Nominal
		}
		if limit, ok := parseSpeedLimit(string(out)); ok {
			return levelFromSpeedLimit(limit)
		}
		return Nominal
	case "linux":
		if milli, ok := maxZoneTempMilliC("/sys/class/thermal"); ok {
			return levelFromMilliC(milli)
		}
		return Nominal
	default:
		return Nominal
	}
}

// parseSpeedLimit extracts CPU_Speed_Limit from pmset -g therm output.
func parseSpeedLimit(out string) (int, bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "CPU_Speed_Limit") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

func levelFromSpeedLimit(limit int) Level {
	switch {
	case limit >= 100:
		return Nominal
	case limit >= 80:
		return Fair
	case limit >= 50:
		return Serious
	default:
		return Critical
	}
}

// maxZoneTempMilliC returns the hottest thermal zone in millidegrees
// Celsius.
func maxZoneTempMilliC(root string) (int, bool) {
	zones, err := filepath.Glob(filepath.Join(root, "thermal_zone*", "temp"))
	if err != nil || len(zones) == 0 {
		return 0, false
	}
	maxMilli := 0
	found := false
	for _, zone := range zones {
		b, err := os.ReadFile(zone)
		if err != nil {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(string(b)))
		if err != nil {
			continue
		}
		found = true
		if v > maxMilli {
			maxMilli = v
		}
	}
	return maxMilli, found
}

func levelFromMilliC(milli int) Level {
	switch {
	case milli < 70000:
		return Nominal
	case milli < 80000:
		return Fair
	case milli < 90000:
		return Serious
	default:
		return Critical
	}
}
