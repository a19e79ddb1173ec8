package thermal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseSpeedLimit(t *testing.T) {
	out := `Note: No active thermal warning level
CPU_Scheduler_Limit 	= 100
CPU_Available_CPUs 	= 8
CPU_Speed_Limit 	= 72
`
	limit, ok := parseSpeedLimit(out)
	if !ok || limit != 72 {
		t.Fatalf("limit = %d ok=%v, want 72", limit, ok)
	}

	if _, ok := parseSpeedLimit("garbage output\n"); ok {
		t.Fatalf("expected parse failure on garbage")
	}
}

func TestLevelFromSpeedLimit(t *testing.T) {
	cases := []struct {
		limit int
		want  Level
	}{
		{100, Nominal},
		{120, Nominal},
		{90, Fair},
		{80, Fair},
		{72, Serious},
		{50, Serious},
		{30, Critical},
	}
	for _, c := range cases {
		if got := levelFromSpeedLimit(c.limit); got != c.want {
			t.Errorf("levelFromSpeedLimit(%d) = %v, want %v", c.limit, got, c.want)
		}
	}
}

func TestLevelFromMilliC(t *testing.T) {
	cases := []struct {
		milli int
		want  Level
	}{
		{45000, Nominal},
		{69999, Nominal},
		{70000, Fair},
		{85000, Serious},
		{95000, Critical},
	}
	for _, c := range cases {
		if got := levelFromMilliC(c.milli); got != c.want {
			t.Errorf("levelFromMilliC(%d) = %v, want %v", c.milli, got, c.want)
		}
	}
}

func TestMaxZoneTemp(t *testing.T) {
	root := t.TempDir()
	for i, temp := range []string{"55000\n", "81000\n", "not-a-number\n"} {
		dir := filepath.Join(root, "thermal_zone"+string(rune('0'+i)))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "temp"), []byte(temp), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	milli, ok := maxZoneTempMilliC(root)
	if !ok || milli != 81000 {
		t.Fatalf("max = %d ok=%v, want 81000 (unparseable zones skipped)", milli, ok)
	}

	if _, ok := maxZoneTempMilliC(filepath.Join(root, "empty")); ok {
		t.Fatalf("expected failure with no zones")
	}
}

func TestSupervisorRecordsOrderedSnapshots(t *testing.T) {
	levels := []Level{Nominal, Fair, Serious, Nominal}
	i := 0
	sup := NewSupervisorWithReader(func() Level {
		l := levels[i%len(levels)]
		i++
		return l
	})

	phases := []string{"run-start", "cpu-start", "cpu-end", "run-end"}
	for _, phase := range phases {
		sup.Record(phase)
	}

	snaps := sup.Snapshots()
	if len(snaps) != 4 {
		t.Fatalf("got %d snapshots, want 4", len(snaps))
	}
	for j, snap := range snaps {
		if snap.Phase != phases[j] {
			t.Errorf("snapshot %d phase = %q, want %q", j, snap.Phase, phases[j])
		}
		if snap.Level != levels[j] {
			t.Errorf("snapshot %d level = %v, want %v", j, snap.Level, levels[j])
		}
	}
	if !sup.SawThrottling() {
		t.Fatalf("a serious snapshot was recorded; SawThrottling must be true")
	}
}

func TestIsThrottling(t *testing.T) {
	for level, want := range map[Level]bool{
		Nominal:  false,
		Fair:     false,
		Serious:  true,
		Critical: true,
	} {
		sup := NewSupervisorWithReader(func() Level { return level })
		if got := sup.IsThrottling(); got != want {
			t.Errorf("IsThrottling at %v = %v, want %v", level, got, want)
		}
	}
}

func TestNoThrottlingSeen(t *testing.T) {
	sup := NewSupervisorWithReader(func() Level { return Fair })
	sup.Record("run-start")
	sup.Record("run-end")
	if sup.SawThrottling() {
		t.Fatalf("fair pressure is not throttling")
	}
}
