package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/surya62324151/apple-silicon-bench/internal/probe"
)

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.yaml")
	content := `
reference_cores: 10
metrics:
  cpu-single.int-ops:
    value: 1200
  memory.random-latency:
    value: 95
    direction: lower
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if table.ReferenceCores() != 10 {
		t.Fatalf("reference cores = %d, want 10", table.ReferenceCores())
	}

	b, ok := table.Lookup("cpu-single.int-ops")
	if !ok || b.Value != 1200 || b.Direction != probe.HigherIsBetter {
		t.Fatalf("int-ops baseline = %+v ok=%v", b, ok)
	}
	b, ok = table.Lookup("memory.random-latency")
	if !ok || b.Direction != probe.LowerIsBetter {
		t.Fatalf("latency baseline = %+v ok=%v, want lower-is-better", b, ok)
	}
	if _, ok := table.Lookup("nonexistent"); ok {
		t.Fatalf("lookup of absent key must report absence")
	}
}

func TestLoadTableRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"zero-cores.yaml":  "reference_cores: 0\nmetrics: {}\n",
		"zero-metric.yaml": "reference_cores: 8\nmetrics:\n  a.b: {value: 0}\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadTable(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	if _, err := LoadTable(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing baseline file")
	}
}

func TestDefaultTableCoversDefaultProbes(t *testing.T) {
	table := DefaultTable()
	keys := []string{
		"cpu-single.int-ops", "cpu-single.float-ops", "cpu-single.blake3",
		"cpu-single.chacha20poly1305", "cpu-single.zstd", "cpu-single.lz4",
		"cpu-multi.int-ops", "cpu-multi.float-ops", "cpu-multi.blake3",
		"cpu-multi.chacha20poly1305", "cpu-multi.zstd", "cpu-multi.lz4",
		"memory.copy-bandwidth", "memory.triad-bandwidth", "memory.random-latency",
		"disk.seq-write", "disk.seq-read", "disk.rand-read-qd4", "disk.rand-write-qd4",
		"gpu.gpu-matmul", "gpu.gpu-copy",
	}
	for _, key := range keys {
		if _, ok := table.Lookup(key); !ok {
			t.Errorf("default table missing %q", key)
		}
	}
	if lat, _ := table.Lookup("memory.random-latency"); lat.Direction != probe.LowerIsBetter {
		t.Errorf("random-latency must be lower-is-better")
	}
}
