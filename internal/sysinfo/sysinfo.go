// Package sysinfo collects the machine identity attached to reports:
// CPU model, logical core count, OS/arch, GPU name. Everything here is
// best-effort; a detection failure degrades to a generic label, never
// an error.
package sysinfo

import (
	"bufio"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

type Info struct {
	CPUModel     string
	LogicalCores int
	OS           string
	Arch         string
	GPUName      string
}

func Collect() Info {
	return Info{
		CPUModel:     detectCPUModel(),
		LogicalCores: runtime.NumCPU(),
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		GPUName:      detectGPUName(),
	}
}

func detectCPUModel() string {
	if runtime.GOOS == "darwin" {
		out, err := exec.Command("sysctl", "-n", "machdep.cpu.brand_string").Output()
		if err == nil {
			return strings.TrimSpace(string(out))
		}
	}
	if runtime.GOOS == "linux" {
		f, err := os.Open("/proc/cpuinfo")
		if err == nil {
			defer f.Close()
			sc := bufio.NewScanner(f)
			for sc.Scan() {
				line := sc.Text()
				if strings.HasPrefix(line, "model name") {
					parts := strings.SplitN(line, ":", 2)
					if len(parts) == 2 {
						return strings.TrimSpace(parts[1])
					}
				}
			}
		}
	}
	return runtime.GOARCH + " CPU"
}

func detectGPUName() string {
	if runtime.GOOS == "darwin" {
		out, err := exec.Command("system_profiler", "SPDisplaysDataType").Output()
		if err == nil {
			sc := bufio.NewScanner(strings.NewReader(string(out)))
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if strings.HasPrefix(strings.ToLower(line), "chipset model:") {
					parts := strings.SplitN(line, ":", 2)
					if len(parts) == 2 {
						return strings.TrimSpace(parts[1])
					}
				}
			}
		}
	}
	if path, _ := exec.LookPath("nvidia-smi"); path != "" {
		out, err := exec.Command("nvidia-smi", "--query-gpu=name", "--format=csv,noheader").Output()
		if err == nil {
			lines := strings.Split(strings.TrimSpace(string(out)), "\n")
			if len(lines) > 0 && lines[0] != "" {
				return strings.TrimSpace(lines[0])
			}
		}
	}
	return ""
}
