package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sys/unix"
)

const (
	diskChunkBytes = 1 << 20
	diskIOBytes    = 4 << 10
	diskRandomOps  = 2048
)

// DiskConfig carries the scratch location and the allocation policy
// for disk payloads. A probe whose file would exceed MaxFileBytes
// refuses before allocating anything.
type DiskConfig struct {
	Dir          string
	FileBytes    int64
	MaxFileBytes int64
}

// DefaultDiskConfig uses the OS temp dir with a 64 MiB scratch file
// capped at 1 GiB.
func DefaultDiskConfig() DiskConfig {
	return DiskConfig{
		Dir:          os.TempDir(),
		FileBytes:    64 << 20,
		MaxFileBytes: 1 << 30,
	}
}

func (c DiskConfig) check() error {
	if c.FileBytes <= 0 {
		return fmt.Errorf("disk: file size must be positive, got %d", c.FileBytes)
	}
	if c.MaxFileBytes > 0 && c.FileBytes > c.MaxFileBytes {
		return fmt.Errorf("disk: file size %d exceeds policy cap %d", c.FileBytes, c.MaxFileBytes)
	}
	return nil
}

// DiskProbes returns the default disk payload set.
func DiskProbes(cfg DiskConfig) []Probe {
	return []Probe{
		NewSequentialWrite(cfg),
		NewSequentialRead(cfg),
		NewRandomRead(cfg, 4),
		NewRandomWrite(cfg, 4),
	}
}

// NewSequentialWrite measures sequential write throughput in MB/s,
// fsynced once at the end so the measurement covers reaching the
// device, not just the page cache.
func NewSequentialWrite(cfg DiskConfig) Probe {
	return NewFunc("seq-write", "MB/s", HigherIsBetter, func() (float64, error) {
		if err := cfg.check(); err != nil {
			return 0, err
		}
		f, err := os.CreateTemp(cfg.Dir, "bench-write-*")
		if err != nil {
			return 0, fmt.Errorf("seq-write: %w", err)
		}
		defer os.Remove(f.Name())
		defer f.Close()

		chunk := patternBuffer(diskChunkBytes)
		start := time.Now()
		var written int64
		for written < cfg.FileBytes {
			n, err := f.Write(chunk)
			if err != nil {
				return 0, fmt.Errorf("seq-write: %w", err)
			}
			written += int64(n)
		}
		if err := unix.Fsync(int(f.Fd())); err != nil {
			return 0, fmt.Errorf("seq-write: fsync: %w", err)
		}
		elapsed := time.Since(start).Seconds()
		if elapsed <= 0 {
			return 0, fmt.Errorf("seq-write: timer resolution too coarse")
		}
		return float64(written) / elapsed / 1e6, nil
	})
}

// NewSequentialRead measures sequential read throughput in MB/s over a
// freshly written scratch file.
func NewSequentialRead(cfg DiskConfig) Probe {
	return NewFunc("seq-read", "MB/s", HigherIsBetter, func() (float64, error) {
		path, err := writeScratchFile(cfg)
		if err != nil {
			return 0, fmt.Errorf("seq-read: %w", err)
		}
		defer os.Remove(path)

		f, err := os.Open(path)
		if err != nil {
			return 0, fmt.Errorf("seq-read: %w", err)
		}
		defer f.Close()

		buf := make([]byte, diskChunkBytes)
		start := time.Now()
		var read int64
		for {
			n, err := f.Read(buf)
			read += int64(n)
			if err != nil {
				break
			}
		}
		elapsed := time.Since(start).Seconds()
		if read == 0 {
			return 0, fmt.Errorf("seq-read: empty scratch file")
		}
		sink = uint64(buf[0])
		if elapsed <= 0 {
			return 0, fmt.Errorf("seq-read: timer resolution too coarse")
		}
		return float64(read) / elapsed / 1e6, nil
	})
}

// NewRandomRead measures 4 KiB random read IOPS at the given queue
// depth. In-flight operations are bounded by a weighted semaphore, the
// same discipline as a device queue.
func NewRandomRead(cfg DiskConfig, depth int) Probe {
	name := fmt.Sprintf("rand-read-qd%d", depth)
	return NewFunc(name, "IOPS", HigherIsBetter, func() (float64, error) {
		return randomIOPS(cfg, depth, false)
	})
}

// NewRandomWrite measures 4 KiB random write IOPS at the given queue
// depth.
func NewRandomWrite(cfg DiskConfig, depth int) Probe {
	name := fmt.Sprintf("rand-write-qd%d", depth)
	return NewFunc(name, "IOPS", HigherIsBetter, func() (float64, error) {
		return randomIOPS(cfg, depth, true)
	})
}

func randomIOPS(cfg DiskConfig, depth int, write bool) (float64, error) {
	if depth < 1 {
		return 0, fmt.Errorf("disk: queue depth must be >= 1, got %d", depth)
	}
	path, err := writeScratchFile(cfg)
	if err != nil {
		return 0, err
	}
	defer os.Remove(path)

	flags := os.O_RDONLY
	if write {
		flags = os.O_RDWR
	}
	f, err := os.OpenFile(path, flags, 0)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	fd := int(f.Fd())

	offsets := randomOffsets(diskRandomOps, cfg.FileBytes)
	sem := semaphore.NewWeighted(int64(depth))
	ctx := context.Background()
	errCh := make(chan error, 1)

	start := time.Now()
	for _, off := range offsets {
		if err := sem.Acquire(ctx, 1); err != nil {
			return 0, err
		}
		go func(off int64) {
			defer sem.Release(1)
			buf := make([]byte, diskIOBytes)
			var opErr error
			if write {
				_, opErr = unix.Pwrite(fd, buf, off)
			} else {
				_, opErr = unix.Pread(fd, buf, off)
			}
			if opErr != nil {
				select {
				case errCh <- opErr:
				default:
				}
			}
		}(off)
	}
	// Join: reacquire the full weight once every operation released.
	if err := sem.Acquire(ctx, int64(depth)); err != nil {
		return 0, err
	}
	elapsed := time.Since(start).Seconds()
	if write {
		if err := unix.Fsync(fd); err != nil {
			return 0, fmt.Errorf("disk: fsync: %w", err)
		}
	}
	select {
	case opErr := <-errCh:
		return 0, fmt.Errorf("disk: io failed: %w", opErr)
	default:
	}
	if elapsed <= 0 {
		return 0, fmt.Errorf("disk: timer resolution too coarse")
	}
	return float64(diskRandomOps) / elapsed, nil
}

func writeScratchFile(cfg DiskConfig) (string, error) {
	if err := cfg.check(); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(cfg.Dir, "bench-scratch-*")
	if err != nil {
		return "", err
	}
	chunk := patternBuffer(diskChunkBytes)
	var written int64
	for written < cfg.FileBytes {
		n, err := f.Write(chunk)
		if err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", err
		}
		written += int64(n)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return filepath.Clean(path), nil
}

func randomOffsets(count int, fileBytes int64) []int64 {
	maxBlock := fileBytes / diskIOBytes
	if maxBlock < 1 {
		maxBlock = 1
	}
	offs := make([]int64, count)
	x := uint64(0x6c078965)
	for i := range offs {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		offs[i] = int64(x%uint64(maxBlock)) * diskIOBytes
	}
	return offs
}
