package probe

import (
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20poly1305"
)

// sink defeats dead-code elimination of the arithmetic loops.
var sink uint64

const (
	intOpsPerInvoke   = 1 << 23
	floatOpsPerInvoke = 1 << 23
	hashBufBytes      = 4 << 20
	sealBufBytes      = 1 << 20
	compressBufBytes  = 4 << 20
)

// CPUProbes returns the single-threaded CPU payload set. The same
// probes are fanned out by the scaling harness for the multi-core
// category, so they must not share any mutable state.
func CPUProbes() []Probe {
	return []Probe{
		NewIntegerOps(),
		NewFloatOps(),
		NewBlake3Hash(),
		NewChaChaSeal(),
		NewZstdCompress(),
		NewLZ4Compress(),
	}
}

// NewIntegerOps measures integer ALU throughput with a xorshift mix
// loop, reported in Mops/s.
func NewIntegerOps() Probe {
	return NewFunc("int-ops", "Mops/s", HigherIsBetter, func() (float64, error) {
		x := uint64(0x9e3779b97f4a7c15)
		start := time.Now()
		for i := 0; i < intOpsPerInvoke; i++ {
			x ^= x << 13
			x ^= x >> 7
			x ^= x << 17
			x += uint64(i)
		}
		elapsed := time.Since(start).Seconds()
		sink = x
		if elapsed <= 0 {
			return 0, fmt.Errorf("int-ops: timer resolution too coarse")
		}
		return float64(intOpsPerInvoke) / elapsed / 1e6, nil
	})
}

// NewFloatOps measures floating-point multiply-add throughput across
// four independent accumulator chains, reported in GFLOPS (two
// operations per multiply-add step).
func NewFloatOps() Probe {
	return NewFunc("float-ops", "GFLOPS", HigherIsBetter, func() (float64, error) {
		a, b, c, d := 1.0000001, 1.0000002, 1.0000003, 1.0000004
		const m = 1.0000000001
		start := time.Now()
		for i := 0; i < floatOpsPerInvoke/4; i++ {
			a = a*m + 0.0000001
			b = b*m + 0.0000002
			c = c*m + 0.0000003
			d = d*m + 0.0000004
		}
		elapsed := time.Since(start).Seconds()
		sink = uint64(a + b + c + d)
		if elapsed <= 0 {
			return 0, fmt.Errorf("float-ops: timer resolution too coarse")
		}
		return float64(floatOpsPerInvoke) * 2 / elapsed / 1e9, nil
	})
}

// NewBlake3Hash measures BLAKE3 hashing throughput in MB/s.
func NewBlake3Hash() Probe {
	return NewFunc("blake3", "MB/s", HigherIsBetter, func() (float64, error) {
		buf := patternBuffer(hashBufBytes)
		h := blake3.New()
		start := time.Now()
		if _, err := h.Write(buf); err != nil {
			return 0, fmt.Errorf("blake3: %w", err)
		}
		digest := h.Sum(nil)
		elapsed := time.Since(start).Seconds()
		sink = uint64(digest[0])
		if elapsed <= 0 {
			return 0, fmt.Errorf("blake3: timer resolution too coarse")
		}
		return float64(hashBufBytes) / elapsed / 1e6, nil
	})
}

// NewChaChaSeal measures ChaCha20-Poly1305 AEAD sealing throughput in
// MB/s.
func NewChaChaSeal() Probe {
	return NewFunc("chacha20poly1305", "MB/s", HigherIsBetter, func() (float64, error) {
		key := make([]byte, chacha20poly1305.KeySize)
		for i := range key {
			key[i] = byte(i * 7)
		}
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return 0, fmt.Errorf("chacha20poly1305: %w", err)
		}
		nonce := make([]byte, aead.NonceSize())
		plain := patternBuffer(sealBufBytes)
		out := make([]byte, 0, sealBufBytes+aead.Overhead())
		start := time.Now()
		out = aead.Seal(out, nonce, plain, nil)
		elapsed := time.Since(start).Seconds()
		sink = uint64(out[0])
		if elapsed <= 0 {
			return 0, fmt.Errorf("chacha20poly1305: timer resolution too coarse")
		}
		return float64(sealBufBytes) / elapsed / 1e6, nil
	})
}

// NewZstdCompress measures zstd (fastest level) compression throughput
// over semi-compressible input, in MB/s of input consumed.
func NewZstdCompress() Probe {
	return NewFunc("zstd", "MB/s", HigherIsBetter, func() (float64, error) {
		src := compressibleBuffer(compressBufBytes)
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return 0, fmt.Errorf("zstd: %w", err)
		}
		defer enc.Close()
		start := time.Now()
		dst := enc.EncodeAll(src, nil)
		elapsed := time.Since(start).Seconds()
		if len(dst) == 0 {
			return 0, fmt.Errorf("zstd: empty output")
		}
		sink = uint64(dst[0])
		if elapsed <= 0 {
			return 0, fmt.Errorf("zstd: timer resolution too coarse")
		}
		return float64(compressBufBytes) / elapsed / 1e6, nil
	})
}

// NewLZ4Compress measures LZ4 block compression throughput in MB/s of
// input consumed.
func NewLZ4Compress() Probe {
	return NewFunc("lz4", "MB/s", HigherIsBetter, func() (float64, error) {
		src := compressibleBuffer(compressBufBytes)
		dst := make([]byte, lz4.CompressBlockBound(len(src)))
		var c lz4.Compressor
		start := time.Now()
		n, err := c.CompressBlock(src, dst)
		elapsed := time.Since(start).Seconds()
		if err != nil {
			return 0, fmt.Errorf("lz4: %w", err)
		}
		if n > 0 {
			sink = uint64(dst[0])
		}
		if elapsed <= 0 {
			return 0, fmt.Errorf("lz4: timer resolution too coarse")
		}
		return float64(compressBufBytes) / elapsed / 1e6, nil
	})
}

// patternBuffer fills size bytes with a cheap deterministic xorshift
// stream. Incompressible enough for hashing and sealing payloads.
func patternBuffer(size int) []byte {
	buf := make([]byte, size)
	x := uint64(0x2545f4914f6cdd1d)
	for i := 0; i < size; i += 8 {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		for j := 0; j < 8 && i+j < size; j++ {
			buf[i+j] = byte(x >> (8 * j))
		}
	}
	return buf
}

// compressibleBuffer mixes runs of repeated bytes with pseudo-random
// spans, roughly 2:1 compressible, so compression probes exercise both
// match-finding and literal paths.
func compressibleBuffer(size int) []byte {
	buf := make([]byte, size)
	x := uint64(0x853c49e6748fea9b)
	i := 0
	for i < size {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		run := 32 + int(x%96)
		if i+run > size {
			run = size - i
		}
		if x&1 == 0 {
			b := byte(x >> 32)
			for j := 0; j < run; j++ {
				buf[i+j] = b
			}
		} else {
			for j := 0; j < run; j++ {
				buf[i+j] = byte(x >> (uint(j%8) * 8))
			}
		}
		i += run
	}
	return buf
}
