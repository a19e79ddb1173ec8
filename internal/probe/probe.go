// Package probe defines the unit-of-work contract consumed by the
// sampling loop, the scaling harness and the advanced profiler. A probe
// performs one self-contained piece of work and reports a single
// numeric measurement. Probes are stateless: everything they allocate
// is released before Invoke returns, so they are safe to call in a
// tight loop and from multiple workers at once.
package probe

// Direction says whether a larger measurement means better performance
// (throughput-style metrics) or worse (latency-style metrics).
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

func (d Direction) String() string {
	if d == LowerIsBetter {
		return "lower"
	}
	return "higher"
}

// Probe is one named benchmark payload.
//
// Invoke returns a strictly positive measurement on success. A failed
// invocation returns an error; callers treat it as "no sample", never
// as a zero measurement.
type Probe interface {
	Name() string
	Unit() string
	Direction() Direction
	Invoke() (float64, error)
}

// Func adapts a plain function to the Probe interface.
type Func struct {
	name string
	unit string
	dir  Direction
	fn   func() (float64, error)
}

func NewFunc(name, unit string, dir Direction, fn func() (float64, error)) *Func {
	return &Func{name: name, unit: unit, dir: dir, fn: fn}
}

func (f *Func) Name() string             { return f.name }
func (f *Func) Unit() string             { return f.unit }
func (f *Func) Direction() Direction     { return f.dir }
func (f *Func) Invoke() (float64, error) { return f.fn() }
