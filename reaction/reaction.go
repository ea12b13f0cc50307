// Package reaction integrates the membrane reaction term for a population
// of cardiac cells. It owns the cells' state in struct-of-arrays layout,
// steps it either on the caller's goroutine (Calc) or across a pinned
// worker pool (Pool), and exchanges only voltages and voltage derivatives
// with the diffusion side.
package reaction

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/KiruyaMomochi/cardioid/tt06"
)

// ErrUnknownCellType reports a cell assigned a type index outside the
// parameter table. Construction fails rather than deferring the fault to
// the hot loop.
var ErrUnknownCellType = errors.New("reaction: unknown cell type")

// Options configures construction. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	// FitTol is the relative tolerance of the rational approximants,
	// against each rate function's own maximum magnitude.
	FitTol float64

	// VMin, VMax bound the fitted voltage domain in mV. Voltages outside
	// are clamped during the gate update.
	VMin, VMax float64

	// DeltaV is the sampling resolution of the fit in mV.
	DeltaV float64
}

// DefaultOptions covers the physiological voltage range with enough
// headroom for stimulus overshoot.
func DefaultOptions() Options {
	return Options{
		FitTol: 1e-4,
		VMin:   -110,
		VMax:   60,
		DeltaV: 0.25,
	}
}

// Reaction holds the full cell population. State is struct-of-arrays:
// one contiguous slice per state variable, indexed by cell. All slices
// are private; the diffusion side sees only vm and dVdt through Calc.
type Reaction struct {
	n        int
	parms    []tt06.CellTypeParms
	cellType []int
	sSwitch  []float64
	state    [][]float64
	fits     *tt06.FitTable
	whole    shard
}

// shard is a precomputed view of a contiguous cell range, so the per-step
// path reslices nothing and allocates nothing. Pool workers each own one;
// Calc uses the whole-population shard.
type shard struct {
	lo, hi   int
	state    [][]float64
	cellType []int
	sSwitch  []float64
	ws       *tt06.GateWorkspace
}

// New builds a population. assignment maps each cell to an index into
// types; every index is validated here. Initial K and Na concentrations
// are spread across each type's population from the type's minimum
// through its midpoint to its maximum, so a freshly built population is
// heterogeneous the way a paced tissue is rather than a single point
// copied n times.
func New(types []tt06.CellTypeParms, assignment []int, opts Options) (*Reaction, error) {
	if len(types) == 0 {
		return nil, errors.New("reaction: empty cell type table")
	}
	n := len(assignment)
	if n == 0 {
		return nil, errors.New("reaction: empty cell assignment")
	}
	for i, ct := range assignment {
		if ct < 0 || ct >= len(types) {
			return nil, fmt.Errorf("%w: cell %d has type %d, table has %d entries",
				ErrUnknownCellType, i, ct, len(types))
		}
	}
	if opts.FitTol <= 0 || opts.VMax <= opts.VMin || opts.DeltaV <= 0 {
		return nil, fmt.Errorf("reaction: bad options %+v", opts)
	}

	fits, err := tt06.MakeFit(opts.FitTol, opts.VMin, opts.VMax, opts.DeltaV)
	if err != nil {
		return nil, err
	}

	r := &Reaction{
		n:        n,
		parms:    types,
		cellType: append([]int(nil), assignment...),
		sSwitch:  make([]float64, n),
		state:    make([][]float64, tt06.NStateVar),
		fits:     fits,
	}
	def := tt06.DefaultState()
	for k := range r.state {
		r.state[k] = make([]float64, n)
		for i := 0; i < n; i++ {
			r.state[k][i] = def[k]
		}
	}
	for i, ct := range r.cellType {
		if types[ct].SSwitch != 0 {
			r.sSwitch[i] = 1
		}
	}
	r.spreadConcentrations()
	r.whole = r.makeShard(0, n)
	return r, nil
}

// makeShard builds the resliced view for cells [lo, hi).
func (r *Reaction) makeShard(lo, hi int) shard {
	s := shard{
		lo:       lo,
		hi:       hi,
		state:    make([][]float64, tt06.NStateVar),
		cellType: r.cellType[lo:hi],
		sSwitch:  r.sSwitch[lo:hi],
		ws:       tt06.NewGateWorkspace(hi - lo),
	}
	for k := range r.state {
		s.state[k] = r.state[k][lo:hi]
	}
	return s
}

// spreadConcentrations distributes initial K and Na across each type's
// population: the first half of the cells span min..mid, the second half
// mid..max. A population of one sits at mid.
func (r *Reaction) spreadConcentrations() {
	for ct := range r.parms {
		var cells []int
		for i, t := range r.cellType {
			if t == ct {
				cells = append(cells, i)
			}
		}
		if len(cells) == 0 {
			continue
		}
		p := &r.parms[ct]
		r.spreadVar(tt06.KI, cells, p.MinKI, p.MidKI, p.MaxKI)
		r.spreadVar(tt06.NaI, cells, p.MinNaI, p.MidNaI, p.MaxNaI)
	}
}

func (r *Reaction) spreadVar(k int, cells []int, min, mid, max float64) {
	m := len(cells)
	vals := make([]float64, m)
	switch {
	case m == 1:
		vals[0] = mid
	case m == 2:
		vals[0], vals[1] = min, max
	default:
		nLo := m/2 + 1
		floats.Span(vals[:nLo], min, mid)
		floats.Span(vals[nLo-1:], mid, max)
	}
	for j, i := range cells {
		r.state[k][i] = vals[j]
	}
}

// Cells returns the population size.
func (r *Reaction) Cells() int { return r.n }

// Voltage returns the resting membrane voltage for cell i, used to seed
// the diffusion side's voltage array before stepping begins.
func (r *Reaction) Voltage(i int) float64 {
	_ = r.cellType[i] // bounds check
	return tt06.DefaultVoltage
}

// Calc advances the whole population by one reaction step of dt
// milliseconds on the caller's goroutine. vm holds the membrane voltages;
// the voltage time-derivative contribution is written to dVdt. Both must
// have length Cells.
func (r *Reaction) Calc(dt float64, vm, dVdt []float64) {
	r.calcShard(&r.whole, dt, vm, dVdt)
}

// calcShard steps one shard: balance laws first, then the gate
// relaxations against the voltage the step began with.
func (r *Reaction) calcShard(s *shard, dt float64, vm, dVdt []float64) {
	tt06.UpdateNonGate(dt, r.parms, s.cellType, vm[s.lo:s.hi], s.state, dVdt[s.lo:s.hi])
	tt06.UpdateGate(dt, r.fits, s.sSwitch, vm[s.lo:s.hi], s.state, s.ws)
}

// State returns a copy of one cell's state vector, for inspection and
// checkpointing. Not for hot paths.
func (r *Reaction) State(i int) [tt06.NStateVar]float64 {
	var out [tt06.NStateVar]float64
	for k := range r.state {
		out[k] = r.state[k][i]
	}
	return out
}
