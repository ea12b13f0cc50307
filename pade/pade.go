// Package pade builds piecewise rational approximations of expensive
// voltage-dependent rate functions, for fast repeated evaluation inside the
// per-cell integration loop.
//
// A fit is constructed once, before the parallel region, against a caller
// supplied tolerance; construction fails loudly if the tolerance cannot be
// met, and evaluation can then never fail. Approximants are immutable after
// construction and are shared by all worker threads without locking.
package pade

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Func is a fit target: a scalar function of membrane voltage (or, for the
// exponential table, of a nonnegative rate argument).
type Func func(v float64) float64

// ErrTolerance reports that no fit within the configured order and
// subdivision limits meets the requested tolerance.
var ErrTolerance = errors.New("pade: tolerance not attainable")

// interval holds one piece of a piecewise rational fit. Coefficients are in
// ascending order over the scaled local coordinate x = (v-mid)*xscale, with
// x in [-1,1] across the piece. The denominator's constant term is fixed at
// 1; a nil den means the piece degenerated to a plain polynomial.
type interval struct {
	mid    float64
	xscale float64
	num    []float64
	den    []float64
}

// Approximant is an immutable piecewise rational fit of a Func over
// [V0, V1], accurate to within Tol everywhere in the domain.
//
// Evaluation outside [V0, V1] is a contract violation: the interval index
// is clamped, so the call returns the boundary piece's extrapolation rather
// than anything meaningful. Callers must clamp their argument first. The
// padedebug build tag turns violations into panics.
type Approximant struct {
	name     string
	v0, v1   float64
	tol      float64
	invWidth float64
	pieces   []interval
}

// Name returns the label the approximant was fitted under.
func (a *Approximant) Name() string { return a.name }

// Domain returns the fitted voltage range.
func (a *Approximant) Domain() (v0, v1 float64) { return a.v0, a.v1 }

// Tol returns the guaranteed maximum absolute error over the domain.
func (a *Approximant) Tol() float64 { return a.tol }

// Pieces returns the number of intervals in the piecewise table.
func (a *Approximant) Pieces() int { return len(a.pieces) }

// Eval evaluates the fit at v. O(1): the containing piece is found by index
// arithmetic, never by search, and each polynomial is a fused Horner chain.
func (a *Approximant) Eval(v float64) float64 {
	checkDomain(a, v)
	idx := int((v - a.v0) * a.invWidth)
	if idx < 0 {
		idx = 0
	} else if idx >= len(a.pieces) {
		idx = len(a.pieces) - 1
	}
	p := &a.pieces[idx]
	x := (v - p.mid) * p.xscale
	n := horner(x, p.num)
	if p.den == nil {
		return n
	}
	return n / horner(x, p.den)
}

// horner evaluates an ascending-coefficient polynomial with fused
// multiply-adds, matching the vector path bit for bit in base mode.
func horner(x float64, c []float64) float64 {
	r := c[len(c)-1]
	for i := len(c) - 2; i >= 0; i-- {
		r = math.FMA(r, x, c[i])
	}
	return r
}

// MaxError sweeps the domain on a dense grid and returns the largest
// absolute deviation from f. Used by the fitter's acceptance check and by
// tests.
func (a *Approximant) MaxError(f Func, samples int) float64 {
	if samples < 2 {
		samples = 2
	}
	step := (a.v1 - a.v0) / float64(samples-1)
	worst := 0.0
	for i := 0; i < samples; i++ {
		v := a.v0 + float64(i)*step
		if e := math.Abs(a.Eval(v) - f(v)); e > worst {
			worst = e
		}
	}
	return worst
}

// WriteTable dumps the coefficient table in a plain text form for offline
// inspection of a fit.
func (a *Approximant) WriteTable(w io.Writer) error {
	width := (a.v1 - a.v0) / float64(len(a.pieces))
	if _, err := fmt.Fprintf(w, "%s: domain [%g, %g] tol %g pieces %d width %g\n",
		a.name, a.v0, a.v1, a.tol, len(a.pieces), width); err != nil {
		return err
	}
	for i := range a.pieces {
		p := &a.pieces[i]
		if _, err := fmt.Fprintf(w, "  [%d] mid %g xscale %g num %v den %v\n",
			i, p.mid, p.xscale, p.num, p.den); err != nil {
			return err
		}
	}
	return nil
}

// Config bounds the fitter's search. The zero value is not useful; start
// from DefaultConfig.
type Config struct {
	// MaxSplits caps uniform domain subdivision; the table never exceeds
	// 2^MaxSplits pieces.
	MaxSplits int
	// Orders is the ladder of (numerator, denominator) degree pairs tried
	// per piece, cheapest first.
	Orders [][2]int
	// VerifyOversample multiplies the sampling density of the acceptance
	// sweep relative to the fitting grid.
	VerifyOversample int
}

// DefaultConfig interleaves plain polynomial and rational forms so that a
// piece always has a pole-free fallback at every cost level.
func DefaultConfig() Config {
	return Config{
		MaxSplits: 10,
		Orders: [][2]int{
			{3, 0}, {2, 2}, {5, 0}, {4, 2}, {4, 4},
			{8, 0}, {6, 4}, {10, 0}, {8, 4}, {12, 0},
		},
		VerifyOversample: 4,
	}
}

// Fit constructs a piecewise rational approximation of f over [v0, v1],
// sampled at resolution deltaV, with guaranteed maximum error tol, using
// DefaultConfig. The name labels the fit in errors and table dumps.
func Fit(name string, f Func, v0, v1, deltaV, tol float64) (*Approximant, error) {
	return DefaultConfig().Fit(name, f, v0, v1, deltaV, tol)
}

// Fit is the configurable form of the package-level Fit.
func (cfg Config) Fit(name string, f Func, v0, v1, deltaV, tol float64) (*Approximant, error) {
	if !(v1 > v0) {
		return nil, fmt.Errorf("pade: %s: empty domain [%g, %g]", name, v0, v1)
	}
	if !(deltaV > 0) || !(tol > 0) {
		return nil, fmt.Errorf("pade: %s: deltaV and tol must be positive", name)
	}

	for splits := 0; splits <= cfg.MaxSplits; splits++ {
		nPieces := 1 << splits
		width := (v1 - v0) / float64(nPieces)
		pieces := make([]interval, 0, nPieces)
		ok := true
		for i := 0; i < nPieces && ok; i++ {
			lo := v0 + float64(i)*width
			p, fitted := cfg.fitPiece(f, lo, lo+width, deltaV, tol)
			if !fitted {
				ok = false
				break
			}
			pieces = append(pieces, p)
		}
		if !ok {
			continue
		}
		a := &Approximant{
			name:     name,
			v0:       v0,
			v1:       v1,
			tol:      tol,
			invWidth: float64(nPieces) / (v1 - v0),
			pieces:   pieces,
		}
		// Acceptance is judged on the assembled table, offset from the
		// fitting grid, so grid-aligned luck cannot hide excursions.
		samples := cfg.VerifyOversample * (int((v1-v0)/deltaV) + 2)
		if a.MaxError(f, samples) <= tol {
			return a, nil
		}
	}
	return nil, fmt.Errorf("pade: %s over [%g, %g]: %w (tol %g, max %d splits)",
		name, v0, v1, ErrTolerance, tol, cfg.MaxSplits)
}

// fitPiece tries the order ladder on a single interval and returns the
// first candidate passing the local error sweep.
func (cfg Config) fitPiece(f Func, lo, hi, deltaV, tol float64) (interval, bool) {
	mid := 0.5 * (lo + hi)
	xscale := 2.0 / (hi - lo)

	for _, ord := range cfg.Orders {
		n, m := ord[0], ord[1]
		nsamp := int((hi-lo)/deltaV) + 1
		if minSamp := 4 * (n + m + 1); nsamp < minSamp {
			nsamp = minSamp
		}
		p, ok := solveRational(f, lo, hi, mid, xscale, n, m, nsamp)
		if !ok {
			continue
		}
		if pieceError(f, p, lo, hi, cfg.VerifyOversample*nsamp) <= tol {
			return p, true
		}
	}
	return interval{}, false
}

// solveRational fits num/den of degrees (n, m) by linearized least squares:
// for each sample, f(v)*den(x) - num(x) = f(v), with den's constant term
// pinned at 1. Returns ok=false when the solve fails or the denominator
// gets anywhere near a zero on the interval.
func solveRational(f Func, lo, hi, mid, xscale float64, n, m, nsamp int) (interval, bool) {
	cols := (n + 1) + m
	rows := nsamp
	A := mat.NewDense(rows, cols, nil)
	b := mat.NewVecDense(rows, nil)

	// Pieces are half-open on the right to mirror the index mapping:
	// v = hi belongs to the next piece, so its sample must not
	// contaminate this one when the target jumps at a piece boundary.
	step := (hi - lo) / float64(nsamp)
	for r := 0; r < rows; r++ {
		v := lo + float64(r)*step
		x := (v - mid) * xscale
		fv := f(v)
		xp := 1.0
		for c := 0; c <= n; c++ {
			A.Set(r, c, xp)
			xp *= x
		}
		xp = x
		for c := 0; c < m; c++ {
			A.Set(r, n+1+c, -fv*xp)
			xp *= x
		}
		b.SetVec(r, fv)
	}

	var qr mat.QR
	qr.Factorize(A)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, b); err != nil {
		return interval{}, false
	}

	p := interval{mid: mid, xscale: xscale, num: make([]float64, n+1)}
	for c := 0; c <= n; c++ {
		p.num[c] = sol.AtVec(c)
	}
	if m > 0 {
		p.den = make([]float64, m+1)
		p.den[0] = 1
		for c := 0; c < m; c++ {
			p.den[1+c] = sol.AtVec(n + 1 + c)
		}
		// Reject any fit whose denominator dips toward zero in-domain;
		// a pole would make the error sweep meaningless.
		for r := 0; r < 4*nsamp; r++ {
			x := -1 + 2*float64(r)/float64(4*nsamp-1)
			if math.Abs(horner(x, p.den)) < 0.1 {
				return interval{}, false
			}
		}
	}
	for _, c := range p.num {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return interval{}, false
		}
	}
	return p, true
}

func pieceError(f Func, p interval, lo, hi float64, samples int) float64 {
	step := (hi - lo) / float64(samples)
	worst := 0.0
	for i := 0; i < samples; i++ {
		v := lo + float64(i)*step
		x := (v - p.mid) * p.xscale
		y := horner(x, p.num)
		if p.den != nil {
			y /= horner(x, p.den)
		}
		if e := math.Abs(y - f(v)); e > worst {
			worst = e
		}
	}
	return worst
}
