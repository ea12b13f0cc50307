//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

package tt06

import (
	"math"

	"github.com/ajroetker/go-highway/hwy"
)

// GateWorkspace holds the scratch buffers one worker reuses across gate
// sweeps, sized for its cell shard. Not safe for concurrent use; allocate
// one per worker.
type GateWorkspace struct {
	vclamp []float64
	xinf   []float64
	xalt   []float64
	rate   []float64
	ralt   []float64
	expv   []float64
}

// NewGateWorkspace returns a workspace for shards of up to n cells.
func NewGateWorkspace(n int) *GateWorkspace {
	return &GateWorkspace{
		vclamp: make([]float64, n),
		xinf:   make([]float64, n),
		xalt:   make([]float64, n),
		rate:   make([]float64, n),
		ralt:   make([]float64, n),
		expv:   make([]float64, n),
	}
}

// gateStep is the exact exponential-integrator update for one linear
// relaxation gate: unconditionally stable for any dt >= 0, and x' never
// leaves the interval between x and xInf. The time constant enters as a
// reciprocal, so tau -> 0 degenerates smoothly to x' = xInf.
func gateStep(x, xInf, tauR, dt float64) float64 {
	return xInf - (xInf-x)*math.Exp(-dt*tauR)
}

// UpdateGate advances every gate variable of a batch of cells by dt,
// several cells per SIMD lane step. vm holds the cells' membrane voltages
// (clamped internally to the fitted domain); sSwitch holds 0 or 1 per cell
// selecting the s-gate kinetics variant; state is the SoA state sliced to
// the same cell range.
func UpdateGate(dt float64, fits *FitTable, sSwitch, vm []float64, state [][]float64, ws *GateWorkspace) {
	n := len(vm)
	vc := ws.vclamp[:n]
	clampSlice(vm, fits.V0, fits.V1, vc)

	for g := 0; g < NGateVar; g++ {
		fits.Mhu[g].EvalSlice(vc, ws.xinf[:n])
		fits.TauR[g].EvalSlice(vc, ws.rate[:n])
		if GateOffset+g == SGate {
			fits.MhuSEndo.EvalSlice(vc, ws.xalt[:n])
			fits.TauRSEndo.EvalSlice(vc, ws.ralt[:n])
			selectByVariant(sSwitch, ws.xinf[:n], ws.xalt[:n])
			selectByVariant(sSwitch, ws.rate[:n], ws.ralt[:n])
		}
		// rate -> exp(-dt/tau), via the fitted exponential.
		scaleClamp(ws.rate[:n], dt, fits.YMax)
		fits.Exp.EvalSlice(ws.rate[:n], ws.expv[:n])
		advanceGate(state[GateOffset+g][:n], ws.xinf[:n], ws.expv[:n])
	}
}

// clampSlice writes clamp(v, lo, hi) into out, lane by lane.
func clampSlice(vs []float64, lo, hi float64, out []float64) {
	vLo := hwy.Set(lo)
	vHi := hwy.Set(hi)
	hwy.ProcessWithTail[float64](len(vs),
		func(offset int) {
			v := hwy.Load(vs[offset:])
			hwy.Store(hwy.Max(hwy.Min(v, vHi), vLo), out[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[float64](count)
			v := hwy.MaskLoad(mask, vs[offset:])
			hwy.MaskStore(mask, hwy.Max(hwy.Min(v, vHi), vLo), out[offset:])
		},
	)
}

// selectByVariant overwrites dst with alt wherever the cell's switch is
// nonzero. Branchless select keeps mixed-type batches on the vector path.
func selectByVariant(sw, dst, alt []float64) {
	zero := hwy.Zero[float64]()
	hwy.ProcessWithTail[float64](len(dst),
		func(offset int) {
			m := hwy.GreaterThan(hwy.Load(sw[offset:]), zero)
			sel := hwy.IfThenElse(m, hwy.Load(alt[offset:]), hwy.Load(dst[offset:]))
			hwy.Store(sel, dst[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[float64](count)
			m := hwy.GreaterThan(hwy.MaskLoad(mask, sw[offset:]), zero)
			sel := hwy.IfThenElse(m,
				hwy.MaskLoad(mask, alt[offset:]),
				hwy.MaskLoad(mask, dst[offset:]))
			hwy.MaskStore(mask, sel, dst[offset:])
		},
	)
}

// scaleClamp maps the reciprocal time constants in buf to the exponential
// argument clamp(dt/tau, 0, yMax) in place. The lower clamp matters: a
// fitted 1/tau may dip a hair below zero within tolerance, and the
// exponential table's domain starts at 0.
func scaleClamp(buf []float64, dt, yMax float64) {
	vDt := hwy.Set(dt)
	vMax := hwy.Set(yMax)
	zero := hwy.Zero[float64]()
	hwy.ProcessWithTail[float64](len(buf),
		func(offset int) {
			y := hwy.Max(hwy.Min(hwy.Mul(hwy.Load(buf[offset:]), vDt), vMax), zero)
			hwy.Store(y, buf[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[float64](count)
			y := hwy.Max(hwy.Min(hwy.Mul(hwy.MaskLoad(mask, buf[offset:]), vDt), vMax), zero)
			hwy.MaskStore(mask, y, buf[offset:])
		},
	)
}

// advanceGate applies x' = xinf - (xinf - x) * e lane by lane.
func advanceGate(x, xinf, e []float64) {
	hwy.ProcessWithTail[float64](len(x),
		func(offset int) {
			vx := hwy.Load(x[offset:])
			vi := hwy.Load(xinf[offset:])
			ve := hwy.Load(e[offset:])
			hwy.Store(hwy.Sub(vi, hwy.Mul(hwy.Sub(vi, vx), ve)), x[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[float64](count)
			vx := hwy.MaskLoad(mask, x[offset:])
			vi := hwy.MaskLoad(mask, xinf[offset:])
			ve := hwy.MaskLoad(mask, e[offset:])
			hwy.MaskStore(mask, hwy.Sub(vi, hwy.Mul(hwy.Sub(vi, vx), ve)), x[offset:])
		},
	)
}
