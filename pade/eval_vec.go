//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

package pade

import (
	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib"
)

// EvalSlice evaluates the fit over a batch of voltages, several lanes per
// step. Single-piece tables take the pure vector path; piecewise tables
// fall back to per-lane indexing, which stays cheap because the index is
// arithmetic, not a search. len(out) must be >= len(vs), and every vs[i]
// must already be clamped into the fit domain.
func (a *Approximant) EvalSlice(vs, out []float64) {
	if len(a.pieces) == 1 {
		a.evalSliceOnePiece(vs, out)
		return
	}
	for i, v := range vs {
		out[i] = a.Eval(v)
	}
}

func (a *Approximant) evalSliceOnePiece(vs, out []float64) {
	p := &a.pieces[0]
	vMid := hwy.Set(p.mid)
	vScale := hwy.Set(p.xscale)

	hwy.ProcessWithTail[float64](len(vs),
		func(offset int) {
			v := hwy.Load(vs[offset:])
			x := hwy.Mul(hwy.Sub(v, vMid), vScale)
			y := contrib.Horner(x, p.num)
			if p.den != nil {
				y = hwy.Div(y, contrib.Horner(x, p.den))
			}
			hwy.Store(y, out[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[float64](count)
			v := hwy.MaskLoad(mask, vs[offset:])
			x := hwy.Mul(hwy.Sub(v, vMid), vScale)
			y := contrib.Horner(x, p.num)
			if p.den != nil {
				y = hwy.Div(y, contrib.Horner(x, p.den))
			}
			hwy.MaskStore(mask, y, out[offset:])
		},
	)
}

// EvalVec is the single-vector form of EvalSlice for callers that already
// hold lane data. The same clamping precondition applies.
func (a *Approximant) EvalVec(v hwy.Vec[float64]) hwy.Vec[float64] {
	if len(a.pieces) == 1 {
		p := &a.pieces[0]
		x := hwy.Mul(hwy.Sub(v, hwy.Set(p.mid)), hwy.Set(p.xscale))
		y := contrib.Horner(x, p.num)
		if p.den != nil {
			y = hwy.Div(y, contrib.Horner(x, p.den))
		}
		return y
	}
	data := v.Data()
	res := make([]float64, len(data))
	for i, x := range data {
		res[i] = a.Eval(x)
	}
	return hwy.Load(res)
}
