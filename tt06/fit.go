package tt06

import (
	"fmt"
	"io"
	"math"

	"github.com/KiruyaMomochi/cardioid/pade"
)

// FitTable holds every rational approximant the gate update needs: per-gate
// steady state and reciprocal time constant, the endocardial s-gate
// variant, and the gate exponential. Built once before the parallel region;
// immutable and shared by all workers afterwards.
type FitTable struct {
	V0, V1 float64 // fitted voltage domain (mV); clamp before evaluating
	YMax   float64 // fitted upper bound of the exp argument dt/τ

	Mhu  [NGateVar]*pade.Approximant
	TauR [NGateVar]*pade.Approximant

	// Endocardial s-gate variant; the table entries above carry SEpiMid.
	MhuSEndo  *pade.Approximant
	TauRSEndo *pade.Approximant

	// Exp approximates exp(-y) for y in [0, YMax].
	Exp *pade.Approximant
}

// expYMax bounds dt/τ for any timestep up to ~1 ms against the fastest
// gate; beyond it exp(-y) is zero to well below any useful tolerance, so
// the clamped evaluation at YMax is exact enough by construction.
const expYMax = 40.0

// MakeFit builds the full approximant table over [v0, v1] sampled at
// deltaV. tol is relative: each function is fitted to tol times its own
// maximum magnitude over the domain, so slow gates with tiny 1/τ are not
// granted sloppier relative accuracy than fast ones. Any unattainable fit
// fails construction; evaluation never fails.
func MakeFit(tol, v0, v1, deltaV float64) (*FitTable, error) {
	ft := &FitTable{V0: v0, V1: v1, YMax: expYMax}

	for g := range gateRates {
		gr := &gateRates[g]
		var err error
		if ft.Mhu[g], err = fitScaled(gr.name+"_inf", gr.inf, v0, v1, deltaV, tol); err != nil {
			return nil, err
		}
		if ft.TauR[g], err = fitScaled(gr.name+"_tauR", gr.tauR, v0, v1, deltaV, tol); err != nil {
			return nil, err
		}
	}

	var err error
	if ft.MhuSEndo, err = fitScaled("s_inf_endo", sInfEndo, v0, v1, deltaV, tol); err != nil {
		return nil, err
	}
	if ft.TauRSEndo, err = fitScaled("s_tauR_endo", sTauREndo, v0, v1, deltaV, tol); err != nil {
		return nil, err
	}

	expNeg := func(y float64) float64 { return math.Exp(-y) }
	if ft.Exp, err = fitScaled("gate_exp", expNeg, 0, expYMax, deltaV, tol); err != nil {
		return nil, err
	}
	return ft, nil
}

// fitScaled converts the relative tolerance to an absolute one from the
// function's sampled magnitude, then delegates to pade.Fit.
func fitScaled(name string, f pade.Func, v0, v1, deltaV, tol float64) (*pade.Approximant, error) {
	maxAbs := 0.0
	n := int((v1-v0)/deltaV) + 1
	for i := 0; i < n; i++ {
		v := v0 + (v1-v0)*float64(i)/float64(n-1)
		if a := math.Abs(f(v)); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return nil, fmt.Errorf("tt06: %s is identically zero over [%g, %g]", name, v0, v1)
	}
	a, err := pade.Fit(name, f, v0, v1, deltaV, tol*maxAbs)
	if err != nil {
		return nil, fmt.Errorf("tt06: fitting %s: %w", name, err)
	}
	return a, nil
}

// WriteFit dumps every coefficient table for offline inspection.
func (ft *FitTable) WriteFit(w io.Writer) error {
	for g := range gateRates {
		if err := ft.Mhu[g].WriteTable(w); err != nil {
			return err
		}
		if err := ft.TauR[g].WriteTable(w); err != nil {
			return err
		}
	}
	if err := ft.MhuSEndo.WriteTable(w); err != nil {
		return err
	}
	if err := ft.TauRSEndo.WriteTable(w); err != nil {
		return err
	}
	return ft.Exp.WriteTable(w)
}
