package tt06

import (
	"math"

	"github.com/KiruyaMomochi/cardioid/pade"
)

// Voltage-dependent steady states and reciprocal time constants for each
// gate, in the published model's formulation. These are the fit targets
// for MakeFit; the integration loop never calls them directly.
//
// Time constants are exposed as reciprocals (1/τ) so the gate update forms
// dt/τ by multiplication. The τ→0 end of a gate's range then needs no
// division guard anywhere.

func sq(x float64) float64 { return x * x }

func sigm(x float64) float64 { return 1 / (1 + math.Exp(x)) }

func mInf(v float64) float64 { return sq(sigm((-56.86 - v) / 9.03)) }

func mTauR(v float64) float64 {
	a := sigm((-60 - v) / 5)
	b := 0.1*sigm((v+35)/5) + 0.1*sigm((v-50)/200)
	return 1 / (a * b)
}

func hInf(v float64) float64 { return sq(sigm((v + 71.55) / 7.43)) }

func hTauR(v float64) float64 {
	if v >= -40 {
		return 0.77 / (0.13 * (1 + math.Exp(-(v+10.66)/11.1)))
	}
	a := 0.057 * math.Exp(-(v+80)/6.8)
	b := 2.7*math.Exp(0.079*v) + 3.1e5*math.Exp(0.3485*v)
	return a + b
}

func jInf(v float64) float64 { return hInf(v) }

func jTauR(v float64) float64 {
	if v >= -40 {
		return 0.6 * math.Exp(0.057*v) / (1 + math.Exp(-0.1*(v+32)))
	}
	a := (-2.5428e4*math.Exp(0.2444*v) - 6.948e-6*math.Exp(-0.04391*v)) *
		(v + 37.78) / (1 + math.Exp(0.311*(v+79.23)))
	b := 0.02424 * math.Exp(-0.01052*v) / (1 + math.Exp(-0.1378*(v+40.14)))
	return a + b
}

func xr1Inf(v float64) float64 { return sigm((-26 - v) / 7) }

func xr1TauR(v float64) float64 {
	a := 450 * sigm((-45-v)/10)
	b := 6 * sigm((v+30)/11.5)
	return 1 / (a * b)
}

func xr2Inf(v float64) float64 { return sigm((v + 88) / 24) }

func xr2TauR(v float64) float64 {
	a := 3 * sigm((-60-v)/20)
	b := 1.12 * sigm((v-60)/20)
	return 1 / (a * b)
}

func xsInf(v float64) float64 { return sigm((-5 - v) / 14) }

func xsTauR(v float64) float64 {
	a := 1400 / math.Sqrt(1+math.Exp((5-v)/6))
	b := sigm((v - 35) / 15)
	return 1 / (a*b + 80)
}

func rInf(v float64) float64 { return sigm((20 - v) / 6) }

func rTauR(v float64) float64 {
	return 1 / (9.5*math.Exp(-sq(v+40)/1800) + 0.8)
}

func dInf(v float64) float64 { return sigm((-8 - v) / 7.5) }

func dTauR(v float64) float64 {
	a := 1.4*sigm((-35-v)/13) + 0.25
	b := 1.4 * sigm((v+5)/5)
	g := sigm((50 - v) / 20)
	return 1 / (a*b + g)
}

func fInf(v float64) float64 { return sigm((v + 20) / 7) }

func fTauR(v float64) float64 {
	return 1 / (1102.5*math.Exp(-sq(v+27)/225) +
		200*sigm((13-v)/10) + 180*sigm((v+30)/10) + 20)
}

func f2Inf(v float64) float64 { return 0.67*sigm((v+35)/7) + 0.33 }

func f2TauR(v float64) float64 {
	return 1 / (562*math.Exp(-sq(v+27)/240) +
		31*sigm((25-v)/10) + 80*sigm((v+30)/10))
}

// Late sodium inactivation; slow, voltage-gated.
const jlTau = 650.0

func jlInf(v float64) float64 { return sigm((v + 91) / 6.1) }

func jlTauR(v float64) float64 { return 1 / jlTau }

// s gate, epicardial/midmyocardial formulation (SEpiMid).
func sInfEpi(v float64) float64 { return sigm((v + 20) / 5) }

func sTauREpi(v float64) float64 {
	return 1 / (85*math.Exp(-sq(v+45)/320) + 5*sigm((v-20)/5) + 3)
}

// s gate, endocardial formulation (SEndo).
func sInfEndo(v float64) float64 { return sigm((v + 28) / 5) }

func sTauREndo(v float64) float64 {
	return 1 / (1000*math.Exp(-sq(v+67)/1000) + 8)
}

// gateRates lists the fit targets gate by gate, in state-index order
// starting at GateOffset. The s entry carries the SEpiMid variant; the
// SEndo variant is fitted separately and selected per cell.
var gateRates = [NGateVar]struct {
	name string
	inf  pade.Func
	tauR pade.Func
}{
	{"m", mInf, mTauR},
	{"h", hInf, hTauR},
	{"j", jInf, jTauR},
	{"Xr1", xr1Inf, xr1TauR},
	{"Xr2", xr2Inf, xr2TauR},
	{"Xs", xsInf, xsTauR},
	{"r", rInf, rTauR},
	{"d", dInf, dTauR},
	{"f", fInf, fTauR},
	{"f2", f2Inf, f2TauR},
	{"jL", jlInf, jlTauR},
	{"s", sInfEpi, sTauREpi},
}
