// Package tt06 implements the ten Tusscher-Panfilov 2006 human ventricular
// cell model: the state layout, cell-type parameters, ionic currents, and
// the two per-timestep update phases (gate and non-gate) of the reaction
// kernel.
//
// State is laid out struct-of-arrays: callers hold one slice per state
// variable, indexed by cell. Gate variables occupy a contiguous index range
// so the vectorized gate sweep is a dense loop over [GateOffset,
// GateOffset+NGateVar).
package tt06

// State variable indices. The non-gate block (concentrations, release
// gating, fCass) comes first; the voltage-gated block follows from
// GateOffset. fCass sits in the non-gate block because its target depends
// on subspace calcium, not on voltage, so it cannot be served by the
// voltage-fitted tables.
const (
	CaI = iota // intracellular calcium (mM)
	KI         // intracellular potassium (mM)
	NaI        // intracellular sodium (mM)
	CaSS       // dyadic subspace calcium (mM)
	CaSR       // sarcoplasmic reticulum calcium (mM)
	RPrime     // ryanodine receptor closed fraction
	FCass      // L-type calcium current Cass-dependent inactivation gate
	MGate      // fast sodium activation
	HGate      // fast sodium fast inactivation
	JGate      // fast sodium slow inactivation
	Xr1Gate    // rapid delayed rectifier activation
	Xr2Gate    // rapid delayed rectifier inactivation
	XsGate     // slow delayed rectifier activation
	RGate      // transient outward activation
	DGate      // L-type calcium activation
	FGate      // L-type calcium voltage inactivation
	F2Gate     // L-type calcium slow voltage inactivation
	JLGate     // late sodium inactivation
	SGate      // transient outward inactivation
	NStateVar
)

// GateOffset is the first voltage-gated index; NGateVar counts them.
const (
	GateOffset = MGate
	NGateVar   = NStateVar - GateOffset
)

// VarKind tags a state index as gate or non-gate.
type VarKind int

const (
	NonGateVar VarKind = iota
	GateVar
)

// Kind reports whether index i is a gate or a non-gate variable.
func Kind(i int) VarKind {
	if i >= GateOffset && i < NStateVar {
		return GateVar
	}
	return NonGateVar
}

var varNames = [NStateVar]string{
	"Ca_i", "K_i", "Na_i", "Ca_ss", "Ca_SR", "R_prime", "fCass",
	"m", "h", "j", "Xr1", "Xr2", "Xs", "r", "d", "f", "f2", "jL", "s",
}

// VarName returns the conventional model name of state index i.
func VarName(i int) string { return varNames[i] }

// DefaultState returns the published resting initial conditions of the
// model (1 Hz steady-state pacing, epicardial variant). Concentration
// entries are typically respread per cell type afterwards.
func DefaultState() [NStateVar]float64 {
	return [NStateVar]float64{
		CaI:     0.000126,
		KI:      136.89,
		NaI:     8.604,
		CaSS:    0.00036,
		CaSR:    3.64,
		RPrime:  0.9073,
		FCass:   0.9953,
		MGate:   0.00172,
		HGate:   0.7444,
		JGate:   0.7045,
		Xr1Gate: 0.00621,
		Xr2Gate: 0.4712,
		XsGate:  0.0095,
		RGate:   2.42e-8,
		DGate:   3.373e-5,
		FGate:   0.7888,
		F2Gate:  0.9755,
		JLGate:  1.0,
		SGate:   0.999998,
	}
}

// DefaultVoltage is the resting membrane voltage matching DefaultState (mV).
const DefaultVoltage = -85.23
