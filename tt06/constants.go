package tt06

// Model constants, in the units of the published model: mV, ms, mM,
// pA/pF. Conductances that vary per cell type (PNaK, GKs, GTo, GNaL) live
// in CellTypeParms instead.
const (
	gasConst    = 8314.472   // J/(kmol·K)
	temperature = 310.0      // K
	faraday     = 96485.3415 // C/mol
	rtOverF     = gasConst * temperature / faraday
	fOverRT     = 1.0 / rtOverF

	capacitance = 0.185 // cell capacitance per unit area, μF/cm²

	// External concentrations (mM).
	kO  = 5.4
	caO = 2.0
	naO = 140.0

	// Compartment volumes (μm³ scaled).
	volC  = 0.016404
	volSR = 0.001094
	volSS = 0.00005468

	// Calcium buffering.
	bufC   = 0.2
	kBufC  = 0.001
	bufSR  = 10.0
	kBufSR = 0.3
	bufSS  = 0.4
	kBufSS = 0.00025

	// SERCA uptake, leak, subspace transfer.
	vMaxUp = 0.006375
	kUp    = 0.00025
	vLeak  = 0.00036
	vXfer  = 0.0038

	// Ryanodine receptor release.
	vRel  = 0.102
	k1P   = 0.15
	k2P   = 0.045
	k3    = 0.060
	k4    = 0.005
	ecSR  = 1.5
	maxSR = 2.5
	minSR = 1.0

	// Fixed channel conductances and pump/exchanger parameters.
	pKNa   = 0.03
	gNa    = 14.838
	gBNa   = 0.00029
	gCaL   = 3.980e-5
	gBCa   = 0.000592
	gK1    = 5.405
	gKr    = 0.153
	gPK    = 0.0146
	gPCa   = 0.1238
	kPCa   = 0.0005
	kmK    = 1.0
	kmNa   = 40.0
	kNaCa  = 1000.0
	kmNaI  = 87.5
	kmCa   = 1.38
	kSat   = 0.1
	gammaN = 0.35
	alfNCX = 2.5
)
