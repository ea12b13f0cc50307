package tt06

// UpdateNonGate derives the full current set for each cell and advances
// the non-gate state variables (concentrations, release gating, fCass) by
// an explicit forward step. It writes the voltage time-derivative the
// diffusion side needs into dVdt.
//
// The non-gate equations are balance laws, not linear relaxations, so they
// do not go through the exponential integrator; the one exception is
// fCass, whose target depends on subspace calcium and which relaxes
// exponentially toward it here, outside the voltage-fitted tables.
//
// parms is indexed by the values in cellType; every index must be valid
// (the caller validates at construction). Cells are independent, so any
// sub-range may be processed concurrently with any other.
func UpdateNonGate(dt float64, parms []CellTypeParms, cellType []int, vm []float64, state [][]float64, dVdt []float64) {
	for i, v := range vm {
		p := &parms[cellType[i]]
		st := loadCell(state, i)
		c := computeCurrents(p, v, &st)

		// Ryanodine receptor release, gated by SR load.
		kCaSR := maxSR - (maxSR-minSR)/(1+sq(ecSR/st.caSR))
		k1 := k1P / kCaSR
		k2 := k2P * kCaSR
		caSS2 := sq(st.caSS)
		dRPrime := k4*(1-st.rPrime) - k2*st.caSS*st.rPrime
		open := k1 * caSS2 * st.rPrime / (k3 + k1*caSS2)
		c.Rel = vRel * open * (st.caSR - st.caSS)

		// Buffered calcium balances.
		bufFacC := 1 / (1 + bufC*kBufC/sq(st.caI+kBufC))
		bufFacSR := 1 / (1 + bufSR*kBufSR/sq(st.caSR+kBufSR))
		bufFacSS := 1 / (1 + bufSS*kBufSS/sq(st.caSS+kBufSS))

		dCaI := bufFacC * ((c.Leak-c.Up)*volSR/volC + c.Xfer -
			(c.BCa+c.PCa-2*c.NaCa)*capacitance/(2*volC*faraday))
		dCaSR := bufFacSR * (c.Up - c.Rel - c.Leak)
		dCaSS := bufFacSS * (-c.CaL*capacitance/(2*volSS*faraday) +
			c.Rel*volSR/volSS - c.Xfer*volC/volSS)

		dNaI := -(c.Na + c.NaL + c.BNa + 3*c.NaK + 3*c.NaCa) *
			capacitance / (volC * faraday)
		dKI := -(c.K1 + c.To + c.Kr + c.Ks - 2*c.NaK + c.PK) *
			capacitance / (volC * faraday)

		state[CaI][i] = st.caI + dt*dCaI
		state[CaSR][i] = st.caSR + dt*dCaSR
		state[CaSS][i] = st.caSS + dt*dCaSS
		state[NaI][i] = st.naI + dt*dNaI
		state[KI][i] = st.kI + dt*dKI
		state[RPrime][i] = st.rPrime + dt*dRPrime

		// fCass relaxes toward a Cass-dependent target.
		css := sq(st.caSS / 0.05)
		fcInf := 0.6/(1+css) + 0.4
		fcTau := 80/(1+css) + 2
		state[FCass][i] = gateStep(st.fCass, fcInf, 1/fcTau, dt)

		dVdt[i] = -c.Iion()
	}
}
