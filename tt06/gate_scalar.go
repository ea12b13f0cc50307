package tt06

// updateGateScalar is the width-1 reference rendition of UpdateGate: same
// tables, same arithmetic, one cell at a time. It is the correctness
// oracle for the vector kernel's lane-equivalence tests and a fallback for
// tiny batches.
func updateGateScalar(dt float64, fits *FitTable, sSwitch, vm []float64, state [][]float64) {
	for i, v := range vm {
		if v < fits.V0 {
			v = fits.V0
		} else if v > fits.V1 {
			v = fits.V1
		}
		for g := 0; g < NGateVar; g++ {
			mhu, tauR := fits.Mhu[g], fits.TauR[g]
			if GateOffset+g == SGate && sSwitch[i] != 0 {
				mhu, tauR = fits.MhuSEndo, fits.TauRSEndo
			}
			xinf := mhu.Eval(v)
			y := dt * tauR.Eval(v)
			if y > fits.YMax {
				y = fits.YMax
			}
			if y < 0 {
				y = 0
			}
			e := fits.Exp.Eval(y)
			x := state[GateOffset+g][i]
			state[GateOffset+g][i] = xinf - (xinf-x)*e
		}
	}
}
