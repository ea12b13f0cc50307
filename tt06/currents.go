package tt06

import "math"

// Currents is the transient record of one cell's current contributions at
// one timestep: produced by the current functions, consumed immediately by
// the non-gate update, never persisted. Transmembrane currents are in
// pA/pF; the calcium handling fluxes (Leak, Up, Rel, Xfer) in mM/ms.
type Currents struct {
	Na, NaL, BNa       float64
	CaL, BCa, PCa      float64
	Kr, Ks, K1, To, PK float64
	NaCa, NaK          float64

	Leak, Up, Rel, Xfer float64
}

// Iion is the total transmembrane current. The membrane equation is
// dV/dt = -Iion (+ diffusion coupling, handled externally).
func (c *Currents) Iion() float64 {
	return c.Na + c.NaL + c.BNa + c.CaL + c.BCa + c.PCa +
		c.Kr + c.Ks + c.K1 + c.To + c.PK + c.NaCa + c.NaK
}

// Reversal potentials from the Nernst equation.
func nernst(outside, inside float64) float64 { return rtOverF * math.Log(outside/inside) }

// Each current function below is a pure mapping from (parameters, state)
// to one contribution; nothing here mutates state.

// INa is the fast inward sodium current.
func INa(m, h, j, v, eNa float64) float64 {
	return gNa * m * m * m * h * j * (v - eNa)
}

// INaL is the late sodium current; gNaL of zero (the published model)
// disables it.
func INaL(gNaL, m, jL, v, eNa float64) float64 {
	return gNaL * m * m * m * jL * (v - eNa)
}

// IBNa is the background sodium leak.
func IBNa(v, eNa float64) float64 { return gBNa * (v - eNa) }

// ICaL is the L-type calcium current (Goldman-Hodgkin-Katz form shifted by
// 15 mV). The removable singularity at v = 15 is handled by its limit.
func ICaL(d, f, f2, fCass, v, caSS float64) float64 {
	z := 2 * (v - 15) * fOverRT
	var drive float64
	if math.Abs(z) < 1e-5 {
		// z/(e^z - 1) -> 1: the GHK flux collapses to a linear form.
		drive = faraday * (0.25*caSS - caO)
	} else {
		ez := math.Exp(z)
		drive = z * faraday * (0.25*caSS*ez - caO) / (ez - 1)
	}
	return gCaL * d * f * f2 * fCass * 2 * drive
}

// IBCa is the background calcium leak.
func IBCa(v, eCa float64) float64 { return gBCa * (v - eCa) }

// IpCa is the sarcolemmal calcium pump, a Michaelis-Menten saturation in
// intracellular calcium: I = Gmax*Cai/(Khalf + Cai).
func IpCa(gMax, caI float64) float64 { return gMax * caI / (kPCa + caI) }

// IKr is the rapid delayed rectifier potassium current.
func IKr(xr1, xr2, v, eK float64) float64 {
	return gKr * math.Sqrt(kO/5.4) * xr1 * xr2 * (v - eK)
}

// IKs is the slow delayed rectifier potassium current.
func IKs(gKs, xs, v, eKs float64) float64 { return gKs * xs * xs * (v - eKs) }

// IK1 is the inward rectifier with its instantaneous rectification factor.
func IK1(v, eK float64) float64 {
	a := 0.1 / (1 + math.Exp(0.06*(v-eK-200)))
	b := (3*math.Exp(0.0002*(v-eK+100)) + math.Exp(0.1*(v-eK-10))) /
		(1 + math.Exp(-0.5*(v-eK)))
	return gK1 * a / (a + b) * (v - eK)
}

// ITo is the transient outward current.
func ITo(gTo, r, s, v, eK float64) float64 { return gTo * r * s * (v - eK) }

// IpK is the plateau potassium current.
func IpK(v, eK float64) float64 {
	return gPK * (v - eK) / (1 + math.Exp((25-v)/5.98))
}

// INaCa is the sodium/calcium exchanger.
func INaCa(v, naI, caI float64) float64 {
	eg := math.Exp(gammaN * v * fOverRT)
	egm := math.Exp((gammaN - 1) * v * fOverRT)
	na3 := naI * naI * naI
	return kNaCa * (eg*na3*caO - egm*naO*naO*naO*caI*alfNCX) /
		((kmNaI*kmNaI*kmNaI + naO*naO*naO) * (kmCa + caO) * (1 + kSat*egm))
}

// INaK is the sodium/potassium pump.
func INaK(pNaK, naI, v float64) float64 {
	rec := 1 / (1 + 0.1245*math.Exp(-0.1*v*fOverRT) + 0.0353*math.Exp(-v*fOverRT))
	return pNaK * kO / (kO + kmK) * naI / (naI + kmNa) * rec
}

// computeCurrents evaluates the full current set for one cell.
func computeCurrents(p *CellTypeParms, v float64, st *cellView) Currents {
	eNa := nernst(naO, st.naI)
	eK := nernst(kO, st.kI)
	eKs := rtOverF * math.Log((kO+pKNa*naO)/(st.kI+pKNa*st.naI))
	eCa := 0.5 * rtOverF * math.Log(caO/st.caI)

	var c Currents
	c.Na = INa(st.m, st.h, st.j, v, eNa)
	c.NaL = INaL(p.GNaL, st.m, st.jL, v, eNa)
	c.BNa = IBNa(v, eNa)
	c.CaL = ICaL(st.d, st.f, st.f2, st.fCass, v, st.caSS)
	c.BCa = IBCa(v, eCa)
	c.PCa = IpCa(gPCa, st.caI)
	c.Kr = IKr(st.xr1, st.xr2, v, eK)
	c.Ks = IKs(p.GKs, st.xs, v, eKs)
	c.K1 = IK1(v, eK)
	c.To = ITo(p.GTo, st.r, st.s, v, eK)
	c.PK = IpK(v, eK)
	c.NaCa = INaCa(v, st.naI, st.caI)
	c.NaK = INaK(p.PNaK, st.naI, v)

	c.Leak = vLeak * (st.caSR - st.caI)
	c.Up = vMaxUp / (1 + kUp*kUp/(st.caI*st.caI))
	c.Xfer = vXfer * (st.caSS - st.caI)
	return c
}

// cellView gathers one cell's state out of the SoA slices for the scalar
// non-gate computation.
type cellView struct {
	caI, kI, naI, caSS, caSR, rPrime, fCass   float64
	m, h, j, xr1, xr2, xs, r, d, f, f2, jL, s float64
}

func loadCell(state [][]float64, i int) cellView {
	return cellView{
		caI: state[CaI][i], kI: state[KI][i], naI: state[NaI][i],
		caSS: state[CaSS][i], caSR: state[CaSR][i],
		rPrime: state[RPrime][i], fCass: state[FCass][i],
		m: state[MGate][i], h: state[HGate][i], j: state[JGate][i],
		xr1: state[Xr1Gate][i], xr2: state[Xr2Gate][i], xs: state[XsGate][i],
		r: state[RGate][i], d: state[DGate][i], f: state[FGate][i],
		f2: state[F2Gate][i], jL: state[JLGate][i], s: state[SGate][i],
	}
}
