package tt06

import (
	"math"
	"testing"
)

func TestIpCaSaturation(t *testing.T) {
	// Michaelis-Menten scenario: Gmax=0.0035, Cai=0.0002 mM, Khalf=0.0005
	// gives 0.0035*0.0002/0.0007 = 0.0010.
	got := IpCa(0.0035, 0.0002)
	want := 0.0035 * 0.0002 / (0.0005 + 0.0002)
	if math.Abs(got-want) > 1e-15 {
		t.Errorf("IpCa(0.0035, 0.0002) = %g, want %g", got, want)
	}
	if math.Abs(want-0.0010) > 1e-12 {
		t.Errorf("scenario value %g, want 0.0010", want)
	}

	// Saturation: far above Khalf the pump approaches Gmax.
	if got := IpCa(0.0035, 1.0); got >= 0.0035 || got < 0.0034 {
		t.Errorf("IpCa near saturation = %g, want just under Gmax", got)
	}
	// And it is monotone in Cai.
	prev := 0.0
	for cai := 1e-5; cai < 1e-2; cai *= 2 {
		cur := IpCa(0.0035, cai)
		if cur <= prev {
			t.Fatalf("IpCa not monotone at Cai=%g: %g <= %g", cai, cur, prev)
		}
		prev = cur
	}
}

func TestNernstPotentials(t *testing.T) {
	// Physiological gradients: E_K strongly negative, E_Na strongly
	// positive, both in the tens of millivolts.
	eK := nernst(kO, 136.89)
	if eK > -80 || eK < -100 {
		t.Errorf("E_K = %g mV, want in (-100, -80)", eK)
	}
	eNa := nernst(naO, 8.604)
	if eNa < 60 || eNa > 90 {
		t.Errorf("E_Na = %g mV, want in (60, 90)", eNa)
	}
}

func TestICaLRemovableSingularity(t *testing.T) {
	// The GHK drive has a removable singularity at v=15; the limit branch
	// must agree with the formula just off the singular point.
	const d, f, f2v, fc, caSS = 0.5, 0.5, 0.5, 0.5, 0.0004
	at := ICaL(d, f, f2v, fc, 15, caSS)
	near := ICaL(d, f, f2v, fc, 15+1e-7, caSS)
	if math.Abs(at-near) > 1e-6*math.Abs(at) {
		t.Errorf("ICaL discontinuous at v=15: %g vs %g", at, near)
	}
	if math.IsNaN(at) || math.IsInf(at, 0) {
		t.Errorf("ICaL(v=15) = %v", at)
	}
}

func TestRestingCurrentsSmall(t *testing.T) {
	// At the published resting state the net membrane current nearly
	// vanishes; each individual current stays physiological.
	types := StandardCellTypes()
	def := DefaultState()
	st := cellView{
		caI: def[CaI], kI: def[KI], naI: def[NaI],
		caSS: def[CaSS], caSR: def[CaSR], rPrime: def[RPrime], fCass: def[FCass],
		m: def[MGate], h: def[HGate], j: def[JGate],
		xr1: def[Xr1Gate], xr2: def[Xr2Gate], xs: def[XsGate],
		r: def[RGate], d: def[DGate], f: def[FGate], f2: def[F2Gate],
		jL: def[JLGate], s: def[SGate],
	}
	for _, p := range types {
		c := computeCurrents(&p, DefaultVoltage, &st)
		if total := math.Abs(c.Iion()); total > 0.5 {
			t.Errorf("cell type %d: |Iion| at rest = %g pA/pF, want < 0.5", p.CellType, total)
		}
		if c.NaK <= 0 {
			t.Errorf("cell type %d: INaK = %g, want > 0 (outward pump)", p.CellType, c.NaK)
		}
		// Rest sits a hair above E_K, so IK1 is weakly outward.
		if c.K1 <= 0 || c.K1 > 1 {
			t.Errorf("cell type %d: IK1 = %g at rest, want small positive", p.CellType, c.K1)
		}
	}
}
