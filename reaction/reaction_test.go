package reaction

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/KiruyaMomochi/cardioid/tt06"
)

// newTestReaction builds a mixed-type population: endo, mid, epi in
// round-robin assignment.
func newTestReaction(t testing.TB, n int) *Reaction {
	t.Helper()
	types := tt06.StandardCellTypes()
	assignment := make([]int, n)
	for i := range assignment {
		assignment[i] = i % len(types)
	}
	r, err := New(types, assignment, DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNewRejectsUnknownCellType(t *testing.T) {
	types := tt06.StandardCellTypes()
	_, err := New(types, []int{0, 1, len(types)}, DefaultOptions())
	if !errors.Is(err, ErrUnknownCellType) {
		t.Fatalf("got %v, want ErrUnknownCellType", err)
	}
	if _, err := New(types, []int{0, -1}, DefaultOptions()); !errors.Is(err, ErrUnknownCellType) {
		t.Fatalf("got %v, want ErrUnknownCellType for negative index", err)
	}
	if _, err := New(types, nil, DefaultOptions()); err == nil {
		t.Fatal("empty assignment accepted")
	}
	if _, err := New(nil, []int{0}, DefaultOptions()); err == nil {
		t.Fatal("empty type table accepted")
	}
}

func TestNewSpreadsConcentrations(t *testing.T) {
	const n = 90
	r := newTestReaction(t, n)
	types := tt06.StandardCellTypes()

	for ct, p := range types {
		var ki, nai []float64
		for i := 0; i < n; i++ {
			if r.cellType[i] == ct {
				st := r.State(i)
				ki = append(ki, st[tt06.KI])
				nai = append(nai, st[tt06.NaI])
			}
		}
		if len(ki) == 0 {
			t.Fatalf("type %d has no cells", ct)
		}
		checkSpread(t, fmt.Sprintf("type %d K_i", ct), ki, p.MinKI, p.MidKI, p.MaxKI)
		checkSpread(t, fmt.Sprintf("type %d Na_i", ct), nai, p.MinNaI, p.MidNaI, p.MaxNaI)
	}
}

// checkSpread verifies a population covers [min, max] end to end, passes
// through mid, and stays sorted.
func checkSpread(t *testing.T, name string, vals []float64, min, mid, max float64) {
	t.Helper()
	if vals[0] != min || vals[len(vals)-1] != max {
		t.Errorf("%s: spread spans [%g, %g], want [%g, %g]",
			name, vals[0], vals[len(vals)-1], min, max)
	}
	hasMid := false
	for i, v := range vals {
		if v < min || v > max {
			t.Errorf("%s: value %g outside [%g, %g]", name, v, min, max)
		}
		if i > 0 && v < vals[i-1] {
			t.Errorf("%s: not monotone at %d: %g < %g", name, i, v, vals[i-1])
		}
		if math.Abs(v-mid) < 1e-12 {
			hasMid = true
		}
	}
	if !hasMid {
		t.Errorf("%s: midpoint %g missing from spread", name, mid)
	}
}

func TestVoltageSeedsRestingPotential(t *testing.T) {
	r := newTestReaction(t, 5)
	for i := 0; i < r.Cells(); i++ {
		if v := r.Voltage(i); v != tt06.DefaultVoltage {
			t.Errorf("Voltage(%d) = %g, want %g", i, v, tt06.DefaultVoltage)
		}
	}
}

func TestCalcActionPotential(t *testing.T) {
	// Stimulate a small population and integrate voltage explicitly:
	// the cells must fire (upstroke past 0 mV), then repolarize back
	// below -70 mV. This exercises the full current set end to end.
	const (
		n       = 6
		dt      = 0.02
		stimAmp = -52.0 // pA/pF, standard 1 ms pulse
	)
	r := newTestReaction(t, n)
	vm := make([]float64, n)
	dVdt := make([]float64, n)
	for i := range vm {
		vm[i] = r.Voltage(i)
	}

	peak := make([]float64, n)
	for i := range peak {
		peak[i] = vm[i]
	}
	for step := 0; step < 20000; step++ { // 400 ms
		r.Calc(dt, vm, dVdt)
		stim := 0.0
		if t := float64(step) * dt; t < 1.0 {
			stim = stimAmp
		}
		for i := range vm {
			vm[i] += dt * (dVdt[i] - stim)
			if vm[i] > peak[i] {
				peak[i] = vm[i]
			}
		}
	}

	for i := 0; i < n; i++ {
		if peak[i] < 0 {
			t.Errorf("cell %d never fired: peak %g mV", i, peak[i])
		}
		if vm[i] > -70 {
			t.Errorf("cell %d failed to repolarize: %g mV after 400 ms", i, vm[i])
		}
		if math.IsNaN(vm[i]) {
			t.Errorf("cell %d voltage is NaN", i)
		}
	}
}

func TestPoolStepMatchesCalc(t *testing.T) {
	// The pool must produce bit-identical state and derivatives to the
	// serial path: shard boundaries change nothing about per-cell
	// arithmetic.
	const (
		n     = 101 // odd, so the last shard has a masked tail
		dt    = 0.02
		steps = 50
	)
	serial := newTestReaction(t, n)
	pooled := newTestReaction(t, n)

	pool, err := NewPool(pooled, 3)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Close()

	vmS := make([]float64, n)
	vmP := make([]float64, n)
	dvS := make([]float64, n)
	dvP := make([]float64, n)
	for i := 0; i < n; i++ {
		vmS[i] = serial.Voltage(i)
		vmP[i] = pooled.Voltage(i)
	}

	for step := 0; step < steps; step++ {
		serial.Calc(dt, vmS, dvS)
		pool.Step(dt, vmP, dvP)
		for i := 0; i < n; i++ {
			if dvS[i] != dvP[i] {
				t.Fatalf("step %d: dVdt[%d] differs: serial %v, pool %v", step, i, dvS[i], dvP[i])
			}
			vmS[i] += dt * dvS[i]
			vmP[i] += dt * dvP[i]
		}
	}
	for i := 0; i < n; i++ {
		sS, sP := serial.State(i), pooled.State(i)
		for k := 0; k < tt06.NStateVar; k++ {
			if sS[k] != sP[k] {
				t.Fatalf("%s[%d] differs after %d steps: serial %v, pool %v",
					tt06.VarName(k), i, steps, sS[k], sP[k])
			}
		}
	}
}

func TestPoolMoreWorkersThanCells(t *testing.T) {
	r := newTestReaction(t, 3)
	pool, err := NewPool(r, 8)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Close()

	vm := make([]float64, 3)
	dVdt := make([]float64, 3)
	for i := range vm {
		vm[i] = r.Voltage(i)
	}
	for step := 0; step < 10; step++ {
		pool.Step(0.02, vm, dVdt)
	}
	for i, d := range dVdt {
		if math.IsNaN(d) || d == 0 {
			t.Errorf("dVdt[%d] = %v after pooled steps", i, d)
		}
	}
}

func TestPoolCloseIsIdempotent(t *testing.T) {
	r := newTestReaction(t, 8)
	pool, err := NewPool(r, 2)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	pool.Close()
	pool.Close()

	// The reaction stays usable serially after Close.
	vm := make([]float64, 8)
	dVdt := make([]float64, 8)
	for i := range vm {
		vm[i] = r.Voltage(i)
	}
	r.Calc(0.02, vm, dVdt)
}

func BenchmarkCalc(b *testing.B) {
	for _, n := range []int{1024, 16384} {
		r := newTestReaction(b, n)
		vm := make([]float64, n)
		dVdt := make([]float64, n)
		for i := range vm {
			vm[i] = r.Voltage(i)
		}
		b.Run(fmt.Sprintf("cells=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				r.Calc(0.02, vm, dVdt)
			}
		})
	}
}

func BenchmarkPoolStep(b *testing.B) {
	const n = 16384
	for _, workers := range []int{1, 2, 4} {
		r := newTestReaction(b, n)
		pool, err := NewPool(r, workers)
		if err != nil {
			b.Fatalf("NewPool: %v", err)
		}
		vm := make([]float64, n)
		dVdt := make([]float64, n)
		for i := range vm {
			vm[i] = r.Voltage(i)
		}
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				pool.Step(0.02, vm, dVdt)
			}
		})
		pool.Close()
	}
}
