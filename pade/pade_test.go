package pade

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// Fit targets shaped like the rate functions this package exists for:
// sigmoids, gaussian-bump time constants, and the gate exponential.
var fitTargets = []struct {
	name   string
	f      Func
	v0, v1 float64
}{
	{"sigmoid", func(v float64) float64 { return 1 / (1 + math.Exp((-26-v)/7)) }, -100, 60},
	{"squared-sigmoid", func(v float64) float64 {
		s := 1 / (1 + math.Exp((-56.86-v)/9.03))
		return s * s
	}, -100, 60},
	{"bump-tau", func(v float64) float64 {
		return 9.5*math.Exp(-(v+40)*(v+40)/1800) + 0.8
	}, -100, 60},
	{"exp-neg", func(v float64) float64 { return math.Exp(-v) }, 0, 30},
}

func TestFitMeetsTolerance(t *testing.T) {
	const tol = 1e-6
	for _, tc := range fitTargets {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Fit(tc.name, tc.f, tc.v0, tc.v1, 0.25, tol)
			if err != nil {
				t.Fatalf("Fit: %v", err)
			}
			if got := a.MaxError(tc.f, 20000); got > tol {
				t.Errorf("max error %g exceeds tol %g over [%g, %g] (%d pieces)",
					got, tol, tc.v0, tc.v1, a.Pieces())
			}
		})
	}
}

func TestFitRecoversExactRational(t *testing.T) {
	// A function that is itself rational should fit in one piece with a
	// low-order table and essentially no error.
	f := func(v float64) float64 { return (1 + 0.5*v) / (1 + 0.25*v*v) }
	a, err := Fit("rational", f, -2, 2, 0.05, 1e-9)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if a.Pieces() != 1 {
		t.Errorf("exact rational split into %d pieces, want 1", a.Pieces())
	}
	if got := a.MaxError(f, 10000); got > 1e-9 {
		t.Errorf("max error %g, want <= 1e-9", got)
	}
}

func TestFitToleranceUnattainable(t *testing.T) {
	// A discontinuity can never be fitted by bounded-order rationals on a
	// bounded number of uniform pieces.
	step := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return 1
	}
	cfg := DefaultConfig()
	cfg.MaxSplits = 3
	_, err := cfg.Fit("step", step, -1, 1, 0.01, 1e-8)
	if err == nil {
		t.Fatal("Fit of a step function succeeded; want error")
	}
	if !strings.Contains(err.Error(), "step") {
		t.Errorf("error does not name the function: %v", err)
	}
	if !errors.Is(err, ErrTolerance) {
		t.Errorf("error does not wrap ErrTolerance: %v", err)
	}
}

func TestFitRejectsBadArguments(t *testing.T) {
	f := func(v float64) float64 { return v }
	if _, err := Fit("empty", f, 1, 1, 0.1, 1e-6); err == nil {
		t.Error("empty domain accepted")
	}
	if _, err := Fit("badtol", f, 0, 1, 0.1, 0); err == nil {
		t.Error("zero tolerance accepted")
	}
	if _, err := Fit("baddv", f, 0, 1, 0, 1e-6); err == nil {
		t.Error("zero deltaV accepted")
	}
}

func TestEvalSliceMatchesEval(t *testing.T) {
	for _, tc := range fitTargets {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Fit(tc.name, tc.f, tc.v0, tc.v1, 0.25, 1e-6)
			if err != nil {
				t.Fatalf("Fit: %v", err)
			}
			// An awkward length so the tail path runs.
			const n = 1003
			vs := make([]float64, n)
			out := make([]float64, n)
			for i := range vs {
				vs[i] = tc.v0 + (tc.v1-tc.v0)*float64(i)/float64(n-1)
			}
			a.EvalSlice(vs, out)
			for i, v := range vs {
				want := a.Eval(v)
				if diff := math.Abs(out[i] - want); diff > 1e-12 {
					t.Fatalf("lane %d (v=%g): EvalSlice=%g Eval=%g", i, v, out[i], want)
				}
			}
		})
	}
}

func TestEvalClampsIndexAtBoundaries(t *testing.T) {
	f := func(v float64) float64 { return math.Exp(-v) }
	a, err := Fit("exp-neg", f, 0, 30, 0.1, 1e-6)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	// Exactly at the upper boundary the raw index lands one past the last
	// piece; the clamp must keep it in-table.
	if got, want := a.Eval(30), f(30.0); math.Abs(got-want) > 1e-6 {
		t.Errorf("Eval(30)=%g, want %g", got, want)
	}
	if got, want := a.Eval(0), f(0.0); math.Abs(got-want) > 1e-6 {
		t.Errorf("Eval(0)=%g, want %g", got, want)
	}
}

func TestWriteTable(t *testing.T) {
	a, err := Fit("sigmoid", fitTargets[0].f, -100, 60, 0.25, 1e-4)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	var sb strings.Builder
	if err := a.WriteTable(&sb); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	dump := sb.String()
	if !strings.Contains(dump, "sigmoid") || !strings.Contains(dump, "pieces") {
		t.Errorf("table dump missing header: %q", dump)
	}
}

func BenchmarkEval(b *testing.B) {
	a, err := Fit("sigmoid", fitTargets[0].f, -100, 60, 0.25, 1e-6)
	if err != nil {
		b.Fatalf("Fit: %v", err)
	}
	b.Run("scalar", func(b *testing.B) {
		v := -40.0
		var sink float64
		for i := 0; i < b.N; i++ {
			sink += a.Eval(v)
		}
		_ = sink
	})
	b.Run("slice-4096", func(b *testing.B) {
		vs := make([]float64, 4096)
		out := make([]float64, 4096)
		for i := range vs {
			vs[i] = -100 + 160*float64(i)/4095
		}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			a.EvalSlice(vs, out)
		}
	})
}
