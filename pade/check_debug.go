//go:build padedebug

package pade

import "fmt"

func checkDomain(a *Approximant, v float64) {
	if v < a.v0 || v > a.v1 {
		panic(fmt.Sprintf("pade: %s evaluated at %g outside fitted domain [%g, %g]",
			a.name, v, a.v0, a.v1))
	}
}
