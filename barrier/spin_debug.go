//go:build barrierdebug

package barrier

import (
	"fmt"
	"sync/atomic"
)

// debugSpinLimit is far beyond any plausible round on a loaded machine.
// Hitting it means an eventNum mismatch or a missing Arrive, which would
// otherwise hang silently.
const debugSpinLimit = 1 << 34

func spinUntil(w *atomic.Uint64, target uint64) {
	for i := uint64(0); w.Load() < target; i++ {
		if i >= debugSpinLimit {
			panic(fmt.Sprintf("barrier: round never completed (waiting for %d, at %d); eventNum mismatch?",
				target, w.Load()))
		}
	}
}
