//go:build !barrierdebug

package barrier

import "sync/atomic"

// spinUntil busy-waits until the watched counter reaches target. The
// atomic load carries acquire semantics, pairing with the releasing store
// in Arrive.
func spinUntil(w *atomic.Uint64, target uint64) {
	for w.Load() < target {
	}
}
