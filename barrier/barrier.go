// Package barrier provides a minimal-latency rendezvous barrier for the
// per-timestep synchronization of reaction and diffusion workers.
//
// The barrier keeps two shared counters, start and count, both zero at
// creation. Every participant increments count when it arrives; the arrival
// that brings count up to the round's target publishes that target into
// start, which releases all waiters and leaves the barrier ready for the
// next round. The counters grow monotonically for the life of the process
// and are never reset between rounds, so there is no reset window in which
// a fast thread can race a slow one. At 64 bits they will not wrap over any
// realistic run.
//
// Waiters spin. There is no yielding and no blocking syscall: the barrier
// trades CPU cycles for wake-up latency, which is the right trade for
// timesteps in the microsecond range. Callers that cannot afford a spinning
// core should not be inside this parallel region in the first place.
//
// Visibility contract: every memory write performed by a participant before
// its Arrive call is visible to every participant after its matching
// WaitAndReset returns. No such guarantee is made for Reset, which only
// does round bookkeeping.
//
// A typical split-step round with n producers and any number of consumers:
//
//	b := barrier.New()
//	// per participant, once:
//	h := b.NewHandle()
//
//	// producers:             consumers:
//	h.Arrive(n)               h.WaitAndReset(n)
//	h.Reset(n)
//
// All participants of a round must agree on the same event count, and
// exactly that many Arrive calls must occur per round. A mismatch is a
// configuration bug: the round never completes and waiters spin forever.
// This is a caller invariant, not a detectable runtime error; build with
// the barrierdebug tag to panic on pathological spins instead.
package barrier

import "sync/atomic"

// cacheLine separates the two shared words so that waiters spinning on
// start do not take invalidates from the arrival traffic on count.
const cacheLine = 128

// Barrier is the process-wide shared state. Create one with New before any
// participant runs; a Barrier must not be copied after first use.
type Barrier struct {
	start atomic.Uint64
	_     [cacheLine - 8]byte
	count atomic.Uint64
	_     [cacheLine - 8]byte
}

// New returns a barrier ready for its first round.
func New() *Barrier {
	return &Barrier{}
}

// Handle is one participant's private view of a Barrier. Each participant
// must obtain its own Handle with NewHandle before its first round and must
// not share it.
type Handle struct {
	b          *Barrier
	localStart uint64
}

// NewHandle binds a new participant to the barrier. Safe to call
// concurrently; the returned handle is not.
func (b *Barrier) NewHandle() *Handle {
	return &Handle{b: b}
}

// Arrive announces one arrival event for the current round. Only producers
// call Arrive; a participant may account for more than one event by calling
// it repeatedly. The arrival that completes the round publishes the round
// target, releasing all waiters. Exactly one release happens per round no
// matter how the arrivals interleave, because the release condition is an
// equality on the monotonic count.
func (h *Handle) Arrive(eventNum int) {
	// Add is a full memory barrier: everything written before this call
	// is ordered before the count becomes visible.
	current := h.b.count.Add(1)
	target := h.localStart + uint64(eventNum)
	if current == target {
		h.b.start.Store(current)
	}
}

// WaitAndReset blocks (spinning) until all eventNum arrivals of the current
// round have happened, then advances this handle to the next round. On
// return, all writes made by any participant before its Arrive for this
// round are visible to the caller.
func (h *Handle) WaitAndReset(eventNum int) {
	target := h.localStart + uint64(eventNum)
	h.localStart = target
	spinUntil(&h.b.start, target)
}

// Reset advances this handle to the next round without waiting and without
// any visibility guarantee. Producers that never consume use Reset in place
// of WaitAndReset.
func (h *Handle) Reset(eventNum int) {
	h.localStart += uint64(eventNum)
}

// Sync is a conventional full barrier: Arrive followed by WaitAndReset.
// Participants that both produce and consume in the same round use Sync.
func (h *Handle) Sync(eventNum int) {
	h.Arrive(eventNum)
	h.WaitAndReset(eventNum)
}
