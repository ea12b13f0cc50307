package reaction

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ajroetker/go-highway/hwy"

	"github.com/KiruyaMomochi/cardioid/barrier"
)

// Pool steps a Reaction across a fixed set of pinned worker goroutines.
// Each worker owns a disjoint, lane-aligned cell shard for the life of the
// pool, so per-step work assignment costs nothing and state never migrates
// between caches. Steps are coordinated by two spinning barriers and no
// locks: the coordinator publishes the step parameters, releases the start
// barrier, and waits on the done barrier while the workers run non-gate
// then gate updates on their shards.
//
// A Pool is driven from one goroutine at a time. Workers burn their cores
// between steps; size the pool for dedicated cores, not for oversubscribed
// ones.
type Pool struct {
	r       *Reaction
	startB  *barrier.Barrier
	doneB   *barrier.Barrier
	startH  *barrier.Handle
	doneH   *barrier.Handle
	workers int

	// Step parameters, published before the start-barrier release and
	// therefore visible to every worker without further synchronization.
	dt     float64
	vm     []float64
	dVdt   []float64
	closed bool

	wg sync.WaitGroup
}

// NewPool starts nWorkers pinned goroutines over r's population. Shards
// are split on SIMD lane boundaries so only the last worker ever runs a
// masked tail. The pool owns its workers until Close.
func NewPool(r *Reaction, nWorkers int) (*Pool, error) {
	if nWorkers < 1 {
		return nil, fmt.Errorf("reaction: pool needs at least one worker, got %d", nWorkers)
	}
	p := &Pool{
		r:       r,
		startB:  barrier.New(),
		doneB:   barrier.New(),
		workers: nWorkers,
	}
	p.startH = p.startB.NewHandle()
	p.doneH = p.doneB.NewHandle()

	lanes := hwy.MaxLanes[float64]()
	chunk := (r.n + nWorkers - 1) / nWorkers
	chunk = (chunk + lanes - 1) / lanes * lanes

	p.wg.Add(nWorkers)
	for w := 0; w < nWorkers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if lo > r.n {
			lo = r.n
		}
		if hi > r.n {
			hi = r.n
		}
		s := r.makeShard(lo, hi)
		go p.worker(s)
	}
	return p, nil
}

// worker runs one shard until Close. The goroutine stays wired to one OS
// thread so the spin waits and the shard's cache residency are not
// disturbed by the scheduler.
func (p *Pool) worker(s shard) {
	defer p.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	startH := p.startB.NewHandle()
	doneH := p.doneB.NewHandle()
	for {
		startH.WaitAndReset(1)
		if p.closed {
			return
		}
		if s.hi > s.lo {
			p.r.calcShard(&s, p.dt, p.vm, p.dVdt)
		}
		doneH.Arrive(p.workers)
		doneH.Reset(p.workers)
	}
}

// Step advances the whole population by dt, exactly like Calc but across
// the pool. It returns when every shard has finished; vm and dVdt must not
// be touched by other goroutines while Step runs.
func (p *Pool) Step(dt float64, vm, dVdt []float64) {
	p.dt, p.vm, p.dVdt = dt, vm, dVdt
	p.startH.Arrive(1)
	p.startH.Reset(1)
	p.doneH.WaitAndReset(p.workers)
}

// Close releases the workers and waits for them to exit. The Reaction
// remains usable through Calc afterwards.
func (p *Pool) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.startH.Arrive(1)
	p.startH.Reset(1)
	p.wg.Wait()
}
