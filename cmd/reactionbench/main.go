// Command reactionbench steps a synthetic cell population and reports
// throughput. It stands in for the diffusion side: the voltage array is
// integrated explicitly from the reaction derivative, with a periodic
// stimulus so the cells actually cycle through action potentials instead
// of sitting at rest.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/KiruyaMomochi/cardioid/reaction"
	"github.com/KiruyaMomochi/cardioid/tt06"
)

func main() {
	var (
		cells   = flag.Int("cells", 16384, "number of cells")
		steps   = flag.Int("steps", 50000, "number of timesteps")
		dt      = flag.Float64("dt", 0.02, "timestep in ms")
		workers = flag.Int("workers", 1, "pool workers; 0 runs the serial path")
		tol     = flag.Float64("tol", 1e-4, "relative fit tolerance")
		period  = flag.Float64("period", 1000, "stimulus period in ms")
	)
	flag.Parse()

	if err := run(*cells, *steps, *dt, *workers, *tol, *period); err != nil {
		fmt.Fprintln(os.Stderr, "reactionbench:", err)
		os.Exit(1)
	}
}

func run(cells, steps int, dt float64, workers int, tol, period float64) error {
	types := tt06.StandardCellTypes()
	assignment := make([]int, cells)
	for i := range assignment {
		assignment[i] = i % len(types)
	}
	opts := reaction.DefaultOptions()
	opts.FitTol = tol

	fitStart := time.Now()
	r, err := reaction.New(types, assignment, opts)
	if err != nil {
		return err
	}
	fmt.Printf("fit: %d cells, tol %g, built in %v\n", cells, tol, time.Since(fitStart).Round(time.Millisecond))

	var pool *reaction.Pool
	if workers > 0 {
		if pool, err = reaction.NewPool(r, workers); err != nil {
			return err
		}
		defer pool.Close()
	}

	vm := make([]float64, cells)
	dVdt := make([]float64, cells)
	for i := range vm {
		vm[i] = r.Voltage(i)
	}

	const stimAmp = 52.0 // pA/pF depolarizing, 1 ms pulse
	start := time.Now()
	for s := 0; s < steps; s++ {
		if pool != nil {
			pool.Step(dt, vm, dVdt)
		} else {
			r.Calc(dt, vm, dVdt)
		}
		stim := 0.0
		if math.Mod(float64(s)*dt, period) < 1.0 {
			stim = stimAmp
		}
		for i := range vm {
			vm[i] += dt * (dVdt[i] + stim)
		}
	}
	elapsed := time.Since(start)

	// Checksum over the final voltages so runs are comparable and the
	// stepping cannot be optimized away.
	sum := 0.0
	for _, v := range vm {
		sum += v
	}
	cellSteps := float64(cells) * float64(steps)
	fmt.Printf("steps: %d x %d cells in %v\n", steps, cells, elapsed.Round(time.Millisecond))
	fmt.Printf("rate: %.1f Mcell-steps/s", cellSteps/elapsed.Seconds()/1e6)
	if workers > 0 {
		fmt.Printf(" (%d workers)", workers)
	}
	fmt.Println()
	fmt.Printf("mean vm: %.6f mV\n", sum/float64(cells))
	return nil
}
