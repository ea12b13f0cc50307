// Package cardioid is the per-cell electrophysiology reaction kernel of a
// reaction-diffusion cardiac tissue simulation.
//
// Each simulation timestep splits into a reaction phase (this module) and a
// diffusion phase (an external PDE solver). The reaction phase advances the
// ionic state of every cell independently: gate variables relax toward
// voltage-dependent steady states through an exact exponential integrator,
// and concentrations advance by an explicit step driven by the summed ionic
// currents. The voltage-dependent rate functions are served by piecewise
// rational tables fitted once at startup, and the per-cell arithmetic is
// batched across SIMD lanes with github.com/ajroetker/go-highway/hwy.
//
// The packages, leaf first:
//
//   - barrier: a monotonic-counter rendezvous barrier with acquire/release
//     visibility, used to agree that all per-timestep work is complete.
//   - pade: the piecewise rational fitting and evaluation engine.
//   - tt06: the ten Tusscher-Panfilov 2006 ventricular cell model.
//   - reaction: the batch integrator, population setup, and the worker pool
//     that couples to the diffusion side.
package cardioid
