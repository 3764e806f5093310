// Package heat simulates transient two-dimensional heat conduction on a
// square plate with fixed-temperature (Dirichlet) boundaries.
//
// The package is split the same way the computation is:
//
//   - [Field]: an N×N temperature field, immutable once built
//   - [Simulation]: derived grid spacing, time step and step count, plus the
//     explicit FTCS stencil ([Simulation.Step])
//   - [Simulation.Run]: the driver, handing each new field to a [StepFunc]
//
// # Example
//
//	sim, err := heat.New(heat.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	sim.Run(func(step int, t float64, f *heat.Field) {
//	    fmt.Printf("t=%.3f centre=%.2f\n", t, f.At(f.N()/2, f.N()/2))
//	})
//
// # Stability
//
// The time step is dt = SafetyFactor*dx*dy/a. The scheme is stable while
// a*dt*(1/dx²+1/dy²) ≤ 1/2; see [Simulation.StabilityRatio]. A ratio above
// the bound is not an error: the run proceeds and the field oscillates.
//
// # Thread Safety
//
// A Simulation holds no mutable state and may be shared. Fields are never
// modified after they are handed to a callback, so callbacks may retain them.
package heat
