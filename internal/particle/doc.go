// Package particle implements a bounded 2D particle system.
//
// A [System] owns an ordered set of [Particle] values inside the region
// [0, width] x [0, height]. Each call to [System.Update] advances every
// particle by one unit time step at constant velocity, reflects the
// velocity component of any axis whose position left the region, and
// clamps the position back inside it.
//
// # Example
//
//	sys := particle.New(1000, 800, 600)
//	for frame := 0; frame < 60; frame++ {
//	    sys.Update()
//	    for _, p := range sys.Particles() {
//	        draw(p.X, p.Y, p.Radius, p.Hue)
//	    }
//	}
//
// # Thread Safety
//
// A System is NOT safe for concurrent use. [System.UpdateParallel] splits
// the work of a single step across goroutines, but callers must still
// drive the system from one loop.
package particle
