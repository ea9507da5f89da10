// Package physics provides the rigid-body world the dice are thrown into.
//
// A [World] holds [Body] values of three shapes:
//
//   - [ShapePlane]: infinite static floor
//   - [ShapeBox]: static walls
//   - [ShapeHull]: convex dice, collided by their vertices
//
// Each [World.Step] detects contacts, applies gravity, runs a sequential
// impulse solver with friction and restitution, integrates with a
// semi-implicit Euler step and puts slow bodies to sleep.
//
// # Determinism
//
// Stepping is a pure function of body state and order. [World.Clone]
// therefore produces a shadow world that can be run ahead to see where the
// live bodies will come to rest:
//
//	shadow := world.Clone()
//	for !shadow.Settled() {
//	    shadow.Step(dt)
//	}
//
// # Thread Safety
//
// World instances are NOT thread-safe. They are owned by the simulation loop.
package physics
