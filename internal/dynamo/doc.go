// Package dynamo provides the core data model for the symbol field simulation.
//
// The package defines the value types shared by every other package:
//
//   - [Vec2]: a 2D vector used for positions and velocities
//   - [Viewport]: the current drawable area
//   - [Particle]: one animated symbol with physical and visual state
//   - [Connection] and [Adjacency]: the per-tick proximity graph
//   - [Frame]: the read-only view handed to renderers and observers
//
// # Ownership
//
// Particles are owned by a single running simulation. A Frame references the
// live population and is only valid for the duration of the callback it is
// passed to.
package dynamo
