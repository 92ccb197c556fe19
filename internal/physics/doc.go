// Package physics creates particle populations and advances them one tick
// at a time.
//
// A tick runs in three phases over the whole population:
//
//  1. kinematics: position += velocity, boundary bounce, friction
//  2. one neighbor graph build over the moved positions
//  3. neighbor attraction and the energy decay/regeneration cycle
//
// Each particle therefore still sees its operations in order, and every
// attraction nudge is computed against the same graph snapshot.
//
// The attraction and energy mechanics are cosmetic. Their coefficients are
// tunables, not physical constants.
package physics
