// Package convert is the conversion dispatcher and the differential
// transform engine.
//
// Positions are converted by resolving a path in a Registry of closed-form
// rules: identity, a direct rule, or a pivot through the canonical Cartesian
// types of either end. Velocities and accelerations are never converted in
// closed form. They are contracted with the Jacobian of the same position
// path, obtained by running the rules over dual numbers, so position and
// derivative conversions always agree.
//
// Rules see plain numbers in working units: lengths in the first length unit
// of the input, areas in its square and angles in radians. Results carry
// those units; azimuths therefore come back in radians.
package convert
