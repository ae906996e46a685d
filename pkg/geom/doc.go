// Package geom provides the small amount of 3D vector math used by the web
// generator: vectors, rotations and quadratic Bézier segments.
//
// All types are plain values. Nothing in this package allocates except the
// sampling helpers, which return fresh slices.
//
// # Conventions
//
// Webs are built in a local frame whose XY plane holds the spokes and whose
// +Z axis is the web normal (the direction a shot travels when it lands).
// Angles are in radians, counter-clockwise from +X.
package geom
