// Package web synthesizes spider-web geometry from a handful of shape
// parameters.
//
// # Overview
//
// Generation runs in two pure steps:
//
//  1. [BuildFrame] places one anchor per spoke around the hub, on a circle,
//     on a regular polygon, or with seeded jitter for an irregular look.
//  2. [Synthesize] scales the frame into concentric rings and joins them with
//     spoke edges (radial) and rib edges (around each ring). Ribs are bent by
//     a [Modulator] into quadratic curves whose sag grows with curvature.
//
// [Generate] runs both steps. Identical [Params] always yield an identical
// [Mesh]; irregular webs draw their jitter from a PCG stream seeded by
// [Params.Seed] or, when zero, by the parameter fingerprint.
//
// # Local Frame
//
// Webs are built in their own frame: the hub sits at the origin, spokes lie
// in the XY plane at counter-clockwise angles starting on +X, and +Z is the
// web normal. A non-zero Height lifts ring j by Height·frac_j along +Z,
// turning the flat web into a shallow cone.
//
// # Mesh Layout
//
//	index 0            hub (absent when OpenHub)
//	index h + j·N + i  ring j, spoke i
//
// Edges are listed spokes first (per spoke, innermost first) then ribs (per
// ring, in spoke order). Every edge carries its curve; spoke curves are
// straight.
//
// # Example
//
//	m, err := web.Generate(web.Params{Size: 2, Spokes: 8, Ribs: 4})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(m.Vertices)) // 33
package web
