// Package anim drives time-parameterized animations of a synthesized web.
//
// Three behaviors are supported, each a small state machine advanced by
// [Step] with a normalized time in [0, 1]:
//
//   - spread grows the web out of its hub (Idle → Spreading → Settled)
//   - shot flies the web along a straight or ballistic path to a target
//     (Idle → InFlight → Landed)
//   - tether pays out a single strand from the shooter to an anchor point,
//     sagging under a damped spring until it pulls taut
//     (Idle → Attaching → Anchored)
//
// Stepping is a pure recomputation from (mesh, state, t): the input mesh is
// never touched and each [Frame] carries its own copy. Hosts may scrub time
// back and forth freely until the state reaches t=1, after which the final
// snapshot is frozen.
//
//	st := anim.NewShot(anim.ShotParams{Origin: shooter, Target: wall})
//	for i := 0; i <= 24; i++ {
//	    f, err := anim.Step(mesh, st, float64(i)/24)
//	    ...
//	}
package anim
