package anim

import (
	"math"

	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// Step advances st to time t and returns the snapshot for that instant.
//
// m is never modified; the returned frame owns a fresh mesh. The first step
// binds st to its behavior. Once a terminal phase is reached further steps
// return the terminal snapshot unchanged.
//
// Step fails with INVALID_STATE when t is outside [0, 1], st or m is nil, st
// was cancelled, or st.Behavior changed since the first step.
func Step(m *web.Mesh, st *State, t float64) (Frame, error) {
	if st == nil {
		return Frame{}, errors.New(errors.ErrCodeInvalidState, "nil animation state")
	}
	if m == nil {
		return Frame{}, errors.New(errors.ErrCodeInvalidState, "nil mesh")
	}
	if math.IsNaN(t) || t < 0 || t > 1 {
		return Frame{}, errors.New(errors.ErrCodeInvalidState, "time %v outside [0, 1]", t)
	}
	if st.phase == PhaseCancelled {
		return Frame{}, errors.New(errors.ErrCodeInvalidState, "%s animation was cancelled", st.Behavior)
	}
	if st.bound != 0 && st.Behavior != st.bound {
		return Frame{}, errors.New(errors.ErrCodeInvalidState,
			"state is bound to %s, cannot drive %s", st.bound, st.Behavior)
	}
	if st.phase.Terminal() && st.final != nil {
		return st.final.clone(), nil
	}

	f := Frame{Behavior: st.Behavior, T: t}
	var active, terminal Phase
	switch st.Behavior {
	case BehaviorSpread:
		if err := st.Spread.validate(); err != nil {
			return Frame{}, err
		}
		mesh, err := spread(m, st.Spread, t)
		if err != nil {
			return Frame{}, err
		}
		f.Mesh, f.Reference = mesh, mesh.Reference()
		active, terminal = PhaseSpreading, PhaseSettled
	case BehaviorShot:
		if err := st.Shot.validate(); err != nil {
			return Frame{}, err
		}
		mesh, ref, trail, err := shot(m, st.Shot, t)
		if err != nil {
			return Frame{}, err
		}
		f.Mesh, f.Reference, f.Trail = mesh, ref, trail
		active, terminal = PhaseInFlight, PhaseLanded
	case BehaviorTether:
		if err := st.Tether.validate(); err != nil {
			return Frame{}, err
		}
		strand, err := tether(st.Tether, t)
		if err != nil {
			return Frame{}, err
		}
		f.Mesh = m.Clone()
		f.Reference, f.Tether = f.Mesh.Reference(), strand
		active, terminal = PhaseAttaching, PhaseAnchored
	default:
		return Frame{}, errors.New(errors.ErrCodeInvalidState, "unknown behavior %v", st.Behavior)
	}

	st.bound = st.Behavior
	st.t = t
	st.phase = active
	if t == 1 {
		st.phase = terminal
		final := f.clone()
		final.Phase = terminal
		st.final = &final
	}
	f.Phase = st.phase
	return f, nil
}

// Run steps st through frames+1 evenly spaced times from 0 to 1 and returns
// every snapshot. It stops at the first error. st should be idle.
func Run(m *web.Mesh, st *State, frames int) ([]Frame, error) {
	frames = max(frames, 1)
	out := make([]Frame, 0, frames+1)
	for i := range frames + 1 {
		t := float64(i) / float64(frames)
		f, err := Step(m, st, t)
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
	return out, nil
}
