package anim

import (
	"math"

	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/web"
)

func (p ShotParams) validate() error {
	for _, v := range []geom.Vec3{p.Origin, p.Target, p.Gravity, p.Facing} {
		if v.IsNaN() || v.IsInf() {
			return errors.New(errors.ErrCodeInvalidState, "shot vectors must be finite")
		}
	}
	if !p.Ease.Valid() {
		return errors.New(errors.ErrCodeInvalidState, "unknown easing %q", p.Ease)
	}
	if !(p.TrailLength >= 0 && p.TrailLength <= 1) {
		return errors.New(errors.ErrCodeInvalidState, "trail length must be in [0, 1], got %g", p.TrailLength)
	}
	if p.TrailSamples < 0 {
		return errors.New(errors.ErrCodeInvalidState, "trail samples must not be negative")
	}
	return nil
}

// Path returns the projectile position at path parameter s:
//
//	lerp(Origin, Target, s) + ½·Gravity·(s² − s)
//
// The gravity term vanishes at both ends, so the path starts at Origin and
// ends exactly at Target.
func (p ShotParams) Path(s float64) geom.Vec3 {
	pos := p.Origin.Lerp(p.Target, s)
	if p.Gravity == geom.Zero || s == 0 || s == 1 {
		return pos
	}
	return pos.Add(p.Gravity.Mul(0.5 * (s*s - s)))
}

// Velocity returns the derivative of Path at s.
func (p ShotParams) Velocity(s float64) geom.Vec3 {
	return p.Target.Sub(p.Origin).Add(p.Gravity.Mul(0.5 * (2*s - 1)))
}

// Apex returns the path parameter at which the arc is highest against
// gravity, clamped to [0, 1]. A straight shot has its apex at 0.
func (p ShotParams) Apex() float64 {
	g2 := p.Gravity.Dot(p.Gravity)
	if g2 == 0 {
		return 0
	}
	// Maximise −Gravity·Path(s).
	s := 0.5 - p.Target.Sub(p.Origin).Dot(p.Gravity)/g2
	return clamp01(s)
}

// shot moves the web rigidly so its reference point follows the path.
func shot(m *web.Mesh, p ShotParams, t float64) (*web.Mesh, geom.Vec3, []geom.Vec3, error) {
	ease, err := p.Ease.Func(EaseLinear)
	if err != nil {
		return nil, geom.Zero, nil, err
	}
	s := ease(t)
	ref := m.Reference()
	pos := p.Path(s)

	rot := geom.Identity()
	if p.Orient {
		facing := p.Facing
		if facing == geom.Zero {
			facing = geom.UnitZ
		}
		rot = geom.RotateTo(facing, p.Velocity(s))
	}
	moved := m.Transform(func(v geom.Vec3) geom.Vec3 {
		return rot.Apply(v.Sub(ref)).Add(pos)
	})

	var trail []geom.Vec3
	if p.TrailLength > 0 && t > 0 {
		n := p.TrailSamples
		if n == 0 {
			n = DefaultTrailSamples
		}
		start := math.Max(0, t-p.TrailLength)
		trail = make([]geom.Vec3, n+1)
		for i := range n + 1 {
			u := start + (t-start)*float64(i)/float64(n)
			if i == n {
				u = t
			}
			trail[i] = p.Path(ease(u))
		}
	}
	return moved, pos, trail, nil
}
