package scene

import (
	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// Placement positions a web in the world between the point it is shot from
// and the surface it lands on.
//
// The web faces along Origin→Target: its local +Z axis is aimed at the
// target and its hub is pulled back toward the origin by the web height,
// so the rim lands on the plane through Target. When Origin equals Target
// the web keeps its local orientation.
type Placement struct {
	Origin geom.Vec3 `json:"origin"`
	Target geom.Vec3 `json:"target"`
}

// Dir returns the unit shooting direction, or +Z when Origin equals Target.
func (p Placement) Dir() geom.Vec3 {
	d := p.Target.Sub(p.Origin).Normalize()
	if d == geom.Zero {
		return geom.UnitZ
	}
	return d
}

// Hub returns the world position of the hub for a web of the given height.
func (p Placement) Hub(height float64) geom.Vec3 {
	return p.Target.Sub(p.Dir().Mul(height))
}

// Transform returns the map from the local web frame to world space.
func (p Placement) Transform(height float64) func(geom.Vec3) geom.Vec3 {
	rot := geom.Basis(p.Dir(), geom.UnitZ)
	hub := p.Hub(height)
	return func(v geom.Vec3) geom.Vec3 {
		return hub.Add(rot.Apply(v))
	}
}

// Apply returns m moved into world space.
func (p Placement) Apply(m *web.Mesh) *web.Mesh {
	return m.Transform(p.Transform(m.Params.Height))
}

// Shot returns an idle shot that flies a placed web from the origin to its
// resting position. extra supplies gravity, easing, orientation and trail.
func (p Placement) Shot(m *web.Mesh, extra anim.ShotParams) *anim.State {
	extra.Origin = p.Origin
	extra.Target = m.Reference()
	if extra.Facing == geom.Zero {
		extra.Facing = p.Dir()
	}
	return anim.NewShot(extra)
}

// Tether returns an idle tether from the origin to the hub of a placed web.
func (p Placement) Tether(m *web.Mesh, extra anim.TetherParams) *anim.State {
	extra.Shooter = p.Origin
	extra.Anchor = m.Reference()
	return anim.NewTether(extra)
}
