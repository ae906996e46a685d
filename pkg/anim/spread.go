package anim

import (
	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/web"
)

func (p SpreadParams) validate() error {
	if !p.Ease.Valid() {
		return errors.New(errors.ErrCodeInvalidState, "unknown easing %q", p.Ease)
	}
	if !(p.Stagger >= 0 && p.Stagger < 1) {
		return errors.New(errors.ErrCodeInvalidState, "stagger must be in [0, 1), got %g", p.Stagger)
	}
	return nil
}

// spread grows the web out of its center. Every vertex is scaled about the
// center by the eased progress of its ring; vertices at full progress keep
// their exact input position, so t=1 reproduces the input mesh.
func spread(m *web.Mesh, p SpreadParams, t float64) (*web.Mesh, error) {
	ease, err := p.Ease.Func(EaseOutCubic)
	if err != nil {
		return nil, err
	}

	ringScale := make([]float64, m.Rings)
	for j := range ringScale {
		delay := 0.0
		if m.Rings > 1 {
			delay = p.Stagger * (float64(j) / float64(m.Rings-1))
		}
		ringScale[j] = ease(clamp01((t - delay) / (1 - p.Stagger)))
	}
	scaleOf := func(v web.Vertex) float64 {
		if v.Ring < 0 {
			return 1
		}
		return ringScale[v.Ring]
	}

	c := m.Center
	scaleAbout := func(s float64) func(geom.Vec3) geom.Vec3 {
		return func(v geom.Vec3) geom.Vec3 { return c.Add(v.Sub(c).Mul(s)) }
	}

	out := m.Clone()
	for i, v := range m.Vertices {
		if s := scaleOf(v); s != 1 {
			out.Vertices[i].Pos = scaleAbout(s)(v.Pos)
		}
	}
	for i, e := range m.Edges {
		sa, sb := scaleOf(m.Vertices[e.A]), scaleOf(m.Vertices[e.B])
		switch {
		case sa == 1 && sb == 1:
		case sa == sb:
			out.Edges[i].Curve = e.Curve.Map(scaleAbout(sa))
		default:
			out.Edges[i].Curve = geom.Line(out.Vertices[e.A].Pos, out.Vertices[e.B].Pos)
		}
	}
	return out, nil
}
