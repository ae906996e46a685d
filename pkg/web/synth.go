package web

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
)

// Generate builds the frame for p and synthesizes the mesh on it.
func Generate(p Params) (*Mesh, error) {
	f, err := BuildFrame(p)
	if err != nil {
		return nil, err
	}
	return Synthesize(f, p)
}

// Synthesize builds the spoke and rib network on frame f.
//
// Ring j sits at fraction RingFractions(p)[j] of each spoke; the outermost
// ring lies on the anchors. Spokes bow toward the shooter (local −Z) with
// the curvature, and ring vertices sit on the bowed spoke. Spoke edges run
// hub→ring 0 and ring j→ring j+1 along each spoke, rib edges run spoke
// i→i+1 around each ring and are bent by the curvature modulator. The frame is not re-validated beyond its
// anchor count; the result is either complete or an error.
func Synthesize(f Frame, p Params) (*Mesh, error) {
	n := f.Len()
	if n < MinSpokes {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "frame has %d anchors, need at least %d", n, MinSpokes)
	}
	if p.Ribs < MinRibs {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "ribs must be at least %d, got %d", MinRibs, p.Ribs)
	}

	rings := p.Ribs
	fracs := RingFractions(rings, p.spacing())
	spokeFracs := spokeFractions(f, p, fracs)

	m := &Mesh{
		Hub:    -1,
		Spokes: n,
		Rings:  rings,
		Params: p,
	}
	m.Vertices = make([]Vertex, 0, 1+n*rings)
	if !p.OpenHub {
		m.Hub = 0
		m.Vertices = append(m.Vertices, Vertex{Pos: geom.Zero, Ring: -1, Spoke: -1})
	}
	for j := range rings {
		for i, a := range f.Anchors {
			pos := newSpoke(a, p).at(spokeFracs[i][j])
			m.Vertices = append(m.Vertices, Vertex{Pos: pos, Ring: j, Spoke: i})
		}
	}

	hubEdges := 0
	if m.HasHub() {
		hubEdges = 1
	}
	m.Edges = make([]Edge, 0, n*(rings-1+hubEdges)+n*rings)
	for i, a := range f.Anchors {
		sp, row := newSpoke(a, p), spokeFracs[i]
		if m.HasHub() {
			m.Edges = append(m.Edges, sp.edge(m, m.Hub, m.Index(0, i), 0, row[0], 0, i))
		}
		for j := 1; j < rings; j++ {
			m.Edges = append(m.Edges, sp.edge(m, m.Index(j-1, i), m.Index(j, i), row[j-1], row[j], j, i))
		}
	}

	mod := NewModulator(p)
	for j := range rings {
		for i := range n {
			a, b := m.Index(j, i), m.Index(j, (i+1)%n)
			m.Edges = append(m.Edges, Edge{
				A:     a,
				B:     b,
				Kind:  EdgeRib,
				Ring:  j,
				Spoke: i,
				Curve: mod.Curve(m.Vertices[a].Pos, m.Vertices[b].Pos, p.Curvature, j),
			})
		}
	}
	return m, nil
}

// spokePath is the path of one spoke from the hub (s = 0) to its anchor
// (s = 1):
//
//	B(s) = s·anchor + Z·(Height·s − 4·bow·s·(1−s))
//
// The bow peaks at mid-spoke with depth Curvature·Radius/4.
type spokePath struct {
	anchor geom.Vec3
	height float64
	bow    float64
}

func newSpoke(a Anchor, p Params) spokePath {
	return spokePath{anchor: a.Pos, height: p.Height, bow: p.Curvature * a.Radius / 4}
}

func (sp spokePath) at(s float64) geom.Vec3 {
	return sp.anchor.Mul(s).Add(geom.UnitZ.Mul(sp.height*s - 4*sp.bow*s*(1-s)))
}

func (sp spokePath) deriv(s float64) geom.Vec3 {
	return sp.anchor.Add(geom.UnitZ.Mul(sp.height - 4*sp.bow*(1-2*s)))
}

// edge returns the spoke edge between vertices a and b at fractions s0 and
// s1. B is quadratic in s, so the piece is exactly a quadratic Bézier.
func (sp spokePath) edge(m *Mesh, a, b int, s0, s1 float64, ring, spk int) Edge {
	p0, p2 := m.Vertices[a].Pos, m.Vertices[b].Pos
	curve := geom.Line(p0, p2)
	if sp.bow != 0 {
		curve = geom.QuadBez{P0: p0, P1: sp.at(s0).Add(sp.deriv(s0).Mul((s1 - s0) / 2)), P2: p2}
	}
	return Edge{
		A:     a,
		B:     b,
		Kind:  EdgeSpoke,
		Ring:  ring,
		Spoke: spk,
		Curve: curve,
	}
}

// RingFractions returns the fraction of the spoke length at which each ring
// sits, innermost first. The last fraction is always exactly 1.
func RingFractions(rings int, spacing Spacing) []float64 {
	fracs := make([]float64, rings)
	if spacing == SpacingGeometric && rings > 1 {
		// Innermost ring at 1/rings, constant ratio q between neighbours.
		q := math.Pow(1/float64(rings), 1/float64(rings-1))
		for j := range rings {
			fracs[j] = math.Pow(q, float64(rings-1-j))
		}
	} else {
		for j := range rings {
			fracs[j] = float64(j+1) / float64(rings)
		}
	}
	fracs[rings-1] = 1
	return fracs
}

// spokeFractions returns per-spoke ring fractions. Irregular webs nudge
// interior rings along their spoke by at most maxAngleJitter·InteriorJitter
// of the nearest ring gap, so rings keep their order along every spoke.
func spokeFractions(f Frame, p Params, fracs []float64) [][]float64 {
	out := make([][]float64, f.Len())
	jitter := p.shape() == ShapeIrregular && p.InteriorJitter > 0
	var rng *rand.Rand
	if jitter {
		seed := p.EffectiveSeed()
		rng = rand.New(rand.NewPCG(seed^0x9e3779b97f4a7c15, seed))
	}
	for i := range out {
		row := append([]float64(nil), fracs...)
		if jitter {
			for j := 0; j < len(row)-1; j++ {
				below := fracs[j]
				if j > 0 {
					below -= fracs[j-1]
				}
				gap := min(below, fracs[j+1]-fracs[j])
				row[j] += maxAngleJitter * p.InteriorJitter * gap * (2*rng.Float64() - 1)
			}
		}
		out[i] = row
	}
	return out
}
