package web

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
)

// Anchor is the outer end of one spoke.
type Anchor struct {
	Index  int
	Angle  float64   // in [0, 2π), strictly increasing with Index
	Radius float64   // distance from the hub
	Dir    geom.Vec3 // unit direction in the XY plane
	Pos    geom.Vec3 // Dir * Radius
}

// Frame is the ordered ring of spoke anchors a web is built on.
type Frame struct {
	Anchors []Anchor
}

// Len returns the number of anchors.
func (f Frame) Len() int { return len(f.Anchors) }

// Positions returns the anchor positions in order.
func (f Frame) Positions() []geom.Vec3 {
	pts := make([]geom.Vec3, len(f.Anchors))
	for i, a := range f.Anchors {
		pts[i] = a.Pos
	}
	return pts
}

// maxAngleJitter bounds the angular offset of an irregular anchor as a
// fraction of the even spacing. Below 0.5 neighbours can never swap.
const maxAngleJitter = 0.45

// maxWedge bounds the widest irregular gap as a fraction of π.
const maxWedge = 0.9

// BuildFrame computes the spoke anchors for p.
func BuildFrame(p Params) (Frame, error) {
	if err := p.Validate(); err != nil {
		return Frame{}, err
	}

	n := p.Spokes
	step := 2 * math.Pi / float64(n)
	anchors := make([]Anchor, n)

	switch p.shape() {
	case ShapeCircular:
		for i := range n {
			anchors[i] = newAnchor(i, step*float64(i), p.Size)
		}
	case ShapePolygonal:
		sides := p.PolygonSides()
		for i := range n {
			theta := step * float64(i)
			anchors[i] = newAnchor(i, theta, polygonRadius(theta, p.Size, sides))
		}
	case ShapeIrregular:
		seed := p.EffectiveSeed()
		rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
		// Adjacent gaps span at most step·(1+2k); keep every gap below π so
		// each wedge stays convex.
		k := min(maxAngleJitter*p.Jitter, maxWedge*(float64(n)/2-1)/2)
		for i := range n {
			u := 2*rng.Float64() - 1
			if i == 0 {
				u = math.Abs(u)
			}
			theta := step * (float64(i) + k*u)
			r := p.Size * (1 + p.Jitter*(rng.Float64()-0.5))
			anchors[i] = newAnchor(i, theta, r)
		}
	default:
		return Frame{}, errors.New(errors.ErrCodeInvalidParameter, "unknown shape %q", p.Shape)
	}
	return Frame{Anchors: anchors}, nil
}

func newAnchor(i int, theta, r float64) Anchor {
	dir := geom.Polar(theta, 1)
	return Anchor{Index: i, Angle: theta, Radius: r, Dir: dir, Pos: dir.Mul(r)}
}

// polygonRadius returns the distance from the center to the edge of a
// regular polygon with circumradius size along the ray at theta. The
// midpoint of the first polygon edge sits on the +X axis, so with as many
// sides as spokes every anchor lands on an edge midpoint.
func polygonRadius(theta, size float64, sides int) float64 {
	wedge := 2 * math.Pi / float64(sides)
	local := theta - wedge*math.Round(theta/wedge)
	return size * math.Cos(wedge/2) / math.Cos(local)
}
