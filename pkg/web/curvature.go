package web

import (
	"math"

	"github.com/matzehuels/spiderweb/pkg/geom"
)

// RibCurve is the path of one rib segment between adjacent spokes. Its
// endpoints are the ring vertices it joins.
type RibCurve = geom.QuadBez

// controlMargin is the fraction of the wedge a control point may use.
const controlMargin = 0.9

// Modulator bends rib chords into quadratic curves.
//
// The control point is pushed perpendicular to the chord, inside the web
// plane, to the left of a→b. For anchors in counter-clockwise order that is
// the hub side, so ribs sag inward like a loaded thread. The nominal control
// offset is
//
//	2 · curvature · |ab| / 4 · taper(ring)
//
// where taper(ring) = 1 − Taper·(1 − (ring+1)/Rings) softens inner rings.
// The offset saturates smoothly below controlMargin of the distance at which
// the control point would leave the wedge between the spokes through a and b
// (seen from Center). The curve lies in the hull of its control points, so
// it never reaches past either spoke and ribs of one ring cannot cross.
type Modulator struct {
	Rings  int
	Taper  float64
	Center geom.Vec3 // point the spokes radiate from
}

// NewModulator returns the modulator matching p.
func NewModulator(p Params) Modulator {
	return Modulator{Rings: p.Ribs, Taper: p.Taper}
}

// Curve returns the rib path from a to b on the given ring.
// A zero curvature places the control point exactly on the chord midpoint.
func (m Modulator) Curve(a, b geom.Vec3, curvature float64, ring int) RibCurve {
	mid := a.Midpoint(b)
	if curvature == 0 {
		return RibCurve{P0: a, P1: mid, P2: b}
	}
	chord := b.Sub(a)
	dir := chord.PerpXY().Normalize()
	// A quadratic peaks at half its control offset.
	offset := 2 * curvature * chord.Len() / 4 * m.taper(ring)
	if reach := m.reach(a, b, mid, dir); !math.IsInf(reach, 1) {
		limit := controlMargin * reach
		offset = limit * (1 - math.Exp(-offset/limit))
	}
	return RibCurve{P0: a, P1: mid.Add(dir.Mul(offset)), P2: b}
}

// reach returns how far a point may travel from mid along dir before it
// crosses the line of either spoke. It is infinite when a and b do not turn
// counter-clockwise around the center.
func (m Modulator) reach(a, b, mid, dir geom.Vec3) float64 {
	a, b, mid = a.Sub(m.Center), b.Sub(m.Center), mid.Sub(m.Center)
	reach := math.Inf(1)
	if cross2(a, b) <= 0 {
		return reach
	}
	for _, l := range []float64{
		-cross2(mid, b) / cross2(dir, b),
		-cross2(a, mid) / cross2(a, dir),
	} {
		if l > 0 && l < reach {
			reach = l
		}
	}
	return reach
}

func (m Modulator) taper(ring int) float64 {
	if m.Rings <= 0 {
		return 1
	}
	ring = max(0, min(ring, m.Rings-1))
	frac := float64(ring+1) / float64(m.Rings)
	return 1 - m.Taper*(1-frac)
}

// cross2 is the Z component of a × b.
func cross2(a, b geom.Vec3) float64 {
	return a.X*b.Y - a.Y*b.X
}
