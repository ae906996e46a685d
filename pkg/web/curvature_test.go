package web

import (
	"math"
	"testing"

	"github.com/matzehuels/spiderweb/pkg/geom"
)

func TestCurveZeroIsChord(t *testing.T) {
	a, b := geom.V(0.3, -1.7, 0.2), geom.V(2.1, 0.4, 0.2)
	for ring := range 4 {
		q := Modulator{Rings: 4, Taper: 0.5}.Curve(a, b, 0, ring)
		if !q.IsStraight() {
			t.Errorf("ring %d: zero curvature control point %v is off the chord", ring, q.P1)
		}
		if q.P0 != a || q.P2 != b {
			t.Errorf("ring %d: endpoints moved", ring)
		}
	}
}

func TestCurveKeepsEndpoints(t *testing.T) {
	a, b := geom.V(1, 0, 0.5), geom.V(0, 1, 0.5)
	for _, c := range []float64{0.01, 0.5, 1, 4} {
		q := Modulator{Rings: 3}.Curve(a, b, c, 2)
		if q.Eval(0) != a || q.Eval(1) != b {
			t.Errorf("curvature %v: endpoints %v %v, want %v %v", c, q.Eval(0), q.Eval(1), a, b)
		}
		if q.P1.Z != 0.5 {
			t.Errorf("curvature %v: control point left the ring plane: %v", c, q.P1)
		}
	}
}

func TestCurveContinuous(t *testing.T) {
	a, b := geom.V(2, 0, 0), geom.V(0, 2, 0)
	mod := Modulator{Rings: 5, Taper: 0.8}
	const delta = 1e-7
	for c := 0.0; c < MaxCurvature; c += 0.25 {
		p := mod.Curve(a, b, c, 1).P1
		q := mod.Curve(a, b, c+delta, 1).P1
		if d := p.Distance(q); d > 10*delta {
			t.Errorf("curvature %v → %v moved control point by %v", c, c+delta, d)
		}
	}
}

func TestCurveSagAndDirection(t *testing.T) {
	a, b := geom.V(1, 0, 0), geom.V(0, 1, 0)
	mod := Modulator{Rings: 4, Taper: 0.5}
	// The control point may travel at most to the hub, √2/2 from the chord.
	limit := controlMargin * math.Sqrt2 / 2

	tests := []struct {
		ring  int
		taper float64
	}{
		{0, 0.625},
		{1, 0.75},
		{3, 1},
	}
	for _, tt := range tests {
		q := mod.Curve(a, b, 2, tt.ring)
		nominal := 2 * 2 * math.Sqrt2 / 4 * tt.taper
		want := limit * (1 - math.Exp(-nominal/limit)) / 2
		if math.Abs(q.Sag()-want) > 1e-12 {
			t.Errorf("ring %d: sag = %v, want %v", tt.ring, q.Sag(), want)
		}
		// Counter-clockwise neighbours bend toward the hub.
		if q.Midpoint().Len() >= a.Midpoint(b).Len() {
			t.Errorf("ring %d: rib bends away from the hub", tt.ring)
		}
	}
}

func TestCurveSmallCurvatureIsNominal(t *testing.T) {
	a, b := geom.V(1, 0, 0), geom.V(0, 1, 0)
	q := Modulator{Rings: 1}.Curve(a, b, 1e-4, 0)
	nominal := 1e-4 * math.Sqrt2 / 4
	if r := q.Sag() / nominal; math.Abs(r-1) > 1e-3 {
		t.Errorf("sag/nominal = %v, want ≈ 1", r)
	}
}

func TestCurveStaysInsideWedge(t *testing.T) {
	for _, spokes := range []int{3, 4, 5} {
		step := 2 * math.Pi / float64(spokes)
		a, b := geom.Polar(0, 1), geom.Polar(step, 1)
		for _, c := range []float64{0.5, 1, 2, MaxCurvature} {
			q := Modulator{Rings: 1}.Curve(a, b, c, 0)
			if cross2(a, q.P1) <= 0 || cross2(q.P1, b) <= 0 {
				t.Errorf("spokes=%d curvature=%v: control point %v leaves the wedge", spokes, c, q.P1)
			}
			if q.Midpoint().Dot(a.Midpoint(b)) <= 0 {
				t.Errorf("spokes=%d curvature=%v: rib peak %v passes the hub", spokes, c, q.Midpoint())
			}
		}
	}
}

func TestCurveWedgeFollowsCenter(t *testing.T) {
	shift := geom.V(5, -3, 0)
	a, b := geom.V(1, 0, 0), geom.V(0, 1, 0)
	here := Modulator{Rings: 1}.Curve(a, b, MaxCurvature, 0)
	there := Modulator{Rings: 1, Center: shift}.Curve(a.Add(shift), b.Add(shift), MaxCurvature, 0)
	if !there.P1.ApproxEqual(here.P1.Add(shift), 1e-12) {
		t.Errorf("shifted control point = %v, want %v", there.P1, here.P1.Add(shift))
	}
}
