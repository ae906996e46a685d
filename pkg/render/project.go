package render

import (
	"math"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// Item is what gets drawn: a mesh plus the optional extras of an animation
// frame.
type Item struct {
	Mesh   *web.Mesh
	Tether *anim.Strand
	Trail  []geom.Vec3
	// Frame lists extra points the canvas must include. They are not drawn;
	// a fixed Frame keeps the camera still across animation snapshots.
	Frame []geom.Vec3
}

// FromFrame returns the drawable parts of an animation frame.
func FromFrame(f anim.Frame) Item {
	return Item{Mesh: f.Mesh, Tether: f.Tether, Trail: f.Trail}
}

// Point is a canvas position in pixels, y pointing down.
type Point struct {
	X, Y float64
}

// CurveKind tells sinks how to style a curve.
type CurveKind string

const (
	CurveSpoke  CurveKind = "spoke"
	CurveRib    CurveKind = "rib"
	CurveTether CurveKind = "tether"
)

// Curve is a projected quadratic Bézier.
type Curve struct {
	P0, P1, P2 Point
	Kind       CurveKind
	// Straight curves can be drawn as plain line segments.
	Straight bool
}

// Drawing is a web flattened onto a canvas.
type Drawing struct {
	Width, Height float64
	// Scale is the number of pixels per world unit.
	Scale  float64
	Curves []Curve
	Trail  []Point
	Hub    Point
	HasHub bool
}

// Project flattens it onto the canvas described by s, scaling uniformly so
// the whole item fits inside the margins.
func Project(it Item, s Style) (Drawing, error) {
	if it.Mesh == nil {
		return Drawing{}, errors.New(errors.ErrCodeInvalidParameter, "nothing to draw: nil mesh")
	}
	if err := s.Validate(); err != nil {
		return Drawing{}, err
	}
	view := s.View
	if view == "" {
		view = ViewTop
	}

	type curve3 struct {
		q        geom.QuadBez
		kind     CurveKind
		straight bool
	}
	curves := make([]curve3, 0, len(it.Mesh.Edges)+1)
	for _, e := range it.Mesh.Edges {
		kind := CurveRib
		if e.Kind == web.EdgeSpoke {
			kind = CurveSpoke
		}
		curves = append(curves, curve3{e.Curve, kind, e.Curve.IsStraight()})
	}
	if it.Tether != nil {
		curves = append(curves, curve3{it.Tether.Curve, CurveTether, it.Tether.Curve.IsStraight()})
	}

	fit := newFitter(view)
	for _, c := range curves {
		fit.add(c.q.P0, c.q.P1, c.q.P2)
	}
	for _, v := range it.Mesh.Vertices {
		fit.add(v.Pos)
	}
	fit.add(it.Trail...)
	fit.add(it.Frame...)
	fit.solve(s)

	d := Drawing{
		Width:  s.Width,
		Height: s.Height,
		Scale:  fit.scale,
		Curves: make([]Curve, len(curves)),
		HasHub: it.Mesh.HasHub(),
	}
	for i, c := range curves {
		d.Curves[i] = Curve{
			P0:       fit.point(c.q.P0),
			P1:       fit.point(c.q.P1),
			P2:       fit.point(c.q.P2),
			Kind:     c.kind,
			Straight: c.straight,
		}
	}
	if len(it.Trail) > 0 {
		d.Trail = make([]Point, len(it.Trail))
		for i, p := range it.Trail {
			d.Trail[i] = fit.point(p)
		}
	}
	d.Hub = fit.point(it.Mesh.Reference())
	return d, nil
}

// Flatten applies the orthographic projection of v, unscaled. Y grows
// downward, so world up maps to smaller Y.
func (v View) Flatten(p geom.Vec3) Point {
	switch v {
	case ViewFront:
		return Point{p.X, -p.Z}
	case ViewIso:
		c, s := math.Cos(math.Pi/6), math.Sin(math.Pi/6)
		return Point{c * (p.X - p.Y), s*(p.X+p.Y) - p.Z}
	default:
		return Point{p.X, -p.Y}
	}
}

type fitter struct {
	view   View
	lo, hi Point
	empty  bool
	scale  float64
	cx, cy float64
	ox, oy float64
}

func newFitter(v View) *fitter {
	return &fitter{view: v, empty: true, scale: 1}
}

func (f *fitter) add(pts ...geom.Vec3) {
	for _, p := range pts {
		q := f.view.Flatten(p)
		if f.empty {
			f.lo, f.hi, f.empty = q, q, false
			continue
		}
		f.lo = Point{min(f.lo.X, q.X), min(f.lo.Y, q.Y)}
		f.hi = Point{max(f.hi.X, q.X), max(f.hi.Y, q.Y)}
	}
}

func (f *fitter) solve(s Style) {
	w, h := f.hi.X-f.lo.X, f.hi.Y-f.lo.Y
	aw, ah := s.Width-2*s.Margin, s.Height-2*s.Margin
	switch {
	case w > 0 && h > 0:
		f.scale = min(aw/w, ah/h)
	case w > 0:
		f.scale = aw / w
	case h > 0:
		f.scale = ah / h
	}
	f.cx, f.cy = (f.lo.X+f.hi.X)/2, (f.lo.Y+f.hi.Y)/2
	f.ox, f.oy = s.Width/2, s.Height/2
}

func (f *fitter) point(p geom.Vec3) Point {
	q := f.view.Flatten(p)
	return Point{f.ox + (q.X-f.cx)*f.scale, f.oy + (q.Y-f.cy)*f.scale}
}
