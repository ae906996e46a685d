package geom

// QuadBez is a quadratic Bézier segment in 3D.
type QuadBez struct {
	P0 Vec3
	P1 Vec3
	P2 Vec3
}

// Line returns the straight segment from a to b as a quadratic with its
// control point at the exact midpoint.
func Line(a, b Vec3) QuadBez {
	return QuadBez{P0: a, P1: a.Midpoint(b), P2: b}
}

// Eval evaluates the curve at parameter t.
//
// The endpoints are returned verbatim at t=0 and t=1.
func (q QuadBez) Eval(t float64) Vec3 {
	switch t {
	case 0:
		return q.P0
	case 1:
		return q.P2
	}
	mt := 1 - t
	a := mt * mt
	b := 2 * mt * t
	c := t * t
	return Vec3{
		X: a*q.P0.X + b*q.P1.X + c*q.P2.X,
		Y: a*q.P0.Y + b*q.P1.Y + c*q.P2.Y,
		Z: a*q.P0.Z + b*q.P1.Z + c*q.P2.Z,
	}
}

// Deriv evaluates the first derivative at parameter t.
func (q QuadBez) Deriv(t float64) Vec3 {
	d0 := q.P1.Sub(q.P0)
	d1 := q.P2.Sub(q.P1)
	return d0.Lerp(d1, t).Mul(2)
}

// Midpoint returns the point on the curve at t=0.5.
func (q QuadBez) Midpoint() Vec3 {
	return q.Eval(0.5)
}

// Sag returns the distance between the curve's midpoint and the chord midpoint.
func (q QuadBez) Sag() float64 {
	return q.Eval(0.5).Distance(q.P0.Midpoint(q.P2))
}

// IsStraight reports whether the control point lies exactly on the chord midpoint.
func (q QuadBez) IsStraight() bool {
	return q.P1 == q.P0.Midpoint(q.P2)
}

// Sample returns n+1 evenly spaced points along the curve, endpoints included.
// n is clamped to at least 1.
func (q QuadBez) Sample(n int) []Vec3 {
	n = max(n, 1)
	pts := make([]Vec3, n+1)
	for i := range n + 1 {
		pts[i] = q.Eval(float64(i) / float64(n))
	}
	return pts
}

// Map applies f to every control point. Affine maps commute with Bézier
// evaluation, so the result is the image of the curve under f.
func (q QuadBez) Map(f func(Vec3) Vec3) QuadBez {
	return QuadBez{P0: f(q.P0), P1: f(q.P1), P2: f(q.P2)}
}
