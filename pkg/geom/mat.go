package geom

import "math"

// Mat3 is a row-major 3×3 matrix, used for rotations.
type Mat3 [3][3]float64

// Identity returns the identity matrix.
func Identity() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Apply returns m·v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns the product m·o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := range 3 {
		for j := range 3 {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return r
}

// AxisAngle returns the rotation of angle radians about the unit axis.
func AxisAngle(axis Vec3, angle float64) Mat3 {
	a := axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	return Mat3{
		{t*a.X*a.X + c, t*a.X*a.Y - s*a.Z, t*a.X*a.Z + s*a.Y},
		{t*a.X*a.Y + s*a.Z, t*a.Y*a.Y + c, t*a.Y*a.Z - s*a.X},
		{t*a.X*a.Z - s*a.Y, t*a.Y*a.Z + s*a.X, t*a.Z*a.Z + c},
	}
}

// RotateTo returns the shortest rotation taking direction from onto direction to.
// Zero-length inputs yield the identity.
func RotateTo(from, to Vec3) Mat3 {
	f, t := from.Normalize(), to.Normalize()
	if f == (Vec3{}) || t == (Vec3{}) {
		return Identity()
	}
	d := f.Dot(t)
	if d >= 1-1e-12 {
		return Identity()
	}
	if d <= -1+1e-12 {
		// Antiparallel: any axis orthogonal to f works.
		axis := f.Cross(UnitX)
		if axis.Len() < 1e-9 {
			axis = f.Cross(UnitY)
		}
		return AxisAngle(axis, math.Pi)
	}
	return AxisAngle(f.Cross(t), math.Acos(d))
}

// Basis returns the rotation mapping the local +Z axis onto normal, keeping
// the local +Y axis as close to up as possible. It is used to aim a web that
// was built in the XY plane.
func Basis(normal, up Vec3) Mat3 {
	z := normal.Normalize()
	if z == (Vec3{}) {
		return Identity()
	}
	x := up.Cross(z).Normalize()
	if x == (Vec3{}) {
		x = UnitY.Cross(z).Normalize()
		if x == (Vec3{}) {
			x = UnitX.Cross(z).Normalize()
		}
	}
	y := z.Cross(x)
	// Columns are the images of the local axes.
	return Mat3{
		{x.X, y.X, z.X},
		{x.Y, y.Y, z.Y},
		{x.Z, y.Z, z.Z},
	}
}
