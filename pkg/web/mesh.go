package web

import (
	"fmt"
	"math"

	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
)

// EdgeKind distinguishes radial threads from the spiral-like ring threads.
type EdgeKind int

const (
	EdgeSpoke EdgeKind = iota
	EdgeRib
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeSpoke:
		return "spoke"
	case EdgeRib:
		return "rib"
	}
	return fmt.Sprintf("EdgeKind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k EdgeKind) MarshalText() ([]byte, error) {
	switch k {
	case EdgeSpoke, EdgeRib:
		return []byte(k.String()), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown edge kind %d", int(k))
}

// UnmarshalText decodes a kind name.
func (k *EdgeKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "spoke":
		*k = EdgeSpoke
	case "rib":
		*k = EdgeRib
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown edge kind %q", b)
	}
	return nil
}

// Vertex is a point of the web. The hub has Ring and Spoke set to -1.
type Vertex struct {
	Pos   geom.Vec3 `json:"pos"`
	Ring  int       `json:"ring"`
	Spoke int       `json:"spoke"`
}

// Edge joins two vertices by index.
//
// Spoke edges lead outward (A is nearer the hub); Ring is the ring of B.
// Rib edges join spoke Spoke to spoke Spoke+1 (mod Spokes) on ring Ring.
type Edge struct {
	A     int          `json:"a"`
	B     int          `json:"b"`
	Kind  EdgeKind     `json:"kind"`
	Ring  int          `json:"ring"`
	Spoke int          `json:"spoke"`
	Curve geom.QuadBez `json:"curve"`
}

// Mesh is a synthesized web: a connected radial graph of spoke and rib
// threads. Ring vertices are stored ring-major after the optional hub.
type Mesh struct {
	Vertices []Vertex  `json:"vertices"`
	Edges    []Edge    `json:"edges"`
	Hub      int       `json:"hub"`    // index of the hub vertex, -1 when open
	Center   geom.Vec3 `json:"center"` // point the spokes radiate from
	Spokes   int       `json:"spokes"`
	Rings    int       `json:"rings"`
	Params   Params    `json:"params"`
}

// HasHub reports whether the mesh has a hub vertex.
func (m *Mesh) HasHub() bool { return m.Hub >= 0 }

// Index returns the vertex index of the given ring and spoke.
func (m *Mesh) Index(ring, spoke int) int {
	base := 0
	if m.HasHub() {
		base = 1
	}
	return base + ring*m.Spokes + spoke
}

// Ring returns the vertex indices of one ring in spoke order.
func (m *Mesh) Ring(ring int) []int {
	idx := make([]int, m.Spokes)
	for i := range idx {
		idx[i] = m.Index(ring, i)
	}
	return idx
}

// Reference returns the point that represents the web as a whole: the hub
// vertex, or the center the spokes radiate from when the hub is open.
func (m *Mesh) Reference() geom.Vec3 {
	if m.HasHub() {
		return m.Vertices[m.Hub].Pos
	}
	return m.Center
}

// Counts returns the number of spoke and rib edges.
func (m *Mesh) Counts() (spokes, ribs int) {
	for _, e := range m.Edges {
		if e.Kind == EdgeSpoke {
			spokes++
		} else {
			ribs++
		}
	}
	return spokes, ribs
}

// Bounds returns the axis-aligned bounding box of vertices and curve
// control points.
func (m *Mesh) Bounds() (lo, hi geom.Vec3) {
	inf := math.Inf(1)
	lo = geom.V(inf, inf, inf)
	hi = lo.Neg()
	grow := func(p geom.Vec3) {
		lo = geom.V(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
		hi = geom.V(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
	}
	for _, v := range m.Vertices {
		grow(v.Pos)
	}
	for _, e := range m.Edges {
		grow(e.Curve.P1)
	}
	if len(m.Vertices) == 0 {
		return geom.Zero, geom.Zero
	}
	return lo, hi
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Vertices = append([]Vertex(nil), m.Vertices...)
	c.Edges = append([]Edge(nil), m.Edges...)
	return &c
}

// Transform returns a copy of m with f applied to every vertex and curve
// control point. f must be affine for the curves to stay exact.
func (m *Mesh) Transform(f func(geom.Vec3) geom.Vec3) *Mesh {
	c := m.Clone()
	c.Center = f(c.Center)
	for i := range c.Vertices {
		c.Vertices[i].Pos = f(c.Vertices[i].Pos)
	}
	for i := range c.Edges {
		c.Edges[i].Curve = c.Edges[i].Curve.Map(f)
	}
	return c
}

// Equal reports whether m and o have the same topology and every position
// agrees within tol.
func (m *Mesh) Equal(o *Mesh, tol float64) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Hub != o.Hub || m.Spokes != o.Spokes || m.Rings != o.Rings ||
		len(m.Vertices) != len(o.Vertices) || len(m.Edges) != len(o.Edges) ||
		!m.Center.ApproxEqual(o.Center, tol) {
		return false
	}
	for i, v := range m.Vertices {
		w := o.Vertices[i]
		if v.Ring != w.Ring || v.Spoke != w.Spoke || !v.Pos.ApproxEqual(w.Pos, tol) {
			return false
		}
	}
	for i, e := range m.Edges {
		f := o.Edges[i]
		if e.A != f.A || e.B != f.B || e.Kind != f.Kind || e.Ring != f.Ring || e.Spoke != f.Spoke {
			return false
		}
		if !e.Curve.P0.ApproxEqual(f.Curve.P0, tol) ||
			!e.Curve.P1.ApproxEqual(f.Curve.P1, tol) ||
			!e.Curve.P2.ApproxEqual(f.Curve.P2, tol) {
			return false
		}
	}
	return true
}

// Check verifies the structural invariants of a synthesized mesh: ring
// sizes, edge endpoints, connectivity and non-crossing ribs. It returns an
// INTERNAL error describing the first violation.
func (m *Mesh) Check() error {
	hub := 0
	if m.HasHub() {
		hub = 1
		if m.Hub != 0 {
			return errors.New(errors.ErrCodeInternal, "hub at index %d, want 0", m.Hub)
		}
	}
	if want := hub + m.Spokes*m.Rings; len(m.Vertices) != want {
		return errors.New(errors.ErrCodeInternal, "%d vertices, want %d", len(m.Vertices), want)
	}

	perRing := make([]int, m.Rings)
	for i, v := range m.Vertices {
		if v.Ring < 0 {
			if i != m.Hub {
				return errors.New(errors.ErrCodeInternal, "stray hub vertex %d", i)
			}
			continue
		}
		if v.Ring >= m.Rings {
			return errors.New(errors.ErrCodeInternal, "vertex %d on ring %d of %d", i, v.Ring, m.Rings)
		}
		perRing[v.Ring]++
	}
	for j, n := range perRing {
		if n != m.Spokes {
			return errors.New(errors.ErrCodeInternal, "ring %d has %d vertices, want %d", j, n, m.Spokes)
		}
	}

	uf := newUnionFind(len(m.Vertices))
	for i, e := range m.Edges {
		if e.A < 0 || e.A >= len(m.Vertices) || e.B < 0 || e.B >= len(m.Vertices) || e.A == e.B {
			return errors.New(errors.ErrCodeInternal, "edge %d has invalid endpoints (%d, %d)", i, e.A, e.B)
		}
		if e.Curve.P0 != m.Vertices[e.A].Pos || e.Curve.P2 != m.Vertices[e.B].Pos {
			return errors.New(errors.ErrCodeInternal, "edge %d curve detached from its vertices", i)
		}
		uf.union(e.A, e.B)
	}
	if uf.sets != 1 {
		return errors.New(errors.ErrCodeInternal, "mesh has %d components", uf.sets)
	}

	for j := range m.Rings {
		if err := checkWinding(m, j); err != nil {
			return err
		}
	}
	return nil
}

// checkWinding verifies that a ring turns exactly once around the web
// center with every step in the same direction and that every rib path
// stays inside the wedge of its two spokes, so no two of its ribs cross.
func checkWinding(m *Mesh, ring int) error {
	idx := m.Ring(ring)
	pts := make([]geom.Vec3, len(idx))
	for i, k := range idx {
		pts[i] = m.Vertices[k].Pos.Sub(m.Center)
	}

	var normal geom.Vec3
	for i := range pts {
		normal = normal.Add(pts[i].Cross(pts[(i+1)%len(pts)]))
	}
	normal = normal.Normalize()
	if normal == geom.Zero {
		return errors.New(errors.ErrCodeInternal, "ring %d is degenerate", ring)
	}
	flat := func(p geom.Vec3) geom.Vec3 { return p.Sub(normal.Mul(p.Dot(normal))) }

	total := 0.0
	for i := range pts {
		a, b := flat(pts[i]), flat(pts[(i+1)%len(pts)])
		cr := a.Cross(b)
		if cr.Dot(normal) <= 0 {
			return errors.New(errors.ErrCodeInternal, "ring %d folds back at spoke %d", ring, i)
		}
		total += math.Atan2(cr.Len(), a.Dot(b))
	}
	if math.Abs(total-2*math.Pi) > 1e-6 {
		return errors.New(errors.ErrCodeInternal, "ring %d winds %.3f turns", ring, total/(2*math.Pi))
	}

	// Each rib must stay between the spokes it joins.
	for _, e := range m.Edges {
		if e.Kind != EdgeRib || e.Ring != ring {
			continue
		}
		a, b := flat(e.Curve.P0.Sub(m.Center)), flat(e.Curve.P2.Sub(m.Center))
		tol := 1e-9 * a.Len() * b.Len()
		for _, q := range e.Curve.Sample(ribSamples) {
			p := flat(q.Sub(m.Center))
			if a.Cross(p).Dot(normal) < -tol || p.Cross(b).Dot(normal) < -tol {
				return errors.New(errors.ErrCodeInternal, "ring %d rib %d crosses a spoke", ring, e.Spoke)
			}
		}
	}
	return nil
}

// ribSamples is the number of segments Check walks along each rib.
const ribSamples = 16

// Strands returns the web as polylines: one per spoke running from the hub
// (or innermost ring) to the rim, and one closed loop per ring. Every edge is
// sampled with resolution segments.
func (m *Mesh) Strands(resolution int) [][]geom.Vec3 {
	resolution = max(resolution, 1)
	spokes := make([][]geom.Vec3, m.Spokes)
	rings := make([][]geom.Vec3, m.Rings)

	appendCurve := func(line []geom.Vec3, q geom.QuadBez) []geom.Vec3 {
		pts := q.Sample(resolution)
		if len(line) > 0 {
			pts = pts[1:]
		}
		return append(line, pts...)
	}
	for _, e := range m.Edges {
		switch e.Kind {
		case EdgeSpoke:
			spokes[e.Spoke] = appendCurve(spokes[e.Spoke], e.Curve)
		case EdgeRib:
			rings[e.Ring] = appendCurve(rings[e.Ring], e.Curve)
		}
	}

	out := make([][]geom.Vec3, 0, m.Spokes+m.Rings)
	for _, s := range spokes {
		if len(s) == 0 {
			continue
		}
		out = append(out, s)
	}
	for _, r := range rings {
		if len(r) == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

type unionFind struct {
	parent []int
	sets   int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p, sets: n}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
		u.sets--
	}
}
