package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/web"
)

type vec [3]float64

func toVec(v geom.Vec3) vec   { return vec{v.X, v.Y, v.Z} }
func (v vec) geom() geom.Vec3 { return geom.V(v[0], v[1], v[2]) }

type mesh struct {
	Params   web.Params `json:"params"`
	Hub      int        `json:"hub"`
	Center   vec        `json:"center"`
	Spokes   int        `json:"spokes"`
	Rings    int        `json:"rings"`
	Vertices []vertex   `json:"vertices"`
	Edges    []edge     `json:"edges"`
}

type vertex struct {
	Pos   vec `json:"pos"`
	Ring  int `json:"ring"`
	Spoke int `json:"spoke"`
}

type edge struct {
	A       int          `json:"a"`
	B       int          `json:"b"`
	Kind    web.EdgeKind `json:"kind"`
	Ring    int          `json:"ring"`
	Spoke   int          `json:"spoke"`
	Control vec          `json:"control"`
}

// WriteMesh encodes m as JSON and writes it to w.
//
// Curves are stored by their control point only; the endpoints are the
// vertices the edge joins. The output can be re-imported with [ReadMesh].
func WriteMesh(m *web.Mesh, w io.Writer) error {
	out := mesh{
		Params:   m.Params,
		Hub:      m.Hub,
		Center:   toVec(m.Center),
		Spokes:   m.Spokes,
		Rings:    m.Rings,
		Vertices: make([]vertex, len(m.Vertices)),
		Edges:    make([]edge, len(m.Edges)),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = vertex{Pos: toVec(v.Pos), Ring: v.Ring, Spoke: v.Spoke}
	}
	for i, e := range m.Edges {
		out.Edges[i] = edge{A: e.A, B: e.B, Kind: e.Kind, Ring: e.Ring, Spoke: e.Spoke, Control: toVec(e.Curve.P1)}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportMesh writes m to a JSON file at path.
// This is a convenience wrapper around [WriteMesh] for file-based output.
func ExportMesh(m *web.Mesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteMesh(m, f)
}
