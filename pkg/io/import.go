package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// ReadMesh decodes a JSON mesh from r.
//
// Edge curves are rebuilt from their vertices and stored control point, and
// the result must pass [web.Mesh.Check]. Malformed input yields an
// INVALID_FORMAT error naming the offending element. ReadMesh does not
// close r.
func ReadMesh(r io.Reader) (*web.Mesh, error) {
	var data mesh
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode mesh")
	}

	m := &web.Mesh{
		Params:   data.Params,
		Hub:      data.Hub,
		Center:   data.Center.geom(),
		Spokes:   data.Spokes,
		Rings:    data.Rings,
		Vertices: make([]web.Vertex, len(data.Vertices)),
		Edges:    make([]web.Edge, len(data.Edges)),
	}
	for i, v := range data.Vertices {
		m.Vertices[i] = web.Vertex{Pos: v.Pos.geom(), Ring: v.Ring, Spoke: v.Spoke}
	}
	for i, e := range data.Edges {
		if e.A < 0 || e.A >= len(m.Vertices) || e.B < 0 || e.B >= len(m.Vertices) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %d: vertex index out of range (%d, %d)", i, e.A, e.B)
		}
		m.Edges[i] = web.Edge{
			A:     e.A,
			B:     e.B,
			Kind:  e.Kind,
			Ring:  e.Ring,
			Spoke: e.Spoke,
			Curve: geom.QuadBez{P0: m.Vertices[e.A].Pos, P1: e.Control.geom(), P2: m.Vertices[e.B].Pos},
		}
	}
	if err := m.Check(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid mesh")
	}
	return m, nil
}

// ImportMesh reads a JSON mesh file at path.
func ImportMesh(path string) (*web.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadMesh(f)
}
