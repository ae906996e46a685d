package sink

import (
	"encoding/json"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/render"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	frame      *anim.Frame
	resolution int
	indent     bool
}

// WithJSONFrame records the behavior, phase and time of the frame the item
// came from.
func WithJSONFrame(f anim.Frame) JSONOption {
	return func(r *jsonRenderer) { r.frame = &f }
}

// WithJSONStrands adds every strand sampled as a polyline with resolution
// segments per edge, for hosts that cannot evaluate Bézier curves.
func WithJSONStrands(resolution int) JSONOption {
	return func(r *jsonRenderer) { r.resolution = resolution }
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// Edge kind codes in the kinds buffer.
const (
	KindSpoke = 0
	KindRib   = 1
)

type jsonOutput struct {
	Behavior  string      `json:"behavior,omitempty"`
	Phase     string      `json:"phase,omitempty"`
	T         *float64    `json:"t,omitempty"`
	Spokes    int         `json:"spokes"`
	Rings     int         `json:"rings"`
	Hub       int         `json:"hub"`
	Reference [3]float64  `json:"reference"`
	Positions []float64   `json:"positions"`
	Edges     []int       `json:"edges"`
	Kinds     []int       `json:"kinds"`
	Controls  []float64   `json:"controls"`
	Tether    *jsonStrand `json:"tether,omitempty"`
	Trail     []float64   `json:"trail,omitempty"`
	Strands   [][]float64 `json:"strands,omitempty"`
}

type jsonStrand struct {
	From    [3]float64 `json:"from"`
	Control [3]float64 `json:"control"`
	To      [3]float64 `json:"to"`
	Sag     float64    `json:"sag"`
}

// RenderJSON serializes it as flat buffers: three floats per vertex in
// positions, two vertex indices per edge in edges, one kind code per edge
// and three floats per edge in controls holding the Bézier control point.
// Hub is -1 for open-hub webs.
func RenderJSON(it render.Item, opts ...JSONOption) ([]byte, error) {
	if it.Mesh == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "nothing to export: nil mesh")
	}
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	m := it.Mesh
	out := jsonOutput{
		Spokes:    m.Spokes,
		Rings:     m.Rings,
		Hub:       m.Hub,
		Reference: arr(m.Reference()),
		Positions: make([]float64, 0, 3*len(m.Vertices)),
		Edges:     make([]int, 0, 2*len(m.Edges)),
		Kinds:     make([]int, 0, len(m.Edges)),
		Controls:  make([]float64, 0, 3*len(m.Edges)),
	}
	if r.frame != nil {
		t := r.frame.T
		out.Behavior = r.frame.Behavior.String()
		out.Phase = r.frame.Phase.String()
		out.T = &t
		out.Reference = arr(r.frame.Reference)
	}
	for _, v := range m.Vertices {
		out.Positions = append(out.Positions, v.Pos.X, v.Pos.Y, v.Pos.Z)
	}
	for _, e := range m.Edges {
		out.Edges = append(out.Edges, e.A, e.B)
		kind := KindRib
		if e.Kind == web.EdgeSpoke {
			kind = KindSpoke
		}
		out.Kinds = append(out.Kinds, kind)
		out.Controls = append(out.Controls, e.Curve.P1.X, e.Curve.P1.Y, e.Curve.P1.Z)
	}
	if s := it.Tether; s != nil {
		out.Tether = &jsonStrand{
			From:    arr(s.From),
			Control: arr(s.Curve.P1),
			To:      arr(s.To),
			Sag:     s.Sag,
		}
	}
	for _, p := range it.Trail {
		out.Trail = append(out.Trail, p.X, p.Y, p.Z)
	}
	if r.resolution > 0 {
		for _, strand := range m.Strands(r.resolution) {
			flat := make([]float64, 0, 3*len(strand))
			for _, p := range strand {
				flat = append(flat, p.X, p.Y, p.Z)
			}
			out.Strands = append(out.Strands, flat)
		}
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

func arr(v geom.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
