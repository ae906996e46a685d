package sink

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/render"
	"github.com/matzehuels/spiderweb/pkg/web"
)

func testMesh(t *testing.T) *web.Mesh {
	t.Helper()
	m, err := web.Generate(web.Params{Size: 1, Spokes: 6, Ribs: 3, Curvature: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func testDrawing(t *testing.T, it render.Item, s render.Style) render.Drawing {
	t.Helper()
	d, err := render.Project(it, s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func wellFormed(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("malformed SVG: %v\n%s", err, doc)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	m := testMesh(t)
	s := render.DefaultStyle()
	d := testDrawing(t, render.Item{Mesh: m}, s)

	out := RenderSVG(d, s, WithTitle("garden"), WithDescription("f00d"), WithHub())
	wellFormed(t, out)

	doc := string(out)
	if got := strings.Count(doc, "<path"); got != len(m.Edges) {
		t.Errorf("paths = %d, want %d", got, len(m.Edges))
	}
	for _, want := range []string{`viewBox="0 0 800 800"`, "<title>garden</title>", `id="spokes"`, `id="ribs"`, "<circle"} {
		if !strings.Contains(doc, want) {
			t.Errorf("SVG missing %s", want)
		}
	}
	if strings.Contains(doc, `id="tether"`) {
		t.Error("static web rendered a tether group")
	}
	// Curved ribs stay quadratic Béziers.
	if !strings.Contains(doc, " Q") {
		t.Error("no quadratic curve in output")
	}
}

func TestRenderSVGFrame(t *testing.T) {
	m := testMesh(t)
	st := anim.NewShot(anim.ShotParams{Origin: geom.V(-3, 0, 0), TrailLength: 0.5})
	f, err := anim.Step(m, st, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	s := render.DefaultStyle()
	s.TrailColor = "#cc0000"
	out := RenderSVG(testDrawing(t, render.FromFrame(f), s), s)
	wellFormed(t, out)
	if !strings.Contains(string(out), `id="trail"`) || !strings.Contains(string(out), "#cc0000") {
		t.Error("trail not drawn in its color")
	}
}

func TestRenderPNG(t *testing.T) {
	s := render.DefaultStyle()
	s.Width, s.Height = 120, 80
	s.Margin = 10
	d := testDrawing(t, render.Item{Mesh: testMesh(t)}, s)

	data, err := RenderPNG(d, s, WithPNGHub())
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Errorf("size = %v, want 120x80", b)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
		t.Errorf("corner pixel = %d,%d,%d, want background white", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(int(d.Hub.X), int(d.Hub.Y)).RGBA()
	if r>>8 == 0xff && g>>8 == 0xff && b>>8 == 0xff {
		t.Error("hub pixel left blank")
	}

	data, err = RenderPNG(d, s, WithScale(2))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width != 240 || cfg.Height != 160 {
		t.Errorf("scaled size = %dx%d (%v), want 240x160", cfg.Width, cfg.Height, err)
	}
}

func TestRenderPNGRejectsScale(t *testing.T) {
	s := render.DefaultStyle()
	d := testDrawing(t, render.Item{Mesh: testMesh(t)}, s)
	for _, k := range []float64{0, -1, 100} {
		if _, err := RenderPNG(d, s, WithScale(k)); !errors.Is(err, errors.ErrCodeInvalidStyle) {
			t.Errorf("scale %v: %v", k, err)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.HasConverter() {
		t.Skip("rsvg-convert not installed")
	}
	s := render.DefaultStyle()
	data, err := RenderPDF(testDrawing(t, render.Item{Mesh: testMesh(t)}, s), s)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestRenderJSON(t *testing.T) {
	m := testMesh(t)
	data, err := RenderJSON(render.Item{Mesh: m}, WithJSONStrands(4))
	if err != nil {
		t.Fatal(err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Positions) != 3*len(m.Vertices) {
		t.Errorf("positions = %d floats, want %d", len(out.Positions), 3*len(m.Vertices))
	}
	if len(out.Edges) != 2*len(m.Edges) || len(out.Kinds) != len(m.Edges) || len(out.Controls) != 3*len(m.Edges) {
		t.Errorf("edge buffers = %d/%d/%d for %d edges", len(out.Edges), len(out.Kinds), len(out.Controls), len(m.Edges))
	}
	if out.Hub != 0 || out.Spokes != 6 || out.Rings != 3 {
		t.Errorf("header = hub %d spokes %d rings %d", out.Hub, out.Spokes, out.Rings)
	}
	if out.Kinds[0] != KindSpoke || out.Kinds[len(out.Kinds)-1] != KindRib {
		t.Errorf("kinds should list spokes first then ribs: %v", out.Kinds)
	}
	if out.T != nil || out.Tether != nil || out.Trail != nil {
		t.Error("static export carries frame fields")
	}
	if len(out.Strands) != 6+3 {
		t.Errorf("strands = %d, want 9", len(out.Strands))
	}
	for i, e := range m.Edges {
		if out.Edges[2*i] != e.A || out.Edges[2*i+1] != e.B {
			t.Fatalf("edge %d = %d-%d, want %d-%d", i, out.Edges[2*i], out.Edges[2*i+1], e.A, e.B)
		}
	}
}

func TestRenderJSONFrame(t *testing.T) {
	m := testMesh(t)
	st := anim.NewTether(anim.TetherParams{Shooter: geom.V(0, 0, -2), Slack: 0.1})
	f, err := anim.Step(m, st, 1)
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderJSON(render.FromFrame(f), WithJSONFrame(f), WithJSONIndent())
	if err != nil {
		t.Fatal(err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Behavior != "tether" || out.Phase != "anchored" || out.T == nil || *out.T != 1 {
		t.Errorf("frame header = %s %s %v", out.Behavior, out.Phase, out.T)
	}
	if out.Tether == nil || out.Tether.From != [3]float64{0, 0, -2} {
		t.Errorf("tether = %+v", out.Tether)
	}
}

func TestRenderJSONNilMesh(t *testing.T) {
	if _, err := RenderJSON(render.Item{}); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("nil mesh: %v", err)
	}
}
