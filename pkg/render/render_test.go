package render

import (
	"math"
	"testing"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/web"
)

func flatWeb(t *testing.T) *web.Mesh {
	t.Helper()
	m, err := web.Generate(web.Params{Size: 1, Spokes: 8, Ribs: 3})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestStyleValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Style)
		ok     bool
	}{
		{"default", func(*Style) {}, true},
		{"short hex", func(s *Style) { s.Color = "#abc" }, true},
		{"empty view", func(s *Style) { s.View = "" }, true},
		{"tiny canvas", func(s *Style) { s.Width = 8 }, false},
		{"huge canvas", func(s *Style) { s.Height = 10000 }, false},
		{"nan width", func(s *Style) { s.Width = math.NaN() }, false},
		{"margin too wide", func(s *Style) { s.Margin = 400 }, false},
		{"zero stroke", func(s *Style) { s.Stroke = 0 }, false},
		{"named color", func(s *Style) { s.Color = "red" }, false},
		{"bad trail color", func(s *Style) { s.TrailColor = "#12345" }, false},
		{"unknown view", func(s *Style) { s.View = "fisheye" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultStyle()
			tt.modify(&s)
			err := s.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidStyle) {
				t.Errorf("code = %s, want INVALID_STYLE", errors.GetCode(err))
			}
		})
	}
}

func TestProjectFitsCanvas(t *testing.T) {
	m := flatWeb(t)
	s := DefaultStyle()
	d, err := Project(Item{Mesh: m}, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Curves) != len(m.Edges) {
		t.Fatalf("curves = %d, want %d", len(d.Curves), len(m.Edges))
	}
	if math.Abs(d.Scale-360) > 1e-9 {
		t.Errorf("scale = %v, want 360", d.Scale)
	}
	if math.Abs(d.Hub.X-400) > 1e-6 || math.Abs(d.Hub.Y-400) > 1e-6 {
		t.Errorf("hub = %v, want canvas center", d.Hub)
	}
	const eps = 1e-9
	for i, c := range d.Curves {
		for _, p := range []Point{c.P0, c.P1, c.P2} {
			if p.X < s.Margin-eps || p.X > s.Width-s.Margin+eps || p.Y < s.Margin-eps || p.Y > s.Height-s.Margin+eps {
				t.Errorf("curve %d point %v outside margins", i, p)
			}
		}
	}
}

func TestProjectFrameWidensFit(t *testing.T) {
	m := flatWeb(t)
	it := Item{Mesh: m, Frame: []geom.Vec3{geom.V(-2, -2, 0), geom.V(2, 2, 0)}}
	d, err := Project(it, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d.Scale-180) > 1e-9 {
		t.Errorf("scale = %v, want 180", d.Scale)
	}
	if len(d.Curves) != len(m.Edges) || len(d.Trail) != 0 {
		t.Errorf("frame points must not be drawn: %d curves, %d trail points", len(d.Curves), len(d.Trail))
	}
}

func TestProjectKeepsEdgeKinds(t *testing.T) {
	m := flatWeb(t)
	d, _ := Project(Item{Mesh: m}, DefaultStyle())
	spokes, ribs := m.Counts()
	var gotSpokes, gotRibs int
	for _, c := range d.Curves {
		switch c.Kind {
		case CurveSpoke:
			gotSpokes++
			if !c.Straight {
				t.Error("spoke projected as a curve")
			}
		case CurveRib:
			gotRibs++
		}
	}
	if gotSpokes != spokes || gotRibs != ribs {
		t.Errorf("kinds = %d spokes %d ribs, want %d %d", gotSpokes, gotRibs, spokes, ribs)
	}
}

func TestProjectUpIsUp(t *testing.T) {
	m := flatWeb(t)
	d, _ := Project(Item{Mesh: m}, DefaultStyle())
	// Spoke 2 points along +Y; its outer end must be above the hub on screen.
	outer := m.Vertices[m.Index(m.Rings-1, 2)].Pos
	if outer.Y <= 0 {
		t.Fatalf("spoke 2 does not point up: %v", outer)
	}
	found := false
	for _, c := range d.Curves {
		if c.Kind == CurveSpoke && c.P2.Y < d.Hub.Y-100 && math.Abs(c.P2.X-d.Hub.X) < 1e-6 {
			found = true
		}
	}
	if !found {
		t.Error("no spoke drawn straight up from the hub")
	}
}

func TestProjectFrameExtras(t *testing.T) {
	m := flatWeb(t)
	st := anim.NewTether(anim.TetherParams{Shooter: geom.V(0, -3, 0), Anchor: geom.Zero, Slack: 0.1})
	f, err := anim.Step(m, st, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	d, err := Project(FromFrame(f), DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	last := d.Curves[len(d.Curves)-1]
	if last.Kind != CurveTether {
		t.Errorf("last curve kind = %s, want tether", last.Kind)
	}

	shot := anim.NewShot(anim.ShotParams{Origin: geom.V(-4, 0, 0), TrailLength: 0.3, TrailSamples: 4})
	f, _ = anim.Step(m, shot, 0.6)
	d, _ = Project(FromFrame(f), DefaultStyle())
	if len(d.Trail) != 5 {
		t.Errorf("trail points = %d, want 5", len(d.Trail))
	}
}

func TestProjectDegenerateSpan(t *testing.T) {
	d, err := Project(Item{Mesh: flatWeb(t)}, Style{
		Width: 200, Height: 100, Stroke: 1, Color: "#000", Background: "#fff", View: ViewFront,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range d.Curves {
		if math.Abs(c.P0.Y-50) > 1e-9 {
			t.Fatalf("flat web in front view not on the center line: %v", c.P0)
		}
	}
	if math.Abs(d.Scale-100) > 1e-9 {
		t.Errorf("scale = %v, want 100", d.Scale)
	}
}

func TestProjectRejects(t *testing.T) {
	if _, err := Project(Item{}, DefaultStyle()); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("nil mesh: %v", err)
	}
	bad := DefaultStyle()
	bad.Stroke = -1
	if _, err := Project(Item{Mesh: flatWeb(t)}, bad); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("bad style: %v", err)
	}
}
