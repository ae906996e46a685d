package cli

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/spiderweb/pkg/web"
)

func TestRingStats(t *testing.T) {
	m, err := web.Generate(web.Params{Size: 2, Spokes: 6, Ribs: 4})
	if err != nil {
		t.Fatal(err)
	}
	stats := ringStats(m)
	if len(stats) != 4 {
		t.Fatalf("got %d rings, want 4", len(stats))
	}

	const eps = 1e-9
	for i, s := range stats {
		if s.Ring != i {
			t.Errorf("ring %d labelled %d", i, s.Ring)
		}
		if s.MaxRadius-s.MinRadius > eps {
			t.Errorf("ring %d of a circular web spans radii %v..%v", i, s.MinRadius, s.MaxRadius)
		}
		if s.MeanSag > eps {
			t.Errorf("ring %d of a flat web sags %v", i, s.MeanSag)
		}
		// Straight ribs form a regular hexagon whose side equals its radius.
		if want := 6 * s.MaxRadius; math.Abs(s.Length-want) > 1e-6 {
			t.Errorf("ring %d length = %v, want %v", i, s.Length, want)
		}
		if i > 0 && s.MinRadius <= stats[i-1].MaxRadius {
			t.Errorf("ring %d is not outside ring %d", i, i-1)
		}
	}
	if math.Abs(stats[3].MaxRadius-2) > eps {
		t.Errorf("outer ring radius = %v, want 2", stats[3].MaxRadius)
	}
}

func TestRingStatsCurvature(t *testing.T) {
	m, err := web.Generate(web.Params{Size: 1, Spokes: 6, Ribs: 3, Curvature: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range ringStats(m) {
		if s.MeanSag <= 0 {
			t.Errorf("ring %d of a curved web has no sag", s.Ring)
		}
	}
}

func TestRingTable(t *testing.T) {
	out := ringTable([]ringStat{{Ring: 0, MinRadius: 0.25, MaxRadius: 0.3, MeanSag: 0.01, Length: 1.5}})
	for _, want := range []string{"Ring", "Sag", "0.250", "0.300", "0.0100", "1.500"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
