package render

import (
	"math"
	"regexp"

	"github.com/matzehuels/spiderweb/pkg/errors"
)

// View selects the orthographic projection used to flatten a web.
type View string

const (
	// ViewTop looks down the Z axis, the natural view of a flat web.
	ViewTop View = "top"
	// ViewFront looks along +Y, showing the web's height profile.
	ViewFront View = "front"
	// ViewIso is an isometric view.
	ViewIso View = "iso"
)

// Views lists the supported projections.
var Views = []View{ViewTop, ViewFront, ViewIso}

// Canvas bounds.
const (
	MinCanvas = 16
	MaxCanvas = 8192
)

// Style describes the canvas and stroke of a rendering.
type Style struct {
	Width      float64
	Height     float64
	Margin     float64
	Stroke     float64
	Color      string
	Background string
	View       View
	// TrailColor and TetherColor default to Color.
	TrailColor  string
	TetherColor string
}

// DefaultStyle returns an 800x800 dark-on-white top view.
func DefaultStyle() Style {
	return Style{
		Width:      800,
		Height:     800,
		Margin:     40,
		Stroke:     1.5,
		Color:      "#333333",
		Background: "#ffffff",
		View:       ViewTop,
	}
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate reports the first problem with s as an INVALID_STYLE error.
// Empty View, TrailColor and TetherColor are accepted.
func (s Style) Validate() error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", s.Width}, {"height", s.Height}} {
		if math.IsNaN(d.v) || d.v < MinCanvas || d.v > MaxCanvas {
			return errors.New(errors.ErrCodeInvalidStyle, "%s must be in [%d, %d], got %g", d.name, MinCanvas, MaxCanvas, d.v)
		}
	}
	if !(s.Margin >= 0) || 2*s.Margin >= min(s.Width, s.Height) {
		return errors.New(errors.ErrCodeInvalidStyle, "margin %g does not fit a %gx%g canvas", s.Margin, s.Width, s.Height)
	}
	if !(s.Stroke > 0) || math.IsInf(s.Stroke, 0) {
		return errors.New(errors.ErrCodeInvalidStyle, "stroke must be positive, got %g", s.Stroke)
	}
	for _, c := range []struct{ name, v string }{
		{"color", s.Color}, {"background", s.Background},
	} {
		if !hexColor.MatchString(c.v) {
			return errors.New(errors.ErrCodeInvalidStyle, "%s must be a hex color like #336699, got %q", c.name, c.v)
		}
	}
	for _, c := range []struct{ name, v string }{
		{"trail color", s.TrailColor}, {"tether color", s.TetherColor},
	} {
		if c.v != "" && !hexColor.MatchString(c.v) {
			return errors.New(errors.ErrCodeInvalidStyle, "%s must be a hex color, got %q", c.name, c.v)
		}
	}
	switch s.View {
	case "", ViewTop, ViewFront, ViewIso:
	default:
		return errors.New(errors.ErrCodeInvalidStyle, "unknown view %q", s.View)
	}
	return nil
}

// Trail returns the trail stroke color.
func (s Style) Trail() string {
	if s.TrailColor != "" {
		return s.TrailColor
	}
	return s.Color
}

// Tether returns the tether stroke color.
func (s Style) Tether() string {
	if s.TetherColor != "" {
		return s.TetherColor
	}
	return s.Color
}
