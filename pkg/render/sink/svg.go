package sink

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/spiderweb/pkg/render"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title   string
	desc    string
	showHub bool
}

// WithTitle sets the document title.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithDescription adds a <desc> element, typically the parameter fingerprint.
func WithDescription(d string) SVGOption { return func(r *svgRenderer) { r.desc = d } }

// WithHub marks the hub (or open center) with a dot.
func WithHub() SVGOption { return func(r *svgRenderer) { r.showHub = true } }

// RenderSVG draws d as a standalone SVG document.
func RenderSVG(d render.Drawing, s render.Style, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	w, h := int(math.Round(d.Width)), int(math.Round(d.Height))
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(w, h, 0, 0, w, h)
	if r.title != "" {
		canvas.Title(r.title)
	}
	if r.desc != "" {
		canvas.Desc(r.desc)
	}
	canvas.Rect(0, 0, w, h, "fill:"+s.Background)

	canvas.Gstyle(fmt.Sprintf("fill:none;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round", num(s.Stroke)))
	for _, g := range []struct {
		id    string
		kind  render.CurveKind
		color string
	}{
		{"spokes", render.CurveSpoke, s.Color},
		{"ribs", render.CurveRib, s.Color},
		{"tether", render.CurveTether, s.Tether()},
	} {
		paths := curvePaths(d.Curves, g.kind)
		if len(paths) == 0 {
			continue
		}
		canvas.Gid(g.id)
		for _, p := range paths {
			canvas.Path(p, "stroke:"+g.color)
		}
		canvas.Gend()
	}
	if len(d.Trail) > 1 {
		canvas.Path(polyline(d.Trail), "stroke:"+s.Trail()+";stroke-dasharray:4 4;stroke-opacity:0.6", `id="trail"`)
	}
	canvas.Gend()

	if r.showHub {
		canvas.Circle(int(math.Round(d.Hub.X)), int(math.Round(d.Hub.Y)), max(2, int(math.Round(2*s.Stroke))), "fill:"+s.Color)
	}
	canvas.End()
	return buf.Bytes()
}

func curvePaths(curves []render.Curve, kind render.CurveKind) []string {
	var out []string
	for _, c := range curves {
		if c.Kind != kind {
			continue
		}
		if c.Straight {
			out = append(out, fmt.Sprintf("M%s %s L%s %s", num(c.P0.X), num(c.P0.Y), num(c.P2.X), num(c.P2.Y)))
			continue
		}
		out = append(out, fmt.Sprintf("M%s %s Q%s %s %s %s",
			num(c.P0.X), num(c.P0.Y), num(c.P1.X), num(c.P1.Y), num(c.P2.X), num(c.P2.Y)))
	}
	return out
}

func polyline(pts []render.Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(p.X))
		b.WriteString(" ")
		b.WriteString(num(p.Y))
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
