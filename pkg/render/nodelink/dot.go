package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/render"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// DefaultScale is the number of inches per world unit.
const DefaultScale = 3.0

// Options configures node-link diagram rendering.
type Options struct {
	// Labels names every node by ring and spoke. When false nodes are dots.
	Labels bool
	// View selects the projection used to pin nodes.
	View render.View
	// Scale is inches per world unit; zero means DefaultScale.
	Scale float64
}

// ToDOT converts a mesh to Graphviz DOT with every vertex pinned at its
// projected position. The result is meant for the neato engine, which
// honors pinned positions; see [RenderSVG].
func ToDOT(m *web.Mesh, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("graph web {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  overlap=true;\n")
	if opts.Labels {
		buf.WriteString("  node [shape=circle, fontsize=10, width=0.3, fixedsize=true];\n")
	} else {
		buf.WriteString("  node [shape=point, width=0.06];\n")
	}
	buf.WriteString("\n")

	for i, v := range m.Vertices {
		// Graphviz y grows upward.
		p := opts.View.Flatten(v.Pos)
		x, y := p.X*scale, -p.Y*scale
		attrs := fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(x), fmtFloat(y))
		if opts.Labels {
			attrs += fmt.Sprintf(", label=%q", nodeLabel(m, i))
		}
		if i == m.Hub {
			attrs += ", color=\"#cc3300\""
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), attrs)
	}

	buf.WriteString("\n")
	for _, e := range m.Edges {
		style := ""
		if e.Kind == web.EdgeSpoke {
			style = " [color=\"#999999\"]"
		}
		fmt.Fprintf(&buf, "  %q -- %q%s;\n", nodeID(e.A), nodeID(e.B), style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "v" + strconv.Itoa(i) }

func nodeLabel(m *web.Mesh, i int) string {
	if i == m.Hub {
		return "hub"
	}
	v := m.Vertices[i]
	return fmt.Sprintf("r%ds%d", v.Ring, v.Spoke)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// RenderSVG lays out a DOT graph with neato and renders it to SVG.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel one so the diagram scales like the other sinks.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
