package sink

import "github.com/matzehuels/spiderweb/pkg/render"

// RenderPDF renders d as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(d render.Drawing, s render.Style, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(d, s, opts...))
}
