// Package render turns webs and animation frames into pictures.
//
// # Overview
//
// Rendering happens in two steps. [Project] flattens a 3D mesh (plus an
// optional tether strand and shot trail) into a 2D [Drawing] fitted to the
// canvas described by a [Style]. The sinks in the [sink] subpackage then
// write that drawing out:
//
//   - SVG via ajstarks/svgo
//   - PNG rasterized with fogleman/gg
//   - PDF converted from SVG with rsvg-convert
//   - JSON buffers carrying the raw 3D geometry
//
// Quadratic Bézier strands stay Bézier curves after projection, so curved
// ribs are drawn exactly rather than as sampled polylines.
//
// # Topology Diagrams
//
// The [nodelink] subpackage renders the mesh as a Graphviz graph with every
// vertex pinned at its projected position, which is handy for inspecting
// the edge structure of dense webs.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// (from librsvg).
//
//	svg := sink.RenderSVG(d, style)
//	pdf, err := render.ToPDF(svg)
//
// [sink]: github.com/matzehuels/spiderweb/pkg/render/sink
// [nodelink]: github.com/matzehuels/spiderweb/pkg/render/nodelink
package render
