// Package nodelink renders web topology as node-link diagrams.
//
// # Overview
//
// Every mesh vertex becomes a Graphviz node pinned at its projected
// position and every spoke or rib becomes an undirected edge. Ribs are drawn
// as straight segments, so the diagram shows connectivity rather than
// shape. It is a debugging view for checking ring order and spoke wiring.
//
// # Usage
//
//	dot := nodelink.ToDOT(mesh, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Labels: name nodes by ring and spoke ("r2s5") instead of drawing dots
//   - View: projection used to pin nodes (default top)
//   - Scale: inches per world unit (default 3)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] with the neato engine
// for in-process SVG rendering. PDF and PNG conversion requires librsvg
// (rsvg-convert).
package nodelink
