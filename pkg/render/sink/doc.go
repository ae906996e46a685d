// Package sink writes projected webs to output formats.
//
// Every sink takes a [render.Drawing] produced by [render.Project] together
// with the [render.Style] it was projected for:
//
//   - [RenderSVG]: vector output via ajstarks/svgo, curves kept as Béziers
//   - [RenderPNG]: raster output drawn natively with fogleman/gg
//   - [RenderPDF]: SVG converted with rsvg-convert
//
// [RenderJSON] is the exception: it serializes the unprojected 3D geometry
// as flat buffers (positions, edge index pairs, Bézier controls) for hosts
// that build their own geometry objects.
package sink
