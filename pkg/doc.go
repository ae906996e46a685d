// Package pkg provides the core libraries for Spiderweb procedural web
// generation.
//
// # Overview
//
// Spiderweb turns a handful of shape parameters into a radial spider-web
// mesh, animates it spreading, flying or tethering into place, and renders
// the result. The pkg directory is organized into four main areas:
//
//  1. Geometry - [geom] vectors and quadratic Béziers, [web] synthesis
//  2. Motion - [anim] behaviors and the step driver, [scene] placement
//  3. Output - [render] projection with [render/sink] and [render/nodelink]
//  4. Plumbing - [pipeline], [cache], [io], [errors], [observability]
//
// # Architecture
//
// The typical data flow through Spiderweb:
//
//	web.Params
//	     ↓
//	[web] package (frame → mesh, curvature modulation)
//	     ↓
//	[anim] package (spread / shot / tether snapshots)
//	     ↓
//	[render] package (projection + sinks)
//	     ↓
//	SVG/PNG/PDF/JSON/DOT output
//
// # Quick Start
//
// Generate a web and render it:
//
//	import (
//	    "github.com/matzehuels/spiderweb/pkg/render"
//	    "github.com/matzehuels/spiderweb/pkg/render/sink"
//	    "github.com/matzehuels/spiderweb/pkg/web"
//	)
//
//	m, _ := web.Generate(web.Params{Size: 1, Spokes: 9, Ribs: 5, Curvature: 0.4})
//	style := render.DefaultStyle()
//	d, _ := render.Project(render.Item{Mesh: m}, style)
//	svg := sink.RenderSVG(d, style)
//
// Animate it:
//
//	st := anim.NewShot(anim.ShotParams{Origin: geom.V(0, -6, 1), Target: geom.Zero})
//	frames, _ := anim.Run(m, st, 24)
//
// # Main Packages
//
// [web] - Radial frame builder, curvature modulator and mesh synthesizer.
// Circular, polygonal and seeded irregular shapes with linear or geometric
// ring spacing.
//
// [anim] - Animation driver. Each behavior is a small state machine
// (idle → active → terminal) stepped by normalized time; the same time
// always yields the same snapshot.
//
// [scene] - Host-side object store: named webs with a placement, an
// optional running animation, and a world-space copy of the mesh.
//
// [render] - Orthographic projection onto a canvas. [render/sink] writes
// SVG, PNG, PDF and JSON; [render/nodelink] draws the vertex graph with
// Graphviz.
//
// [pipeline] - Complete pipeline (synthesize → animate → render) used by
// the CLI and the HTTP server. Ensures consistent defaults and caching
// across both entry points.
//
// [cache] - File, Redis and no-op caches with a pluggable key scheme.
//
// [io] - TOML configuration and JSON mesh import/export.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/web/...       # Specific package
//	go test -run Example        # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/geom
// [web]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/web
// [anim]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/anim
// [scene]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/spiderweb/pkg/observability
package pkg
