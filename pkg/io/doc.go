// Package io reads and writes web meshes (JSON) and generator
// configuration (TOML).
//
// # Mesh JSON
//
// [WriteMesh] and [ReadMesh] exchange a synthesized mesh with hosts and
// external tools:
//
//	{
//	  "params":   {"size": 2, "shape": "circular", "spokes": 8, ...},
//	  "hub": 0,
//	  "center": [0, 0, 0],
//	  "spokes": 8,
//	  "rings": 4,
//	  "vertices": [{"pos": [0, 0, 0], "ring": -1, "spoke": -1}, ...],
//	  "edges": [{"a": 0, "b": 1, "kind": "spoke", "ring": 0, "spoke": 0,
//	             "control": [0.25, 0, 0]}, ...]
//	}
//
// Curve endpoints are not repeated: each edge stores its Bézier control
// point and reuses the positions of the vertices it joins. Imports are
// checked with [web.Mesh.Check], so a file that round-trips is always a
// well-formed web.
//
// # Configuration
//
// [ReadConfig] decodes a TOML file with [web], [animation] and [render]
// tables on top of [DefaultConfig]. Unknown keys and invalid parameters fail
// with INVALID_CONFIG. [AnimationConfig.State] turns the [animation] table
// into an idle animation state.
package io
