package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/render"
	"github.com/matzehuels/spiderweb/pkg/render/nodelink"
	"github.com/matzehuels/spiderweb/pkg/render/sink"
)

// RenderItem generates output artifacts in the requested formats without
// caching. frame, if set, adds its behavior, phase and time to JSON output.
func RenderItem(ctx context.Context, it render.Item, frame *anim.Frame, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.IsTopology() {
		return renderTopology(ctx, it, frame, opts)
	}
	return renderWeb(it, frame, opts)
}

// renderWeb draws the web itself.
func renderWeb(it render.Item, frame *anim.Frame, opts Options) (map[string][]byte, error) {
	style := opts.Style()
	d, err := render.Project(it, style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{
		sink.WithTitle(opts.titleOrDefault()),
		sink.WithDescription(it.Mesh.Params.Fingerprint()),
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(d, style, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(d, style, sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(d, style, svgOpts...)
		case FormatJSON:
			data, err = renderJSON(it, frame, opts)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(it.Mesh, nodelink.Options{View: opts.View}))
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		opts.Logger.Debug("rendered artifact", "format", format, "bytes", len(data))
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderTopology draws the vertex/edge graph with Graphviz.
func renderTopology(ctx context.Context, it render.Item, frame *anim.Frame, opts Options) (map[string][]byte, error) {
	if it.Mesh == nil {
		return nil, fmt.Errorf("render topology: nil mesh")
	}
	dot := nodelink.ToDOT(it.Mesh, nodelink.Options{Labels: true, View: opts.View})

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, 2*opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = renderJSON(it, frame, opts)
		case FormatDOT:
			data = []byte(dot)
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderJSON(it render.Item, frame *anim.Frame, opts Options) ([]byte, error) {
	jsonOpts := []sink.JSONOption{sink.WithJSONStrands(opts.Resolution), sink.WithJSONIndent()}
	if frame != nil {
		jsonOpts = append(jsonOpts, sink.WithJSONFrame(*frame))
	}
	return sink.RenderJSON(it, jsonOpts...)
}
