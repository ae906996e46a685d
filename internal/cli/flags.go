package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	pkgio "github.com/matzehuels/spiderweb/pkg/io"
	"github.com/matzehuels/spiderweb/pkg/pipeline"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// configFlags binds command-line flags onto a [pkgio.Config]. Flags start
// from the default configuration; a configuration file named on the
// command line replaces those defaults, and flags given explicitly still
// win over the file.
type configFlags struct {
	cfg pkgio.Config

	shape   string
	spacing string
	formats string
	vizType string
	margin  float64
	scale   float64
	title   string
	workers int
}

func newConfigFlags() *configFlags {
	f := &configFlags{cfg: pkgio.DefaultConfig()}
	f.shape = string(f.cfg.Web.Shape)
	f.spacing = string(f.cfg.Web.Spacing)
	return f
}

// bindWeb registers the shape parameter flags.
func (f *configFlags) bindWeb(fs *pflag.FlagSet) {
	p := &f.cfg.Web
	fs.Float64Var(&p.Size, "size", p.Size, "web radius")
	fs.StringVar(&f.shape, "shape", f.shape, "anchor layout: circular, polygonal, irregular")
	fs.IntVar(&p.Spokes, "spokes", p.Spokes, fmt.Sprintf("number of spokes (%d-%d)", web.MinSpokes, web.MaxSpokes))
	fs.IntVar(&p.Ribs, "ribs", p.Ribs, fmt.Sprintf("number of rings (%d-%d)", web.MinRibs, web.MaxRibs))
	fs.Float64Var(&p.Curvature, "curvature", p.Curvature, "rib sag toward the hub")
	fs.IntVar(&p.Sides, "sides", p.Sides, "polygon sides (polygonal shape)")
	fs.Float64Var(&p.Jitter, "jitter", p.Jitter, "random anchor displacement")
	fs.Float64Var(&p.InteriorJitter, "interior-jitter", p.InteriorJitter, "random ring displacement along spokes")
	fs.Uint64Var(&p.Seed, "seed", p.Seed, "random seed (0 derives one from the parameters)")
	fs.Float64Var(&p.Height, "web-height", p.Height, "hub offset behind the rim plane")
	fs.StringVar(&f.spacing, "spacing", f.spacing, "ring spacing: linear, geometric")
	fs.BoolVar(&p.OpenHub, "open-hub", p.OpenHub, "leave the hub open")
	fs.Float64Var(&p.Taper, "taper", p.Taper, "curvature falloff toward the hub (0-1)")
}

// bindRender registers the output flags.
func (f *configFlags) bindRender(fs *pflag.FlagSet) {
	r := &f.cfg.Render
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	fs.StringVarP(&f.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: web, topology")
	fs.StringVar(&r.View, "view", r.View, "projection: top, front, iso")
	fs.Float64Var(&r.Width, "width", r.Width, "canvas width in pixels")
	fs.Float64Var(&r.Height, "height", r.Height, "canvas height in pixels")
	fs.Float64Var(&f.margin, "margin", pipeline.DefaultMargin, "blank border in pixels")
	fs.Float64Var(&r.Stroke, "stroke", r.Stroke, "strand width in pixels")
	fs.StringVar(&r.Color, "color", r.Color, "strand color")
	fs.StringVar(&r.Background, "background", r.Background, "canvas color")
	fs.IntVar(&r.Resolution, "resolution", r.Resolution, "segments per strand in JSON output")
	fs.Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	fs.StringVar(&f.title, "title", "", "document title")
}

// bindAnimation registers the behavior flags.
func (f *configFlags) bindAnimation(fs *pflag.FlagSet) {
	a := &f.cfg.Animation
	fs.StringVarP(&a.Behavior, "behavior", "b", a.Behavior, "behavior: spread, shot, tether")
	fs.IntVar(&a.Frames, "frames", a.Frames, fmt.Sprintf("frame intervals (1-%d)", pipeline.MaxFrames))
	fs.StringVar(&a.Ease, "ease", a.Ease, "easing: linear, ease-out, ease-in-out, smoothstep")
	fs.Float64Var(&a.Stagger, "stagger", a.Stagger, "spread delay between rings (0-1)")
	fs.Var((*vec3Value)(&a.Origin), "origin", "shooter position x,y,z")
	fs.Var((*vec3Value)(&a.Target), "target", "landing or anchor point x,y,z")
	fs.Var((*vec3Value)(&a.Gravity), "gravity", "shot gravity x,y,z")
	fs.BoolVar(&a.Orient, "orient", a.Orient, "turn the web along its flight path")
	fs.Float64Var(&a.Trail, "trail", a.Trail, "shot trail length as a fraction of flight time")
	fs.Float64Var(&a.Slack, "slack", a.Slack, "tether sag as a fraction of its length")
	fs.IntVar(&f.workers, "workers", pipeline.DefaultWorkers, "frames rendered concurrently")
}

// load replaces the defaults with the configuration file at path, then
// re-applies every flag set on the command line.
func (f *configFlags) load(fs *pflag.FlagSet, path string) error {
	if path == "" {
		return nil
	}
	changed := map[string]string{}
	fs.Visit(func(fl *pflag.Flag) { changed[fl.Name] = fl.Value.String() })

	cfg, err := pkgio.LoadConfig(path)
	if err != nil {
		return err
	}
	f.cfg = cfg
	f.shape = string(cfg.Web.Shape)
	f.spacing = string(cfg.Web.Spacing)
	if len(cfg.Render.Formats) > 0 {
		f.formats = strings.Join(cfg.Render.Formats, ",")
	}

	for name, val := range changed {
		if err := fs.Set(name, val); err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
	}
	return nil
}

// options returns pipeline options for the bound configuration.
func (f *configFlags) options() pipeline.Options {
	cfg := f.cfg
	cfg.Web.Shape = web.Shape(f.shape)
	cfg.Web.Spacing = web.Spacing(f.spacing)
	cfg.Render.Formats = parseFormats(f.formats)

	opts := pipeline.FromConfig(cfg)
	opts.VizType = f.vizType
	opts.Margin = f.margin
	opts.Scale = f.scale
	opts.Title = f.title
	opts.Workers = f.workers
	return opts
}

// vec3Value is a pflag.Value for "x,y,z" vectors.
type vec3Value [3]float64

func (v *vec3Value) String() string {
	return fmt.Sprintf("%g,%g,%g", v[0], v[1], v[2])
}

func (v *vec3Value) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}
	var out vec3Value
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = x
	}
	*v = out
	return nil
}

func (v *vec3Value) Type() string { return "vec3" }
