package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/spiderweb/pkg/errors"
	pkgio "github.com/matzehuels/spiderweb/pkg/io"
	"github.com/matzehuels/spiderweb/pkg/pipeline"
	"github.com/matzehuels/spiderweb/pkg/render"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// query reads typed values from URL parameters. Absent keys leave the
// destination untouched; the first malformed value is kept in err.
type query struct {
	v   url.Values
	err error
}

func (q *query) fail(key, val string, cause error) {
	if q.err == nil {
		q.err = errors.Wrap(errors.ErrCodeInvalidParameter, cause, "query %s=%q", key, val)
	}
}

func (q *query) floatVar(key string, dst *float64) {
	if s := q.v.Get(key); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			q.fail(key, s, err)
			return
		}
		*dst = f
	}
}

func (q *query) intVar(key string, dst *int) {
	if s := q.v.Get(key); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			q.fail(key, s, err)
			return
		}
		*dst = n
	}
}

func (q *query) uint64Var(key string, dst *uint64) {
	if s := q.v.Get(key); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			q.fail(key, s, err)
			return
		}
		*dst = n
	}
}

func (q *query) boolVar(key string, dst *bool) {
	if s := q.v.Get(key); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			q.fail(key, s, err)
			return
		}
		*dst = b
	}
}

func (q *query) stringVar(key string, dst *string) {
	if s := q.v.Get(key); s != "" {
		*dst = s
	}
}

// vecVar reads "x,y,z".
func (q *query) vecVar(key string, dst *[3]float64) {
	s := q.v.Get(key)
	if s == "" {
		return
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		q.fail(key, s, errors.New(errors.ErrCodeInvalidParameter, "want x,y,z"))
		return
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			q.fail(key, s, err)
			return
		}
		v[i] = f
	}
	*dst = v
}

// webParams overlays shape parameters from the query on base.
func (q *query) webParams(base web.Params) web.Params {
	p := base
	var shape, spacing string
	q.floatVar("size", &p.Size)
	q.stringVar("shape", &shape)
	q.intVar("spokes", &p.Spokes)
	q.intVar("ribs", &p.Ribs)
	q.floatVar("curvature", &p.Curvature)
	q.intVar("sides", &p.Sides)
	q.floatVar("jitter", &p.Jitter)
	q.floatVar("interior_jitter", &p.InteriorJitter)
	q.uint64Var("seed", &p.Seed)
	q.floatVar("web_height", &p.Height)
	q.stringVar("spacing", &spacing)
	q.boolVar("open_hub", &p.OpenHub)
	q.floatVar("taper", &p.Taper)
	if shape != "" {
		p.Shape = web.Shape(shape)
	}
	if spacing != "" {
		p.Spacing = web.Spacing(spacing)
	}
	return p
}

// renderOptions overlays drawing options from the query on opts.
func (q *query) renderOptions(opts *pipeline.Options) {
	var view string
	q.stringVar("viz", &opts.VizType)
	q.stringVar("view", &view)
	q.floatVar("width", &opts.Width)
	q.floatVar("height", &opts.Height)
	q.floatVar("margin", &opts.Margin)
	q.floatVar("stroke", &opts.Stroke)
	q.stringVar("color", &opts.Color)
	q.stringVar("background", &opts.Background)
	q.intVar("resolution", &opts.Resolution)
	q.floatVar("scale", &opts.Scale)
	q.stringVar("title", &opts.Title)
	q.boolVar("refresh", &opts.Refresh)
	if view != "" {
		opts.View = render.View(view)
	}
}

// animation overlays behavior parameters from the query on base.
func (q *query) animation(base pkgio.AnimationConfig) pkgio.AnimationConfig {
	c := base
	q.stringVar("behavior", &c.Behavior)
	q.stringVar("ease", &c.Ease)
	q.floatVar("stagger", &c.Stagger)
	q.vecVar("origin", &c.Origin)
	q.vecVar("target", &c.Target)
	q.vecVar("gravity", &c.Gravity)
	q.boolVar("orient", &c.Orient)
	q.floatVar("trail", &c.Trail)
	q.floatVar("slack", &c.Slack)
	q.floatVar("frequency", &c.Frequency)
	q.floatVar("damping", &c.Damping)
	q.floatVar("duration", &c.Duration)
	if c.Behavior == "" {
		c.Behavior = "spread"
	}
	return c
}

// requestOptions builds pipeline options for a render request of one format.
func (s *Server) requestOptions(v url.Values, format string) (pipeline.Options, error) {
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}
	opts := s.defaults
	opts.Formats = []string{format}
	opts.Logger = s.logger

	q := &query{v: v}
	opts.Web = q.webParams(opts.Web)
	q.renderOptions(&opts)
	if q.err != nil {
		return pipeline.Options{}, q.err
	}
	return opts, nil
}
