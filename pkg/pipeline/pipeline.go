// Package pipeline provides the generate → animate → render pipeline.
//
// The CLI and the preview server both drive webs through this package so
// that defaults, validation and caching behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Synthesize: build the static mesh from shape parameters
//  2. Animate: step a behavior through evenly spaced frames
//  3. Render: produce artifacts (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run on its own or as part of [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Web:     web.DefaultParams(),
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	m, err := runner.Synthesize(ctx, opts)
//	frames, err := runner.Animate(ctx, m, opts)
//	artifacts, err := runner.Render(ctx, render.FromFrame(frames[3]), opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/cache"
	"github.com/matzehuels/spiderweb/pkg/errors"
	pkgio "github.com/matzehuels/spiderweb/pkg/io"
	"github.com/matzehuels/spiderweb/pkg/render"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 800.0

	// DefaultMargin is the default blank border in pixels.
	DefaultMargin = 40.0

	// DefaultStroke is the default strand width in pixels.
	DefaultStroke = 1.5

	// DefaultColor is the default strand color.
	DefaultColor = "#333333"

	// DefaultBackground is the default canvas color.
	DefaultBackground = "#ffffff"

	// DefaultResolution is the number of segments per strand in sampled
	// JSON output.
	DefaultResolution = 12

	// DefaultScale is the PNG scale factor.
	DefaultScale = 1.0

	// DefaultFrames is the number of frame intervals in an animation; an
	// animation yields DefaultFrames+1 snapshots.
	DefaultFrames = 24

	// MaxFrames bounds the number of frames per run.
	MaxFrames = 600

	// DefaultWorkers bounds concurrent frame rendering.
	DefaultWorkers = 4
)

// DefaultView is the default projection.
const DefaultView = render.ViewTop

// Visualization types.
const (
	// VizWeb draws the web as it looks, curves included.
	VizWeb = "web"
	// VizTopology draws the vertex/edge graph with Graphviz.
	VizTopology = "topology"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizWeb

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizWeb:      true,
	VizTopology: true,
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Synthesis options
	Web     web.Params `json:"web"`
	Refresh bool       `json:"refresh,omitempty"`

	// Animation options. An empty behavior renders the static web only.
	Animation pkgio.AnimationConfig `json:"animation"`

	// Render options
	Formats    []string    `json:"formats,omitempty"`
	VizType    string      `json:"viz_type,omitempty"`
	View       render.View `json:"view,omitempty"`
	Width      float64     `json:"width,omitempty"`
	Height     float64     `json:"height,omitempty"`
	Margin     float64     `json:"margin,omitempty"`
	Stroke     float64     `json:"stroke,omitempty"`
	Color      string      `json:"color,omitempty"`
	Background string      `json:"background,omitempty"`
	Resolution int         `json:"resolution,omitempty"`
	Scale      float64     `json:"scale,omitempty"`
	Title      string      `json:"title,omitempty"`

	// Runtime options (not serialized)
	Workers int         `json:"-"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Mesh is the synthesized static web.
	Mesh *web.Mesh

	// Fingerprint identifies the shape parameters.
	Fingerprint string

	// Artifacts contains the static web rendered in each format.
	Artifacts map[string][]byte

	// Frames contains one entry per animation snapshot, empty when no
	// behavior was requested.
	Frames []FrameResult

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// FrameResult is one rendered animation snapshot.
type FrameResult struct {
	Index     int
	T         float64
	Artifacts map[string][]byte
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Vertices       int
	Edges          int
	Frames         int
	SynthesizeTime time.Duration
	AnimateTime    time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	MeshHit   bool // Whether the mesh came from cache
	RenderHit bool // Whether all static artifacts came from cache
	FrameHits int  // Number of frames served entirely from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid viz_type: %q (must be one of: web, topology)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// FromConfig returns options describing a configuration file.
func FromConfig(cfg pkgio.Config) Options {
	return Options{
		Web:        cfg.Web,
		Animation:  cfg.Animation,
		Formats:    cfg.Render.Formats,
		View:       render.View(cfg.Render.View),
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		Stroke:     cfg.Render.Stroke,
		Color:      cfg.Render.Color,
		Background: cfg.Render.Background,
		Resolution: cfg.Render.Resolution,
	}
}

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSynthesize(); err != nil {
		return err
	}
	if o.Animating() {
		if err := o.ValidateForAnimate(); err != nil {
			return err
		}
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSynthesize checks the shape parameters.
func (o *Options) ValidateForSynthesize() error {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.Web.Validate()
}

// Animating reports whether a behavior was requested.
func (o *Options) Animating() bool {
	return o.Animation.Behavior != ""
}

// SetAnimateDefaults sets default values for animation.
func (o *Options) SetAnimateDefaults() {
	if o.Animation.Frames == 0 {
		o.Animation.Frames = DefaultFrames
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForAnimate validates and sets defaults for animation. The
// behavior parameters themselves are checked by the first step.
func (o *Options) ValidateForAnimate() error {
	o.SetAnimateDefaults()
	if _, ok := anim.ParseBehavior(o.Animation.Behavior); !ok {
		return errors.New(errors.ErrCodeInvalidState, "unknown behavior %q", o.Animation.Behavior)
	}
	if o.Animation.Frames < 1 || o.Animation.Frames > MaxFrames {
		return errors.New(errors.ErrCodeInvalidParameter, "frames must be in [1, %d], got %d", MaxFrames, o.Animation.Frames)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.View == "" {
		o.View = DefaultView
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Stroke == 0 {
		o.Stroke = DefaultStroke
	}
	if o.Color == "" {
		o.Color = DefaultColor
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Resolution == 0 {
		o.Resolution = DefaultResolution
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Resolution < 1 || o.Resolution > 256 {
		return errors.New(errors.ErrCodeInvalidParameter, "resolution must be in [1, 256], got %d", o.Resolution)
	}
	if err := errors.ValidateObjectName(o.titleOrDefault()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStyle, err, "title")
	}
	return o.Style().Validate()
}

// Style returns the render style described by o.
func (o *Options) Style() render.Style {
	return render.Style{
		Width:      o.Width,
		Height:     o.Height,
		Margin:     o.Margin,
		Stroke:     o.Stroke,
		Color:      o.Color,
		Background: o.Background,
		View:       o.View,
	}
}

// IsTopology returns true if this is a Graphviz topology visualization.
func (o *Options) IsTopology() bool {
	return o.VizType == VizTopology
}

func (o *Options) titleOrDefault() string {
	if o.Title != "" {
		return o.Title
	}
	return "web"
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		VizType:    o.VizType,
		View:       string(o.View),
		Width:      o.Width,
		Height:     o.Height,
		Margin:     o.Margin,
		Stroke:     o.Stroke,
		Color:      o.Color,
		Background: o.Background,
		Resolution: o.Resolution,
		Scale:      o.Scale,
		Title:      o.Title,
	}
}

// FrameTimes returns the normalized times of an animation with n frame
// intervals: n+1 evenly spaced values from 0 to 1 inclusive.
func FrameTimes(n int) []float64 {
	n = max(n, 1)
	ts := make([]float64, n+1)
	for i := range ts {
		ts[i] = float64(i) / float64(n)
	}
	return ts
}

func (s Stats) String() string {
	return fmt.Sprintf("%d vertices, %d edges, %d frames", s.Vertices, s.Edges, s.Frames)
}
