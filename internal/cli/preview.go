package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/geom"
	pkgio "github.com/matzehuels/spiderweb/pkg/io"
	"github.com/matzehuels/spiderweb/pkg/pipeline"
	"github.com/matzehuels/spiderweb/pkg/render"
	"github.com/matzehuels/spiderweb/pkg/web"
)

const (
	previewFPS   = 60
	previewStep  = 0.05 // scrub increment per key press
	previewSpeed = 0.25 // playback rate in t per second
)

var previewViews = []render.View{render.ViewTop, render.ViewFront, render.ViewIso}

// Preview styles
var (
	previewStrandStyle = lipgloss.NewStyle().Foreground(colorWhite)
	previewHubStyle    = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	previewTetherStyle = lipgloss.NewStyle().Foreground(colorYellow)
	previewTrailStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var noCache bool
	flags := newConfigFlags()

	cmd := &cobra.Command{
		Use:   "preview [config.toml]",
		Short: "Scrub an animation in the terminal",
		Long: `Draw an animated web in the terminal and scrub through time.

Keys:
  ←/→  step backward or forward     space  play or pause
  home jump to the start            end    jump to the end
  v    cycle top, front and iso views
  q    quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.load(cmd.Flags(), firstArg(args)); err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), flags.options(), noCache)
		},
	}

	flags.bindWeb(cmd.Flags())
	flags.bindAnimation(cmd.Flags())
	cmd.Flags().StringVar(&flags.cfg.Render.View, "view", flags.cfg.Render.View, "initial projection: top, front, iso")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	m, err := runner.Synthesize(ctx, opts)
	if err != nil {
		return err
	}
	model, err := newPreviewModel(m, opts.Animation, opts.View)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// PreviewModel - Interactive animation scrubber
// =============================================================================

type previewTick time.Time

// previewModel scrubs an animation. The displayed time follows the target
// time through a critically damped spring so key presses glide instead of
// jumping.
type previewModel struct {
	mesh   *web.Mesh
	anim   pkgio.AnimationConfig
	bounds []geom.Vec3
	view   int

	spring  harmonica.Spring
	pos     float64 // displayed time
	vel     float64
	target  float64
	playing bool

	cols, rows int
	frame      anim.Frame
	err        error
}

func newPreviewModel(m *web.Mesh, a pkgio.AnimationConfig, view render.View) (previewModel, error) {
	if _, err := a.State(); err != nil {
		return previewModel{}, err
	}
	lo, hi := m.Bounds()
	pm := previewModel{
		mesh:   m,
		anim:   a,
		bounds: []geom.Vec3{lo, hi},
		spring: harmonica.NewSpring(harmonica.FPS(previewFPS), 6.0, 1.0),
		cols:   80,
		rows:   24,
	}
	if b, _ := anim.ParseBehavior(a.Behavior); b != anim.BehaviorSpread {
		pm.bounds = append(pm.bounds,
			geom.V(a.Origin[0], a.Origin[1], a.Origin[2]),
			geom.V(a.Target[0], a.Target[1], a.Target[2]))
	}
	for i, v := range previewViews {
		if v == view {
			pm.view = i
		}
	}
	pm.frame, pm.err = pm.step(0)
	return pm, nil
}

// step computes the snapshot at t from a fresh state; steps are pure in t.
func (m previewModel) step(t float64) (anim.Frame, error) {
	st, err := m.anim.State()
	if err != nil {
		return anim.Frame{}, err
	}
	return anim.Step(m.mesh, st, t)
}

func previewTickCmd() tea.Cmd {
	return tea.Tick(time.Second/previewFPS, func(t time.Time) tea.Msg {
		return previewTick(t)
	})
}

func (m previewModel) Init() tea.Cmd {
	return previewTickCmd()
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.playing = false
			m.target = clampT(m.target - previewStep)
		case "right", "l":
			m.playing = false
			m.target = clampT(m.target + previewStep)
		case " ":
			if !m.playing && m.target >= 1 {
				m.target, m.pos, m.vel = 0, 0, 0
			}
			m.playing = !m.playing
		case "home":
			m.playing = false
			m.target = 0
		case "end":
			m.playing = false
			m.target = 1
		case "v":
			m.view = (m.view + 1) % len(previewViews)
		}
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, render.MinCanvas)
		m.rows = max(msg.Height-3, render.MinCanvas/2)
	case previewTick:
		m = m.advance()
		return m, previewTickCmd()
	}
	return m, nil
}

// advance moves the animation forward by one tick.
func (m previewModel) advance() previewModel {
	if m.playing {
		m.target = clampT(m.target + previewSpeed/previewFPS)
		if m.target >= 1 {
			m.playing = false
		}
	}
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, m.target)
	t := clampT(m.pos)
	if math.Abs(m.pos-m.target) < 1e-4 && math.Abs(m.vel) < 1e-4 {
		// Snap so the terminal phase is reached exactly.
		m.pos, m.vel, t = m.target, 0, m.target
	}
	m.frame, m.err = m.step(t)
	return m
}

func (m previewModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s  t=%.2f  %s", m.anim.Behavior, m.frame.T, m.frame.Phase)
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(string(previewViews[m.view])))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error())
		b.WriteString("\n")
	} else if m.frame.Mesh != nil {
		it := render.FromFrame(m.frame)
		it.Frame = m.bounds
		style := render.DefaultStyle()
		style.View = previewViews[m.view]
		// Terminal cells are about twice as tall as wide.
		style.Width, style.Height, style.Margin = float64(m.cols), float64(2*m.rows), 1
		if d, err := render.Project(it, style); err == nil {
			b.WriteString(strings.Join(asciiCanvas(d, m.cols, m.rows, true), "\n"))
			b.WriteString("\n")
		}
	}

	b.WriteString(StyleDim.Render("←/→ scrub  space play  home/end jump  v view  q quit"))
	return b.String()
}

func clampT(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// =============================================================================
// ASCII Rasterizer
// =============================================================================

// Glyphs by layer; later layers overwrite earlier ones.
const (
	glyphEmpty  = ' '
	glyphTrail  = '.'
	glyphRib    = '~'
	glyphSpoke  = '*'
	glyphTether = '|'
	glyphHub    = '@'
)

// asciiCanvas rasterizes d onto a cols x rows character grid. Canvas pixels
// map linearly onto cells. With color set, glyphs are styled by layer.
func asciiCanvas(d render.Drawing, cols, rows int, color bool) []string {
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(string(glyphEmpty), cols))
	}
	plot := func(p render.Point, g rune) {
		c := int(p.X / d.Width * float64(cols))
		r := int(p.Y / d.Height * float64(rows))
		if c >= 0 && c < cols && r >= 0 && r < rows {
			grid[r][c] = g
		}
	}

	for _, p := range d.Trail {
		plot(p, glyphTrail)
	}
	layers := []struct {
		kind  render.CurveKind
		glyph rune
	}{
		{render.CurveRib, glyphRib},
		{render.CurveSpoke, glyphSpoke},
		{render.CurveTether, glyphTether},
	}
	// Sample densely enough to touch every cell a curve crosses.
	cell := math.Min(d.Width/float64(cols), d.Height/float64(rows))
	for _, layer := range layers {
		for _, c := range d.Curves {
			if c.Kind != layer.kind {
				continue
			}
			n := int(math.Ceil(curveSpan(c)/cell*2)) + 1
			for i := range n + 1 {
				plot(evalCurve(c, float64(i)/float64(n)), layer.glyph)
			}
		}
	}
	if d.HasHub {
		plot(d.Hub, glyphHub)
	}

	lines := make([]string, rows)
	for r, row := range grid {
		if !color {
			lines[r] = string(row)
			continue
		}
		var b strings.Builder
		for _, g := range row {
			b.WriteString(glyphStyle(g).Render(string(g)))
		}
		lines[r] = b.String()
	}
	return lines
}

func glyphStyle(g rune) lipgloss.Style {
	switch g {
	case glyphHub:
		return previewHubStyle
	case glyphTether:
		return previewTetherStyle
	case glyphTrail:
		return previewTrailStyle
	}
	return previewStrandStyle
}

func evalCurve(c render.Curve, t float64) render.Point {
	mt := 1 - t
	a, b, w := mt*mt, 2*mt*t, t*t
	return render.Point{
		X: a*c.P0.X + b*c.P1.X + w*c.P2.X,
		Y: a*c.P0.Y + b*c.P1.Y + w*c.P2.Y,
	}
}

// curveSpan bounds the curve length by its control polygon.
func curveSpan(c render.Curve) float64 {
	return math.Hypot(c.P1.X-c.P0.X, c.P1.Y-c.P0.Y) + math.Hypot(c.P2.X-c.P1.X, c.P2.Y-c.P1.Y)
}
