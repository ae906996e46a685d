package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/pipeline"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// ringStat summarizes one ring of a mesh.
type ringStat struct {
	Ring      int
	MinRadius float64
	MaxRadius float64
	MeanSag   float64
	Length    float64 // arc length of the ring's ribs
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool
	flags := newConfigFlags()

	cmd := &cobra.Command{
		Use:   "inspect [config.toml]",
		Short: "Print ring and strand statistics",
		Long: `Synthesize a web and print its structure: vertex and strand counts and,
per ring, the radius range, mean rib sag and total rib length.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.load(cmd.Flags(), firstArg(args)); err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), flags.options(), noCache)
		},
	}

	flags.bindWeb(cmd.Flags())
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	m, hit, err := runner.SynthesizeWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}

	spokes, ribs := m.Counts()
	fmt.Println(StyleTitle.Render("Web " + opts.Web.Fingerprint()[:12]))
	shape := m.Params.Shape
	if shape == "" {
		shape = web.ShapeCircular
	}
	printKeyValue("Shape", string(shape))
	printKeyValue("Seed", strconv.FormatUint(m.Params.EffectiveSeed(), 10))
	hub := "closed"
	if !m.HasHub() {
		hub = "open"
	}
	printKeyValue("Hub", hub)
	printKeyValue("Vertices", strconv.Itoa(len(m.Vertices)))
	printKeyValue("Strands", fmt.Sprintf("%d spokes, %d ribs", spokes, ribs))
	lo, hi := m.Bounds()
	printKeyValue("Bounds", fmt.Sprintf("%s .. %s", lo, hi))
	fmt.Println()
	fmt.Println(ringTable(ringStats(m)))
	printStats(pipeline.Stats{}, hit)
	return nil
}

// ringStats measures every ring of m. Radii are taken in the XY plane from
// the mesh center.
func ringStats(m *web.Mesh) []ringStat {
	stats := make([]ringStat, m.Rings)
	sags := make([]int, m.Rings)
	for r := range stats {
		stats[r] = ringStat{Ring: r, MinRadius: math.Inf(1), MaxRadius: math.Inf(-1)}
		for _, i := range m.Ring(r) {
			d := m.Vertices[i].Pos.Sub(m.Center)
			rad := math.Hypot(d.X, d.Y)
			stats[r].MinRadius = min(stats[r].MinRadius, rad)
			stats[r].MaxRadius = max(stats[r].MaxRadius, rad)
		}
	}
	for _, e := range m.Edges {
		if e.Kind != web.EdgeRib {
			continue
		}
		st := &stats[e.Ring]
		st.MeanSag += e.Curve.Sag()
		st.Length += arcLength(e.Curve)
		sags[e.Ring]++
	}
	for r := range stats {
		if sags[r] > 0 {
			stats[r].MeanSag /= float64(sags[r])
		}
	}
	return stats
}

func arcLength(q geom.QuadBez) float64 {
	pts := q.Sample(16)
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i].Distance(pts[i-1])
	}
	return l
}

func ringTable(stats []ringStat) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{
			strconv.Itoa(s.Ring),
			fmt.Sprintf("%.3f", s.MinRadius),
			fmt.Sprintf("%.3f", s.MaxRadius),
			fmt.Sprintf("%.4f", s.MeanSag),
			fmt.Sprintf("%.3f", s.Length),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Ring", "Min r", "Max r", "Sag", "Length").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle
		})
	return t.Render()
}
