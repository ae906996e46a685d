package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spiderweb/pkg/errors"
	pkgio "github.com/matzehuels/spiderweb/pkg/io"
	"github.com/matzehuels/spiderweb/pkg/pipeline"
	"github.com/matzehuels/spiderweb/pkg/render"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)
	flags := newConfigFlags()

	cmd := &cobra.Command{
		Use:   "render <mesh.json>",
		Short: "Render a saved mesh",
		Long: `Render a mesh exported with 'spiderweb generate --mesh'.

Shape flags do not apply: the mesh is drawn exactly as saved, including any
hand edits to vertex positions or curve control points.`,
		Example: `  spiderweb render web.mesh.json -f png --view iso
  spiderweb render web.mesh.json -t topology -f dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options()
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	flags.bindRender(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: mesh file name)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, meshPath string, opts pipeline.Options, output string, noCache bool) error {
	m, err := pkgio.ImportMesh(meshPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, render.Item{Mesh: m}, nil, opts)
	if err != nil {
		return err
	}
	prog.done("Rendered " + strings.Join(opts.Formats, ", "))

	base := basePath(output, meshBase(meshPath))
	for _, format := range opts.Formats {
		if filepath.Clean(base+"."+format) == filepath.Clean(meshPath) {
			return errors.New(errors.ErrCodeInvalidPath, "output %s.%s would overwrite the input mesh", base, format)
		}
	}

	printStats(pipeline.Stats{Vertices: len(m.Vertices), Edges: len(m.Edges)}, hit)
	paths, err := writeArtifacts(artifacts, opts.Formats, base)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// meshBase returns the default output base of a mesh file:
// "out/web.mesh.json" becomes "out/web".
func meshBase(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return strings.TrimSuffix(base, ".mesh")
}
