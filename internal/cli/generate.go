package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/spiderweb/pkg/io"
	"github.com/matzehuels/spiderweb/pkg/pipeline"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output   string
		meshPath string
		noCache  bool
		refresh  bool
	)
	flags := newConfigFlags()

	cmd := &cobra.Command{
		Use:   "generate [config.toml]",
		Short: "Synthesize a web and render it",
		Long: `Synthesize a web from shape parameters and render it.

Parameters come from the optional TOML configuration (see 'spiderweb init')
and are overridden by flags. Results are cached, so regenerating an
unchanged web only re-reads the cache.`,
		Example: `  spiderweb generate --spokes 9 --ribs 6 --curvature 0.4 -f svg,png
  spiderweb generate web.toml -o out/porch --view iso`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.load(cmd.Flags(), firstArg(args)); err != nil {
				return err
			}
			opts := flags.options()
			opts.Animation = pkgio.AnimationConfig{}
			opts.Refresh = refresh
			return c.runGenerate(cmd.Context(), opts, output, meshPath, noCache)
		},
	}

	flags.bindWeb(cmd.Flags())
	flags.bindRender(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default \"web\")")
	cmd.Flags().StringVar(&meshPath, "mesh", "", "also export the mesh as JSON to this path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output, meshPath string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Generating web...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	printSuccess("Generated web %s", StyleDim.Render(result.Fingerprint[:12]))
	printStats(result.Stats, result.CacheInfo.MeshHit && result.CacheInfo.RenderHit)

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, basePath(output, "web"))
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}

	if meshPath != "" {
		if err := pkgio.ExportMesh(result.Mesh, meshPath); err != nil {
			return err
		}
		printFile(meshPath)
		printNextStep("Render it again with", "spiderweb render "+meshPath)
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
