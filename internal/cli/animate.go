package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/pipeline"
)

// animateCommand creates the animate command.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		outDir  string
		noCache bool
		refresh bool
	)
	flags := newConfigFlags()

	cmd := &cobra.Command{
		Use:   "animate [config.toml]",
		Short: "Render every frame of an animation",
		Long: `Animate a web and render one file per frame.

A run with --frames N writes N+1 snapshots at evenly spaced times from 0
to 1, named frame_0000.svg, frame_0001.svg and so on. Frames are rendered
concurrently and cached individually.

Behaviors:
  spread   the web grows outward from its hub
  shot     the web flies from --origin to --target
  tether   a strand shoots from --origin and anchors at --target`,
		Example: `  spiderweb animate -b shot --origin 0,-6,1 --gravity 0,0,-9.81 --trail 0.3
  spiderweb animate web.toml --frames 48 -f png -o frames/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.load(cmd.Flags(), firstArg(args)); err != nil {
				return err
			}
			opts := flags.options()
			opts.Refresh = refresh
			if _, ok := anim.ParseBehavior(opts.Animation.Behavior); !ok {
				return errors.New(errors.ErrCodeInvalidState, "unknown behavior %q (must be one of: spread, shot, tether)", opts.Animation.Behavior)
			}
			return c.runAnimate(cmd.Context(), opts, outDir, noCache)
		},
	}

	flags.bindWeb(cmd.Flags())
	flags.bindRender(cmd.Flags())
	flags.bindAnimation(cmd.Flags())
	cmd.Flags().StringVarP(&outDir, "output", "o", "frames", "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runAnimate(ctx context.Context, opts pipeline.Options, outDir string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Animating %s...", opts.Animation.Behavior))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Animation failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d frames", len(result.Frames)))

	printSuccess("Animated %s over %d frames", StyleHighlight.Render(opts.Animation.Behavior), len(result.Frames))
	printStats(result.Stats, result.CacheInfo.FrameHits == len(result.Frames))

	for _, f := range result.Frames {
		if _, err := writeArtifacts(f.Artifacts, opts.Formats, frameBase(outDir, f.Index)); err != nil {
			return err
		}
	}
	printFile(frameBase(outDir, 0) + "." + opts.Formats[0])
	if n := len(result.Frames); n > 1 {
		printFile(frameBase(outDir, n-1) + "." + opts.Formats[0])
	}
	printNextStep("Scrub it interactively with", "spiderweb preview -b "+opts.Animation.Behavior)
	return nil
}
