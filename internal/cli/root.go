package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/spiderweb/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent --redis flag overrides the SPIDERWEB_REDIS environment
// variable. Pipeline and cache events are logged at debug level.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Spiderweb generates and animates procedural spider webs",
		Long:         `Spiderweb builds radial spider-web meshes from a handful of shape parameters, animates them spreading, flying or tethering into place, and renders the result as SVG, PNG, PDF, JSON or Graphviz DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			installHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.RedisAddr, "redis", c.RedisAddr, "share the render cache through Redis at this address")

	root.AddCommand(c.initCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
