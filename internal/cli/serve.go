package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spiderweb/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	flags := newConfigFlags()

	cmd := &cobra.Command{
		Use:   "serve [config.toml]",
		Short: "Run the preview HTTP API",
		Long: `Serve webs, animation frames and a mutable scene over HTTP.

Routes:
  GET  /web.{format}            synthesize and render a web
  GET  /frame.{format}?t=0.5    render one animation frame
  GET  /scene                   list scene objects
  POST /scene                   add an object
  ...  /scene/{id}              get, update or remove an object

Query parameters override the configuration and flags given here, which
become the server's defaults. The server shuts down gracefully on SIGINT.`,
		Example: `  spiderweb serve --addr :8080
  curl 'localhost:8080/web.svg?spokes=9&ribs=5&curvature=0.3'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.load(cmd.Flags(), firstArg(args)); err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(server.Config{
				Runner:   runner,
				Defaults: flags.options(),
				Logger:   c.Logger,
			})
			printInfo("Serving on %s", StyleHighlight.Render("http://"+addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	flags.bindWeb(cmd.Flags())
	flags.bindRender(cmd.Flags())
	flags.bindAnimation(cmd.Flags())
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
