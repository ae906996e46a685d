package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/spiderweb/pkg/io"
)

const defaultConfigName = "spiderweb.toml"

// initCommand creates the init command.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Long: `Write the default configuration as TOML.

The file lists every shape, animation and render setting with its default
value. Pass it to generate or animate and override single values with flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := firstArg(args)
			if path == "" {
				path = defaultConfigName
			}
			return runInit(path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func runInit(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := pkgio.SaveConfig(pkgio.DefaultConfig(), path); err != nil {
		return err
	}
	printSuccess("Wrote default configuration")
	printFile(path)
	printNextStep("Generate a web with", "spiderweb generate "+path)
	return nil
}
