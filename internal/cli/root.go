package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/ttgen/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Every subcommand sees c.Config resolved from --config, the default config
// locations and TTGEN_* variables.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "ttgen compiles tabletop scene documents into Tabletop Simulator saves",
		Long: `ttgen reads a scene document (YAML, JSON or TOML) declaring components,
players and a nested layout, places every component on the table and writes
a save file that Tabletop Simulator loads directly.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./ttgen.toml or ~/.config/ttgen/config.toml)")

	root.AddCommand(c.compileCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
