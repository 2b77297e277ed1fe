package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand creates the interactive component browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [scene]",
		Short: "Browse the compiled components of a scene",
		Long: `Browse the compiled components of a scene.

Compiles the scene without writing a save and opens an interactive list of
its components with their final positions and the layout node that placed
each of them.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "document format: yaml, json, toml (default: from extension)")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input, format string) error {
	res, err := c.compileOnly(ctx, input, format)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewComponentListModel(res), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("inspect: %w", err)
	}
	return nil
}
