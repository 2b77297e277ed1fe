package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ttgen/pkg/compiler"
	"github.com/matzehuels/ttgen/pkg/layout"
	"github.com/matzehuels/ttgen/pkg/render/nodelink"
)

// layoutFlags holds the command-line flags for the layout command.
type layoutFlags struct {
	format   string
	dot      string // DOT output path, "-" for stdout
	svg      string // SVG output path
	detailed bool
}

// layoutCommand creates the layout command for previewing placements.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [scene]",
		Short: "Show where the layout places every node",
		Long: `Show where the layout places every node.

Compiles the scene without writing a save and prints a table of every layout
node with its rectangle on the table. --dot and --svg additionally write the
layout tree as a Graphviz diagram, with dashed edges to the components each
node places.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.format, "format", "f", "", "document format: yaml, json, toml (default: from extension)")
	cmd.Flags().StringVar(&f.dot, "dot", "", "write the layout tree as DOT (\"-\" for stdout)")
	cmd.Flags().StringVar(&f.svg, "svg", "", "render the layout tree to an SVG file")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "include paths, sizes and positions in diagram labels")

	return cmd
}

// runLayout compiles the scene and prints or renders its layout.
func (c *CLI) runLayout(ctx context.Context, input string, f layoutFlags) error {
	res, err := c.compileOnly(ctx, input, f.format)
	if err != nil {
		return err
	}

	if f.dot == "" && f.svg == "" {
		c.out.line(placementTable(res.Placements))
		c.out.stats(res.Stats.Components, 0, false)
		c.out.detail("%d snap points · %d boxes", res.Stats.SnapPoints, res.Stats.Boxes)
		return nil
	}

	dot := nodelink.ToDOT(res.Layout, res.Placements, nodelink.Options{Detailed: f.detailed})
	if f.dot == "-" {
		fmt.Fprint(c.out.w, dot)
	} else if f.dot != "" {
		if err := os.WriteFile(f.dot, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.dot, err)
		}
		c.out.success("Layout diagram written")
		c.out.file(f.dot)
	}

	if f.svg != "" {
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		if err := os.WriteFile(f.svg, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.svg, err)
		}
		c.out.success("Layout rendered")
		c.out.file(f.svg)
	}
	return nil
}

// compileOnly runs the pipeline up to placement, without cache or save.
func (c *CLI) compileOnly(ctx context.Context, input, format string) (*compiler.Result, error) {
	src, f, err := readScene(input, format)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, true, "")
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	res, err := runner.Compile(ctx, src, f, c.compileOptions())
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Resolved %d components, %d layout nodes", res.Stats.Components, res.Stats.Nodes))
	return res, nil
}

// placementTable renders placements as a bordered table.
func placementTable(placements []layout.Placement) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	numStyle := lipgloss.NewStyle().Foreground(colorAccent).Align(lipgloss.Right)

	rows := make([][]string, 0, len(placements))
	for _, p := range placements {
		key := p.Key
		if key == "" {
			key = "—"
		}
		rows = append(rows, []string{
			displayPath(p.Path),
			p.Tag,
			key,
			fmt.Sprintf("%.2f", p.Rect.CenterX()),
			fmt.Sprintf("%.2f", p.Rect.CenterY()),
			fmt.Sprintf("%.2f", p.Rect.Width()),
			fmt.Sprintf("%.2f", p.Rect.Height()),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("Node", "Tag", "Places", "X", "Y", "W", "H").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col >= 3:
				return numStyle
			case col == 2 && rows[row][2] != "—":
				return lipgloss.NewStyle().Foreground(colorOK)
			}
			return lipgloss.NewStyle().Foreground(colorValue)
		})
	return t.Render()
}

// displayPath indents a layout path by its depth.
func displayPath(path string) string {
	return strings.Repeat("  ", strings.Count(path, "[")) + path
}
