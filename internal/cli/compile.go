package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/loader"
)

// compileFlags holds the command-line flags for the compile command.
type compileFlags struct {
	output  string // output directory
	format  string // document format, required for stdin
	assets  string // asset directory
	seed    string // GUID seed
	strict  bool
	noCache bool
}

// compileCommand creates the compile command.
func (c *CLI) compileCommand() *cobra.Command {
	var f compileFlags

	cmd := &cobra.Command{
		Use:   "compile [scene]",
		Short: "Compile a scene document into a Tabletop Simulator save",
		Long: `Compile a scene document into a Tabletop Simulator save.

The document format is inferred from the file extension (.yaml, .yml, .json,
.toml). Pass "-" to read from stdin together with --format.

The save is written to <output>/<scene name>.json. Results are cached locally,
keyed by the document and every option that affects the save.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strict") {
				f.strict = c.Config.Strict
			}
			return c.runCompile(cmd.Context(), args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output directory (default: config output_dir or .)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "document format: yaml, json, toml (default: from extension)")
	cmd.Flags().StringVar(&f.assets, "assets", "", "asset directory for components without image URLs")
	cmd.Flags().StringVar(&f.seed, "seed", "", "seed for reproducible object GUIDs")
	cmd.Flags().BoolVar(&f.strict, "strict", true, "reject fields a component does not declare")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runCompile reads the scene, compiles it and writes the save.
func (c *CLI) runCompile(ctx context.Context, input string, f compileFlags) error {
	src, format, err := readScene(input, f.format)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache, f.assets)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.compileOptions()
	opts.Strict = f.strict
	if f.seed != "" {
		opts.Seed = f.seed
	}

	spinner := newSpinnerWithContext(ctx, "Compiling scene...")
	spinner.Start()

	out, err := runner.Execute(ctx, src, format, opts)
	if err != nil {
		spinner.StopWithError("Compile failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	dir := f.output
	if dir == "" {
		dir = c.Config.OutputDir
	}
	if dir == "" {
		dir = "."
	}
	path, err := writeSave(dir, out.Name, out.Save)
	if err != nil {
		return err
	}

	components := 0
	if out.Result != nil {
		components = out.Result.Stats.Components
	}
	c.out.success("Compiled %s", StyleHighlight.Render(out.Name))
	c.out.file(path)
	c.out.stats(components, out.ObjectCount, out.CacheHit)
	c.out.blank()
	if input != "-" {
		c.out.nextStep("Inspect", appName+" inspect "+input)
	}
	return nil
}

// readScene returns the document bytes and format. "-" reads stdin.
func readScene(input, format string) ([]byte, loader.Format, error) {
	if input == "-" {
		f := loader.FormatYAML
		if format != "" {
			var err error
			if f, err = loader.ParseFormat(format); err != nil {
				return nil, "", err
			}
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, f, nil
	}

	if err := errors.ValidatePath(input); err != nil {
		return nil, "", err
	}
	var (
		f   loader.Format
		err error
	)
	if format != "" {
		f, err = loader.ParseFormat(format)
	} else {
		f, err = loader.FormatFromPath(input)
	}
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", input)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", input)
	}
	return data, f, nil
}

// writeSave writes save to dir/<name>.json and returns the path.
func writeSave(dir, name string, save []byte) (string, error) {
	if err := errors.ValidatePath(dir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, save, 0o644); err != nil {
		return "", fmt.Errorf("write output %s: %w", path, err)
	}
	return path, nil
}
