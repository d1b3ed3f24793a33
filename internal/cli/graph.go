package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	offeringio "github.com/matzehuels/vmslayers/pkg/io"
	"github.com/matzehuels/vmslayers/pkg/pipeline"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output file; stdout if empty
	format   string // dot or svg; inferred from output when empty
	detailed bool   // publishers and alternatives in labels
	noCache  bool   // bypass result and render caches
}

// graphCommand creates the graph command for rendering layer dependencies.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph <file>...",
		Short: "Render the layer dependency graph as DOT or SVG",
		Example: `  vmslayers graph offerings.toml -o layers.svg
  vmslayers graph offerings.toml | dot -Tpng > layers.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := graphFormat(opts.format, opts.output)
			if err != nil {
				return err
			}
			opts.format = format
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg (default from --output extension, else dot)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show publishers and alternative declarations")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// graphFormat picks the output format from the flag or the output extension.
func graphFormat(flag, output string) (string, error) {
	format := strings.ToLower(flag)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	if format == "gv" {
		format = pipeline.FormatDOT
	}
	opts := pipeline.Options{Format: format}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", err
	}
	return opts.Format, nil
}

func (c *CLI) runGraph(ctx context.Context, w io.Writer, files []string, opts graphOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	offerings, err := offeringio.ImportAll(files)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, offerings, pipeline.Options{Format: opts.format, Detailed: opts.detailed})
	if err != nil {
		return err
	}
	prog.done("rendered graph", "format", opts.format, "cached", res.CacheInfo.RenderHit)

	if opts.output == "" {
		_, err := w.Write(res.Artifact)
		return err
	}
	if err := os.WriteFile(opts.output, res.Artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess(w, "Rendered %s graph", opts.format)
	printFile(w, opts.output)
	return nil
}
