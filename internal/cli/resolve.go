package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vmslayers/pkg/availability"
	offeringio "github.com/matzehuels/vmslayers/pkg/io"
	"github.com/matzehuels/vmslayers/pkg/layer"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	output  string // report file path
	json    bool   // print the JSON report instead of the summary
	noCache bool   // bypass the result cache
}

// resolveCommand creates the resolve command. The offerings of all files are
// resolved together.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve <file>...",
		Short: "Compute available layers from offering files",
		Example: `  vmslayers resolve navigation.toml weather.json
  vmslayers resolve --json offerings.toml > report.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON report to file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the JSON report to stdout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, w io.Writer, files []string, opts resolveOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	offerings, err := offeringio.ImportAll(files)
	if err != nil {
		return err
	}
	logger.Debug("read offerings", "files", len(files), "offerings", len(offerings))

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, cached := runner.ResolveWithCacheInfo(ctx, offerings)
	prog.done("resolved", "offerings", len(offerings), "cached", cached)

	if opts.output != "" {
		if err := offeringio.ExportReport(opts.output, result); err != nil {
			return err
		}
	}
	if opts.json {
		return offeringio.WriteReport(w, result)
	}

	printResult(w, result)
	printStats(w, len(offerings), result.Passes(), cached)
	if opts.output != "" {
		printFile(w, opts.output)
	}
	return nil
}

func printResult(w io.Writer, r availability.Result) {
	available, unavailable := r.Available(), r.Unavailable()

	if len(available) == 0 {
		printWarning(w, "No layers available")
	} else {
		printSuccess(w, "%d layers available", len(available))
		printLayers(w, available, styleAvailable, nil, "")
	}
	if len(unavailable) > 0 {
		printInfo(w, "%d layers unavailable", len(unavailable))
		printLayers(w, unavailable, StyleDim, layer.NewSet(r.Missing()...), "missing")
	}
}
