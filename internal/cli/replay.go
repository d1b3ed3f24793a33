package cli

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vmslayers/pkg/availability"
	"github.com/matzehuels/vmslayers/pkg/broker"
	offeringio "github.com/matzehuels/vmslayers/pkg/io"
)

// replayOpts holds the command-line flags for the replay command.
type replayOpts struct {
	noCache bool
}

// replayCommand creates the replay command. Each file is one round of
// offering updates applied to a single broker, in argument order.
func (c *CLI) replayCommand() *cobra.Command {
	var opts replayOpts

	cmd := &cobra.Command{
		Use:   "replay <file>...",
		Short: "Apply offering files as successive updates and print availability changes",
		Long: `Replay feeds offering files to a broker one after another.

Every offering replaces the previous offering of the same publisher; an
offering without dependencies withdraws everything that publisher offered.
Offerings without a publisher name are attributed to the file they came from.
Each change in availability is printed with its sequence number.`,
		Example: `  vmslayers replay boot.toml nav-online.toml nav-offline.toml`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// changePrinter prints every availability change it is notified of.
type changePrinter struct {
	w       io.Writer
	changes int
}

func (p *changePrinter) OnAvailabilityChange(_ context.Context, state availability.State, change availability.Change) {
	p.changes++
	printChange(p.w, state.Sequence, change.Added, change.Removed)
}

func (c *CLI) runReplay(ctx context.Context, w io.Writer, files []string, opts replayOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	b := newBroker(ctx, runner)
	printer := &changePrinter{w: w}
	b.AddAvailabilityListener(printer)
	defer b.RemoveAvailabilityListener(printer)

	tokens := make(map[string]broker.Token)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		offerings, err := offeringio.ImportOfferings(file)
		if err != nil {
			return err
		}
		logger.Debug("replaying", "file", file, "offerings", len(offerings))

		for _, o := range offerings {
			name := o.Publisher
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			}
			tok, ok := tokens[name]
			if !ok {
				if tok, err = b.Register(name); err != nil {
					return err
				}
				tokens[name] = tok
			}
			if _, err := b.SetOffering(ctx, tok, o); err != nil {
				return err
			}
		}
	}

	state := b.Availability()
	prog.done("replayed", "files", len(files), "publishers", len(tokens), "changes", printer.changes)

	if printer.changes == 0 {
		printInfo(w, "No availability changes")
	}
	printKeyValue(w, "sequence", strconv.Itoa(state.Sequence))
	printResult(w, state.Result)
	return nil
}
