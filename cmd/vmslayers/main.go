package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/vmslayers/internal/cli"
	vmserrors "github.com/matzehuels/vmslayers/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}

// exitCode maps input problems to 2 and everything else to 1.
func exitCode(err error) int {
	switch vmserrors.GetCode(err) {
	case vmserrors.ErrCodeInvalidInput, vmserrors.ErrCodeInvalidLayer, vmserrors.ErrCodeInvalidOffering,
		vmserrors.ErrCodeInvalidFormat, vmserrors.ErrCodeInvalidConfig, vmserrors.ErrCodeInvalidPath, vmserrors.ErrCodeInvalidPublisher,
		vmserrors.ErrCodeFileNotFound:
		return 2
	default:
		return 1
	}
}
