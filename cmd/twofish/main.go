package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/twofish/internal/cli"
	errs "github.com/matzehuels/twofish/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, errs.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

// exitCode separates contradictions (2) from every other failure (1).
func exitCode(err error) int {
	if errs.Is(err, errs.ErrCodeContradictoryConstraint) {
		return 2
	}
	return 1
}
