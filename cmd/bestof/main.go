package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/bestof/internal/cli"
	bterrors "github.com/matzehuels/bestof/pkg/errors"
)

// Exit codes.
const (
	exitFailure     = 1
	exitInvalidData = 2
	exitInterrupted = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode prints err and maps it to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	fmt.Fprintln(os.Stderr, "Error:", bterrors.UserMessage(err))
	switch bterrors.GetCode(err) {
	case bterrors.ErrCodeInvalidInput, bterrors.ErrCodeInvalidConfig, bterrors.ErrCodeFileNotFound:
		return exitInvalidData
	}
	return exitFailure
}
