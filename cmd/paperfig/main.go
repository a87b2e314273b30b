package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/paperfig/paperfig/internal/cli"
	figerrors "github.com/paperfig/paperfig/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		if figerrors.GetCode(err) != "" {
			os.Exit(2) // Domain errors: the spec file or its renderers are at fault
		}
		os.Exit(1)
	}
}
