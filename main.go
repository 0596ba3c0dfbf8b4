package main

import (
	"callcenter-sim/cli"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "callcenter-sim",
		Short:         "Deterministic synthetic call center data generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(cli.GenerateCommand())
	root.AddCommand(cli.ResetCommand())

	// Ctrl+C stops the simulation between days.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
