package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"atelier/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "atelierctl",
		Short: "Operator tooling for the atelier observer-experience services",
		Long: `atelierctl runs one-shot maintenance actions against the configured
database: schema migration, draft arc recomputation, manual review event
fan-out and prediction resolution for a decided pull request.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		commands.NewMigrateCmd(),
		commands.NewRecomputeArcCmd(),
		commands.NewRecordEventCmd(),
		commands.NewResolvePredictionsCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
