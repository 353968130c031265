package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewResolvePredictionsCmd creates the resolve-predictions command.
func NewResolvePredictionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-predictions [pull-request-id]",
		Short: "Settle open predictions on a decided pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withToolkit(cmd.Context(), func(ctx context.Context, kit Toolkit) error {
				result, err := kit.ResolvePredictions(ctx, args[0])
				if err != nil {
					return fmt.Errorf("resolve predictions: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
}
