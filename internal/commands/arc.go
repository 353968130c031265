package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewRecomputeArcCmd creates the recompute-arc command.
func NewRecomputeArcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-arc [draft-id]",
		Short: "Recompute and persist the arc summary for a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withToolkit(cmd.Context(), func(ctx context.Context, kit Toolkit) error {
				summary, err := kit.RecomputeArc(ctx, args[0])
				if err != nil {
					return fmt.Errorf("recompute arc: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
}

// NewRecordEventCmd creates the record-event command. It runs the same
// fan-out the worker performs for a review-system event.
func NewRecordEventCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record-event [draft-id] [event-type]",
		Short: "Fan a draft event out to follower digests",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withToolkit(cmd.Context(), func(ctx context.Context, kit Toolkit) error {
				result, err := kit.RecordDraftEvent(ctx, args[0], args[1])
				if err != nil {
					return fmt.Errorf("record event: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
}
