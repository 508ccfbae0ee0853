package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var board string
	var since string
	var before string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Audit the activity feed of a board",
		Long:  "Scan board actions for stalled cards, inactive members, activity spikes and other anomalies and print the report as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}

			report, err := engine.AuditHistory(context.Background(), board, since, before)
			if err != nil {
				return err
			}

			return printJSON(report)
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Board name or ID (defaults to TRELLO_DEFAULT_BOARD)")
	cmd.Flags().StringVar(&since, "since", "", "Only consider actions after this RFC3339 timestamp")
	cmd.Flags().StringVar(&before, "before", "", "Only consider actions before this RFC3339 timestamp")

	return cmd
}
