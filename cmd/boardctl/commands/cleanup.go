package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewCleanupCmd creates the cleanup command
func NewCleanupCmd() *cobra.Command {
	var board string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Suggest cleanup actions for a board",
		Long:  "Group cards into cleanup buckets (old done cards, missing due dates, overloaded lists, ...) and print the plan as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}

			plan, err := engine.SuggestCleanup(context.Background(), board)
			if err != nil {
				return err
			}

			return printJSON(plan)
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Board name or ID (defaults to TRELLO_DEFAULT_BOARD)")

	return cmd
}
