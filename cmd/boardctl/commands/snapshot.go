package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewSnapshotCmd creates the snapshot command
func NewSnapshotCmd() *cobra.Command {
	var board string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print a structured snapshot of a board",
		Long:  "Fetch every open list and card on a board and print the snapshot with per-board statistics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}

			snapshot, err := engine.BuildSnapshot(context.Background(), board)
			if err != nil {
				return err
			}

			return printJSON(snapshot)
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Board name or ID (defaults to TRELLO_DEFAULT_BOARD)")

	return cmd
}
