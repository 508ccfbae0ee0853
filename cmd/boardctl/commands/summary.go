package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewSummaryCmd creates the summary command
func NewSummaryCmd() *cobra.Command {
	var board string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Generate a narrated executive summary of a board",
		Long:  "Run the snapshot, health, history and cleanup analyses in parallel and ask the configured model for a French executive summary (requires OPENAI_API_KEY)",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}

			report, err := engine.GenerateSummary(context.Background(), board)
			if err != nil {
				return err
			}

			return printJSON(report)
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Board name or ID (defaults to TRELLO_DEFAULT_BOARD)")

	return cmd
}
