package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health command
func NewHealthCmd() *cobra.Command {
	var board string
	var list string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Run a health audit on a board or a single list",
		Long:  "Apply the per-card health rules and print the problems, recommendations and verdict as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}

			ctx := context.Background()
			if list != "" {
				report, err := engine.AuditList(ctx, board, list)
				if err != nil {
					return err
				}
				return printJSON(report)
			}

			report, err := engine.AnalyzeBoardHealth(ctx, board)
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Board name or ID (defaults to TRELLO_DEFAULT_BOARD)")
	cmd.Flags().StringVar(&list, "list", "", "Restrict the audit to a single list")

	return cmd
}
