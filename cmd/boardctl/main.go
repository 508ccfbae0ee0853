package main

import (
	"fmt"
	"os"

	"github.com/pberthonneau/trello-copilot/cmd/boardctl/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "boardctl",
		Short: "Board analysis tool for Trello Copilot",
		Long:  "CLI tool for running board snapshots, audits and cleanup plans from the terminal",
	}

	rootCmd.AddCommand(commands.NewSnapshotCmd())
	rootCmd.AddCommand(commands.NewHealthCmd())
	rootCmd.AddCommand(commands.NewHistoryCmd())
	rootCmd.AddCommand(commands.NewCleanupCmd())
	rootCmd.AddCommand(commands.NewSummaryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
