package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/shelldesk/internal/history"
	"github.com/zjrosen/shelldesk/internal/paths"
	"github.com/zjrosen/shelldesk/internal/presentation"
)

var (
	historyLimit int
	historyID    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent script runs as JSON",
	Long: `List recent interpreter runs recorded by the editor and "shelldesk run",
newest first. Use --id to print one run including its captured output.

Examples:
  shelldesk history
  shelldesk history -n 5
  shelldesk history --id 3f1c... | jq -r .output`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !cfg.History.Enabled {
			return errors.New("run history is disabled (history.enabled: false)")
		}
		store, err := history.Open(cmd.Context(), paths.ExpandHome(cfg.History.Path))
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		if historyID != "" {
			run, err := store.Get(cmd.Context(), historyID)
			if err != nil {
				return fmt.Errorf("run %s: %w", historyID, err)
			}
			return formatter.FormatRun(presentation.FromRun(run, true))
		}

		runs, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		return formatter.FormatRuns(presentation.FromRuns(runs))
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to list")
	historyCmd.Flags().StringVar(&historyID, "id", "", "show a single run with its output")
	rootCmd.AddCommand(historyCmd)
}
