// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/company-story/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent generation runs",
	Long: `History lists recent runs from the ledger, newest first: company
identifier, date, model, whether the fact pack came from cache, run status,
and duration.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("cache-dir")
	limit, _ := cmd.Flags().GetInt("limit")

	ledger, err := history.Open(dir)
	if err != nil {
		return err
	}
	defer ledger.Close()

	runs, err := ledger.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, r := range runs {
		source := "api"
		if r.CacheHit {
			source = "cache"
		}
		fmt.Printf("%s  %s  %-9s %-6s %-6s %6dms  %s\n",
			r.Date, r.Identifier, r.Model, source, r.Status, r.DurationMS, r.CreatedAt)
	}
	return nil
}

func init() {
	historyCmd.Flags().String("cache-dir", defaultCacheDir, "directory holding the run ledger")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	rootCmd.AddCommand(historyCmd)
}
