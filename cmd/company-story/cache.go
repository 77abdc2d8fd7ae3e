// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/company-story/internal/cache"
	"github.com/pdiddy/company-story/internal/identity"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the local fact pack cache",
	Long: `Cache lists and removes cached fact packs. Entries are keyed by the
company identifier and the generation date, one JSON file per entry.`,
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached fact packs",
	RunE:  runCacheLs,
}

func runCacheLs(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("cache-dir")
	store := cache.NewStore(dir, os.Stderr)

	entries, err := store.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("cache is empty")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %8d bytes  %s\n", e.Key, e.Size, e.ModTime.Format(time.RFC3339))
	}
	return nil
}

var cacheRmCmd = &cobra.Command{
	Use:   "rm [company]",
	Short: "Remove today's cached fact pack for a company",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheRm,
}

func runCacheRm(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("cache-dir")
	store := cache.NewStore(dir, os.Stderr)

	key := identity.Key(identity.Identifier(args[0]), time.Now())
	if err := store.Remove(key); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", store.Path(key))
	return nil
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", defaultCacheDir, "directory for cached fact packs")

	cacheCmd.AddCommand(cacheLsCmd)
	cacheCmd.AddCommand(cacheRmCmd)
	rootCmd.AddCommand(cacheCmd)
}
