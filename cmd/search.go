// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [expression]",
	Short: "Search assets with an expression",
	Long: `Search assets, e.g. 'folder:minhloc/images AND tags:banner'. Results
always carry tags, context and metadata.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	f := searchCmd.Flags()
	f.String("sort_by", "created_at", "Field to sort by")
	f.String("direction", "desc", "Sort direction: asc or desc")
	f.Int("max_results", 0, "Page size (default 50)")
	f.String("cursor", "", "Cursor returned by a previous page")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	expr := ""
	if len(args) == 1 {
		expr = args[0]
	}

	f := cmd.Flags()
	sortBy, _ := f.GetString("sort_by")
	direction, _ := f.GetString("direction")
	maxResults, _ := f.GetInt("max_results")
	cursor, _ := f.GetString("cursor")

	mgr, closer, err := openManager(ctx, cmd)
	if err != nil {
		return err
	}
	defer closer()

	res, err := mgr.SearchResources(ctx, expr, media.SearchOptions{
		SortBy:     sortBy,
		Direction:  media.SortDirection(strings.ToLower(direction)),
		MaxResults: maxResults,
		NextCursor: cursor,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		return printJSON(out, res)
	}
	printResourceTable(out, res.Resources)
	fmt.Fprintf(out, "%d of %d result(s)\n", len(res.Resources), res.TotalCount)
	if res.NextCursor != "" {
		fmt.Fprintf(out, "next cursor: %s\n", res.NextCursor)
	}
	return nil
}
