// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text or json")
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetString("output")
	return strings.EqualFold(v, "json")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printDescriptor(w io.Writer, d *media.AssetDescriptor) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Public ID:\t%s\n", d.PublicID)
	fmt.Fprintf(tw, "Category:\t%s\n", d.Category)
	fmt.Fprintf(tw, "URL:\t%s\n", d.SecureURL)
	fmt.Fprintf(tw, "Size:\t%s\n", humanize.IBytes(uint64(max(d.Bytes, 0))))
	if d.Format != "" {
		fmt.Fprintf(tw, "Format:\t%s\n", d.Format)
	}
	if d.Width != nil && d.Height != nil {
		fmt.Fprintf(tw, "Dimensions:\t%dx%d\n", *d.Width, *d.Height)
	}
	if !d.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "Created:\t%s (%s)\n", d.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(d.CreatedAt))
	}
	if len(d.Tags) > 0 {
		fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(d.Tags, ", "))
	}
	tw.Flush()
}

func printResourceInfo(w io.Writer, info *media.ResourceInfo) {
	printDescriptor(w, &info.AssetDescriptor)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(info.Context) > 0 {
		keys := make([]string, 0, len(info.Context))
		for k := range info.Context {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(tw, "Context %s:\t%s\n", k, info.Context[k])
		}
	}
	for i, c := range info.Colors {
		if i == 5 {
			break
		}
		fmt.Fprintf(tw, "Color:\t%s %.1f%%\n", c.Hex, c.Percent)
	}
	if len(info.Faces) > 0 {
		fmt.Fprintf(tw, "Faces:\t%d\n", len(info.Faces))
	}
	tw.Flush()
}

// printResourceTable prints one line per resource.
func printResourceTable(w io.Writer, rs []media.ResourceInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PUBLIC ID\tCATEGORY\tFORMAT\tSIZE\tCREATED")
	for _, r := range rs {
		created := "-"
		if !r.CreatedAt.IsZero() {
			created = humanize.Time(r.CreatedAt)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.PublicID, r.Category, r.Format, humanize.IBytes(uint64(max(r.Bytes, 0))), created)
	}
	tw.Flush()
}

func printFailures(w io.Writer, failed []media.GroupFailure) {
	for _, f := range failed {
		fmt.Fprintf(w, "FAILED %s (%s): %s\n", f.Category, humanize.Comma(int64(len(f.IDs)))+" ids", f.Message)
	}
}
