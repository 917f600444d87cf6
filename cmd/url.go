// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var urlCmd = &cobra.Command{
	Use:   "url <public_id>",
	Short: "Print a delivery URL for an asset",
	Long: `Print the optimized delivery URL of an asset, or a square thumbnail URL
with --thumbnail. No request is sent to the store.`,
	Args: cobra.ExactArgs(1),
	RunE: runURL,
}

func init() {
	rootCmd.AddCommand(urlCmd)

	f := urlCmd.Flags()
	f.Int("thumbnail", 0, "Print a square thumbnail URL of this size instead")
	f.StringArray("transform", nil, "Extra transformation directive as key=value pairs (repeatable)")
}

func runURL(cmd *cobra.Command, args []string) error {
	size, _ := cmd.Flags().GetInt("thumbnail")
	raw, _ := cmd.Flags().GetStringArray("transform")
	overrides, err := parseDirectives(raw)
	if err != nil {
		return err
	}

	d := media.NewDelivery(viper.GetString("cloud.delivery_base"), viper.GetString("cloud.name"))
	if size > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), d.ThumbnailURL(args[0], size))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), d.OptimizedURL(args[0], overrides...))
	return nil
}
