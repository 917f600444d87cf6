// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <public_id...>",
	Short: "Show extended asset information",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().String("category", "", "Category of the assets (disables probing)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	category, err := NewFlagLoader(cmd).Category("category")
	if err != nil {
		return err
	}

	mgr, closer, err := openManager(ctx, cmd)
	if err != nil {
		return err
	}
	defer closer()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		info, err := mgr.GetFileInfo(ctx, args[0], category)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(out, info)
		}
		printResourceInfo(out, info)
		return nil
	}

	res, err := mgr.GetFilesInfo(ctx, args, category)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(out, res)
	}
	printResourceTable(out, res.Resources)
	printFailures(out, res.Failed)
	return nil
}
