// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [public_id...]",
	Short: "Delete assets by identifier or prefix",
	Long: `Delete one or more assets. Without --category, a single delete probes
image, video and raw in turn when the asset is not found under the guessed
category. With --prefix, every asset under the prefix is deleted.`,
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	f := deleteCmd.Flags()
	f.String("category", "", "Category of the assets (disables probing)")
	f.String("prefix", "", "Delete every asset whose identifier starts with this prefix")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	prefix, _ := cmd.Flags().GetString("prefix")
	if prefix == "" && len(args) == 0 {
		return fmt.Errorf("delete needs at least one public id or --prefix")
	}
	if prefix != "" && len(args) > 0 {
		return fmt.Errorf("--prefix cannot be combined with public ids")
	}

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
	if len(args) == 1 && prefix == "" {
		res, err := mgr.DeleteFile(ctx, args[0], category)
		if err != nil && !media.IsNotFound(err) {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(out, res)
		}
		fmt.Fprintf(out, "%s: %s\n", args[0], res.Result)
		return nil
	}

	var res *media.BatchDeleteOutcome
	if prefix != "" {
		res, err = mgr.DeleteFolder(ctx, prefix, category)
	} else {
		res, err = mgr.DeleteFiles(ctx, args, category)
	}
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(out, res)
	}
	for id, status := range res.Deleted {
		fmt.Fprintf(out, "%s: %s\n", id, status)
	}
	fmt.Fprintf(out, "deleted %d asset(s)", res.Total())
	if res.Partial {
		fmt.Fprint(out, " (partial)")
	}
	fmt.Fprintln(out)
	printFailures(out, res.Failed)
	return nil
}
