// Package cmd implements the zapmedia command line.
// This file contains helpers for reading configuration with CLI flag precedence.
package cmd

import (
	"fmt"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// FlagLoader reads configuration values with CLI flag precedence.
// A flag named like a config key ("store.type") wins when explicitly set;
// otherwise viper's priority applies: env > config file > default.
type FlagLoader struct {
	cmd *cobra.Command
}

// NewFlagLoader creates a FlagLoader for the given cobra command.
func NewFlagLoader(cmd *cobra.Command) *FlagLoader {
	return &FlagLoader{cmd: cmd}
}

func (f *FlagLoader) changed(name string) bool {
	return f.cmd.Flags().Lookup(name) != nil && f.cmd.Flags().Changed(name)
}

// String returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) String(name string) string {
	if f.changed(name) {
		val, _ := f.cmd.Flags().GetString(name)
		return val
	}
	return viper.GetString(name)
}

// Int returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) Int(name string) int {
	if f.changed(name) {
		val, _ := f.cmd.Flags().GetInt(name)
		return val
	}
	return viper.GetInt(name)
}

// StringSlice returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) StringSlice(name string) []string {
	if f.changed(name) {
		val, _ := f.cmd.Flags().GetStringSlice(name)
		return val
	}
	return viper.GetStringSlice(name)
}

// Bytes parses a human readable size such as "25MB" or "1GiB". Empty
// yields 0.
func (f *FlagLoader) Bytes(name string) (int64, error) {
	s := f.String(name)
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return int64(n), nil
}

// Category parses a category name. Empty means unset.
func (f *FlagLoader) Category(name string) (media.Category, error) {
	return media.ParseCategory(f.String(name))
}
