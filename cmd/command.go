// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LeeDigitalWorks/zapmedia/pkg/debug"
	"github.com/LeeDigitalWorks/zapmedia/pkg/logger"
	"github.com/LeeDigitalWorks/zapmedia/pkg/utils"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "zapmedia",
	Short: "ZapMedia - media asset management",
	Long: `ZapMedia uploads, inspects, searches and deletes media assets on a
remote media store (Cloudinary-compatible API, S3 bucket or in-memory store).
Deletes and lookups recover from category mismatches by probing.`,
	PersistentPreRunE: initialize,
	SilenceUsage:      true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&utils.ConfigurationFileDirectory, "config_dir", ".", "Directory for configuration files")
	f.String("log_level", "", "Log level (debug, info, warn, error). Overrides LOG_LEVEL")
	f.Int("debug_port", 0, "Serve /metrics, /health and /ready on this port while the command runs (0 = disabled)")
	f.String("store.type", "", "Media store: cloud, s3 or memory")
	f.String("store.root_folder", "", "Root folder every upload is placed under")

	viper.BindPFlags(f)
}

// initialize loads the configuration file and applies logging and debug
// server flags before any subcommand runs.
func initialize(cmd *cobra.Command, args []string) error {
	if _, err := utils.LoadConfiguration("zapmedia", false); err != nil {
		return err
	}

	fl := NewFlagLoader(cmd)
	if lvl := fl.String("log_level"); lvl != "" {
		level, err := zerolog.ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", lvl, err)
		}
		logger.SetLevel(level)
	}

	if port := fl.Int("debug_port"); port > 0 {
		addr := fmt.Sprintf(":%d", port)
		go func() {
			if err := debug.Serve(cmd.Context(), addr); err != nil {
				logger.Warn().Err(err).Str("addr", addr).Msg("debug server stopped")
			}
		}()
		debug.SetReady()
	}
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
