// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package utils holds configuration file discovery and path helpers shared
// by the command line.
package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LeeDigitalWorks/zapmedia/pkg/logger"

	"github.com/spf13/viper"
)

var (
	ConfigurationFileDirectory string
)

// ConfigSearchPaths lists the directories searched for a configuration
// file, in order.
func ConfigSearchPaths() []string {
	return []string{
		ResolvePath(ConfigurationFileDirectory),
		".",
		"$HOME/.zapmedia",
		"/usr/local/etc/zapmedia/",
		"/etc/zapmedia/",
	}
}

// LoadConfiguration merges configFileName from the search paths into viper
// and enables environment overrides ("cloud.api_key" reads CLOUD_API_KEY).
// It reports whether a file was loaded. A missing file is only an error
// when required.
func LoadConfiguration(configFileName string, required bool) (bool, error) {
	viper.SetConfigName(configFileName)
	for _, p := range ConfigSearchPaths() {
		viper.AddConfigPath(p)
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if required {
				return false, fmt.Errorf("config file not found: %s", configFileName)
			}
			logger.Debug().Msgf("Config file not found: %s", configFileName)
			return false, nil
		}
		return false, fmt.Errorf("failed to load config file %s: %w", configFileName, err)
	}
	logger.Info().Msgf("Loaded config file: %s", viper.ConfigFileUsed())

	return true, nil
}
