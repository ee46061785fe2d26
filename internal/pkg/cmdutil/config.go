// Package cmdutil provides shared utilities for CLI command implementations.
package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/endorses/seqfilter/internal/pkg/constants"
	"github.com/endorses/seqfilter/internal/pkg/filtering"
	"github.com/endorses/seqfilter/internal/pkg/logger"
	"github.com/spf13/viper"
)

// GetStringConfig returns the config value for key, or flagValue if the key is not set.
// Flag values take precedence over config file values.
func GetStringConfig(key, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString(key)
}

// GetBoolConfig returns the config value for key, or flagValue if the key is not set.
func GetBoolConfig(key string, flagValue bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return flagValue
}

// GetDurationConfig returns the config value for key, or flagValue if the key is not set.
func GetDurationConfig(key string, flagValue time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return flagValue
}

// FilterDir resolves the filter directory: flag, then filters.dir, then
// the user config directory.
func FilterDir(flagValue string) (string, error) {
	if dir := GetStringConfig("filters.dir", flagValue); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, constants.ConfigDirName), nil
}

// ManagerConfig builds a filter manager configuration from flags and viper.
func ManagerConfig(dirFlag string) (filtering.ManagerConfig, error) {
	dir, err := FilterDir(dirFlag)
	if err != nil {
		return filtering.ManagerConfig{}, err
	}
	syntax, err := filtering.SyntaxByName(viper.GetString("filters.syntax"))
	if err != nil {
		return filtering.ManagerConfig{}, err
	}
	return filtering.ManagerConfig{
		Dir:           dir,
		GlobalFile:    viper.GetString("filters.global"),
		CaseSensitive: viper.GetBool("filters.case_sensitive"),
		Syntax:        syntax,
		Logger:        logger.Get(),
	}, nil
}
