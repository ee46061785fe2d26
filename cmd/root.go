package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/endorses/seqfilter/cmd/filter"
	"github.com/endorses/seqfilter/cmd/watch"
	"github.com/endorses/seqfilter/internal/pkg/logger"
	"github.com/endorses/seqfilter/internal/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "seqfilter",
	Short:   "seqfilter classifies spawns with filter expressions",
	Long:    fmt.Sprintf("seqfilter %s - spawn filter engine\n\nMaintains per-zone filter files and classifies spawn strings into filter types.", version.GetVersion()),
	Version: version.GetFullVersion(),
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func addSubCommandPalattes() {
	rootCmd.AddCommand(filter.FilterCmd)
	rootCmd.AddCommand(watch.WatchCmd)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Initialize structured logging
	logger.Initialize()

	addSubCommandPalattes()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.seqfilter.yaml)")
	rootCmd.PersistentFlags().String("filter-dir", "", "directory holding the filter files (default is $XDG_CONFIG_HOME/seqfilter)")
	rootCmd.PersistentFlags().Bool("case-sensitive", false, "match patterns case-sensitively")
	rootCmd.PersistentFlags().String("syntax", "regex", "pattern syntax: regex or glob")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("filters.dir", rootCmd.PersistentFlags().Lookup("filter-dir"))
	_ = viper.BindPFlag("filters.case_sensitive", rootCmd.PersistentFlags().Lookup("case-sensitive"))
	_ = viper.BindPFlag("filters.syntax", rootCmd.PersistentFlags().Lookup("syntax"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".seqfilter")
	}

	viper.SetEnvPrefix("SEQFILTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("Using config file", "path", viper.ConfigFileUsed())
	}

	if level := viper.GetString("log.level"); level != "" {
		logger.Configure(os.Stderr, logger.ParseLevel(level))
	}
}
