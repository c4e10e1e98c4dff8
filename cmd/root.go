// Package cmd holds the soundfolio command line.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soundfolio/player/internal/config"
	"github.com/soundfolio/player/internal/logger"
)

var (
	configFile string
	logLevel   string

	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "soundfolio",
	Short:         "soundfolio plays a portfolio of tracks from a registry or a storage bucket.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return playCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "additional config file (TOML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

// setup loads configuration and builds the logger. console receives
// human-readable log lines; nil keeps logs in the file only.
func setup(console io.Writer) error {
	var extra []string
	if configFile != "" {
		extra = append(extra, configFile)
	}
	c, err := config.Load(extra...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}

	lc := c.GetLogConfig()
	l, err := logger.New(logger.Config{
		Level:      lc.Level,
		File:       lc.File,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAgeDays: lc.MaxAgeDays,
		Console:    console,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	cfg = c
	log = l
	return nil
}

// Execute executes the root command.
func Execute() {
	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
