// Package cli provides the command-line interface of the dashboard backend.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jengzang/hcip-dashboard-go/internal/config"
	"github.com/jengzang/hcip-dashboard-go/internal/logging"
)

// GlobalFlags are the flags shared by every command
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
}

// runtime carries what PersistentPreRunE prepares for subcommands
type runtime struct {
	cfg       *config.Config
	logger    zerolog.Logger
	logCloser io.Closer
}

func newRootCmd(flags *GlobalFlags) *cobra.Command {
	rt := &runtime{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "hcip-dashboard",
		Short: "Construction progress metrics backend",
		Long: `hcip-dashboard ingests per-task progress sheets for every package,
derives site, district and package metrics with risk scores, and serves
them over HTTP. Each forced refresh keeps a timestamped snapshot for trends.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.init(cmd.Context(), flags)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if rt.logCloser != nil {
				return rt.logCloser.Close()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "config file (default ./config.yaml when present)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(rt),
		newRefreshCmd(rt),
		newSnapshotsCmd(rt),
		newTokenCmd(rt),
		newConfigCmd(rt),
	)

	return cmd
}

func (rt *runtime) init(ctx context.Context, flags *GlobalFlags) error {
	cfg, err := config.Load(ctx, flags.ConfigFile)
	if err != nil {
		return err
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}

	logger, closer, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		logger.Warn().Err(err).Str("file", cfg.Log.File).Msg("log file unavailable, logging to console only")
	}

	rt.cfg = cfg
	rt.logger = logger
	rt.logCloser = closer
	return nil
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	cmd := newRootCmd(&GlobalFlags{})
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
