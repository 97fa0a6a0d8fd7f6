package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/librescoot/tinyfsm/internal/config"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once flags and environment are read.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tinyfsm",
		Short: "tinyfsm runs and inspects finite state machine definitions",
		Long: `tinyfsm loads state machine definitions from YAML or JSON files,
checks them, fires events against them and renders them as diagrams.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
			}

			logger, err := cfg.Logger()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error); overrides TINYFSM_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json); overrides TINYFSM_LOG_FORMAT")

	rootCmd.AddCommand(
		newValidateCmd(a),
		newRunCmd(a),
		newGraphCmd(a),
		newReplCmd(a),
	)

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
