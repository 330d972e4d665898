// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lumenworks/cflink/pkg/config"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Engine flags
	cmdTimeout time.Duration
	verbose    bool

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cflink",
	Short: "CrystalFontz-style LCD controller",
	Long: `Cflink - A CLI tool and driver for CrystalFontz-style serial character displays.

Provides commands for writing text, controlling backlight and contrast, and
monitoring keypad activity. Defaults for the connection flags can be stored
in ` + config.Path() + `.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the CFLINK_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version: "1.2.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()
	},
}

func init() {
	cfg, err := config.Load()
	if err != nil {
		// A broken config file must not brick the CLI; fall back to
		// defaults but keep the error visible.
		cfg = config.Default()
		rootCmd.PrintErrf("warning: %v\n", err)
	}

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", cfg.Port, "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", cfg.Baud, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", cfg.URL, "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", cfg.Username, "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Engine flags
	rootCmd.PersistentFlags().DurationVar(&cmdTimeout, "timeout", cfg.Timeout(), "Reply timeout per command")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
