// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket bridge flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Protocol flags
	deviceID   uint8
	disableBRS bool
	timeout    time.Duration

	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "moteus",
	Short: "Command and query mjbots moteus controllers over CAN-FD",
	Long: `moteus talks the multiplex register protocol to mjbots moteus
brushless-motor controllers through an fdcanusb adapter.

Connection modes:
  Serial:    --port /dev/fdcanusb [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the MOTEUS_PASSWORD
environment variable, or prompted interactively if not set.

Flags not given on the command line fall back to the config file
(~/.config/moteus/config.toml by default, override with --config).`,
	Version: "0.3.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
			Level(level).
			With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device (e.g. /dev/fdcanusb)")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL of a remote fdcanusb bridge (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().Uint8VarP(&deviceID, "id", "i", 1, "Target device CAN id")
	rootCmd.PersistentFlags().BoolVar(&disableBRS, "no-brs", false, "Disable the CAN-FD bit rate switch")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 100*time.Millisecond, "Reply wait bound per query frame")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log bus traffic")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
