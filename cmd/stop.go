// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mboulet/moteus/pkg/moteus"
)

var stopBrake bool

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the target device",
	Long: `Switch the target device to stopped mode, clearing any latched fault.
With --brake the device enters brake mode instead, shorting the motor
phases to resist motion.`,
	RunE: runStop,
}

func init() {
	stopCmd.Flags().BoolVar(&stopBrake, "brake", false, "Enter brake mode instead of stopped")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	c, s, err := openController()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var command moteus.Command = moteus.Stop{}
	if stopBrake {
		command = moteus.Brake{}
	}
	if err := c.Send(ctx, s.ID, command); err != nil {
		return err
	}
	log.Info().Uint8("id", s.ID).Bool("brake", stopBrake).Msg("stopped")
	return nil
}
