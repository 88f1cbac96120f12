// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mboulet/moteus/pkg/moteus"
)

var scanMaxID uint8

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Probe the bus for devices",
	Long: `Probe CAN ids 1 through --max-id with a minimal query and report which
ones answer. Ids that stay silent within the reply timeout are skipped;
any other failure aborts the scan.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Uint8Var(&scanMaxID, "max-id", 8, "Highest CAN id to probe")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	c, _, err := openController()
	if err != nil {
		return err
	}
	defer c.Close()

	probe := moteus.Query{Mode: true, Fault: true}
	found := 0
	for id := uint8(1); id <= scanMaxID; id++ {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		state, err := c.QueryWith(ctx, id, probe)
		cancel()
		switch {
		case err == nil:
			found++
			fmt.Printf("id %d: mode=%s fault=%s\n", id, state.Mode, moteus.FaultString(state.Fault))
		case errors.Is(err, moteus.ErrNoReply):
			log.Debug().Uint8("id", id).Msg("no reply")
		default:
			return fmt.Errorf("probing id %d: %w", id, err)
		}
	}
	fmt.Printf("%d device(s) found\n", found)
	return nil
}
