// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mboulet/moteus/pkg/moteus"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Read the state of one device",
	Long: `Query the target device for its mode, position, velocity, torque,
voltage, temperature and fault registers, and print the decoded values.`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	c, s, err := openController()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	state, err := c.Query(ctx, s.ID)
	if err != nil {
		return err
	}

	fmt.Printf("device %d\n", s.ID)
	fmt.Printf("  mode:        %s\n", state.Mode)
	fmt.Printf("  position:    %.4f rev\n", state.Position)
	fmt.Printf("  velocity:    %.4f rev/s\n", state.Velocity)
	fmt.Printf("  torque:      %.3f Nm\n", state.Torque)
	fmt.Printf("  voltage:     %.1f V\n", state.Voltage)
	fmt.Printf("  temperature: %.1f C\n", state.Temperature)
	fmt.Printf("  fault:       %s\n", moteus.FaultString(state.Fault))
	return nil
}
