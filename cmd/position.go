// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mboulet/moteus/pkg/moteus"
)

var (
	posTarget       float64
	posVelocity     float64
	posMaxTorque    float64
	posVelLimit     float64
	posAccelLimit   float64
	posStopPosition float64
	posHold         bool
)

var positionCmd = &cobra.Command{
	Use:   "position",
	Short: "Command position mode",
	Long: `Command the target device into position mode and print the state it
reports back. With --hold the current position is held instead of moving
to --target.

Only flags you pass are written; everything else keeps its device-side
value. Positions are in revolutions, velocities in rev/s, torques in Nm.`,
	RunE: runPosition,
}

func init() {
	positionCmd.Flags().Float64Var(&posTarget, "target", 0, "Target position (rev)")
	positionCmd.Flags().Float64Var(&posVelocity, "velocity", 0, "Target velocity (rev/s)")
	positionCmd.Flags().Float64Var(&posMaxTorque, "max-torque", 0, "Maximum torque (Nm)")
	positionCmd.Flags().Float64Var(&posVelLimit, "velocity-limit", 0, "Trajectory velocity limit (rev/s)")
	positionCmd.Flags().Float64Var(&posAccelLimit, "accel-limit", 0, "Trajectory acceleration limit (rev/s^2)")
	positionCmd.Flags().Float64Var(&posStopPosition, "stop-position", 0, "Stop position (rev)")
	positionCmd.Flags().BoolVar(&posHold, "hold", false, "Hold the current position")
	rootCmd.AddCommand(positionCmd)
}

func runPosition(cmd *cobra.Command, args []string) error {
	c, s, err := openController()
	if err != nil {
		return err
	}
	defer c.Close()

	var p moteus.Position
	if posHold {
		p = moteus.PositionHold()
	}
	flags := cmd.Flags()
	if flags.Changed("target") {
		if posHold {
			return fmt.Errorf("--hold and --target are mutually exclusive")
		}
		p.Position = moteus.Float64(posTarget)
	}
	if flags.Changed("velocity") {
		p.Velocity = moteus.Float64(posVelocity)
	}
	if flags.Changed("max-torque") {
		p.MaxTorque = moteus.Float64(posMaxTorque)
	}
	if flags.Changed("velocity-limit") {
		p.VelocityLimit = moteus.Float64(posVelLimit)
	}
	if flags.Changed("accel-limit") {
		p.AccelLimit = moteus.Float64(posAccelLimit)
	}
	if flags.Changed("stop-position") {
		p.StopPosition = moteus.Float64(posStopPosition)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	state, err := c.SendQuery(ctx, s.ID, p, moteus.DefaultQuery())
	if err != nil {
		return err
	}
	fmt.Println(state)
	return nil
}
