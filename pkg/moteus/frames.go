// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package moteus

import (
	"math"

	"github.com/mboulet/moteus/pkg/multiplex"
)

// Command is anything that can express itself as a batch of register
// operations. The typed commands in this file are data tables over the
// register map; they contain no protocol logic.
type Command interface {
	Operations() ([]multiplex.Operation, error)
}

// Float64 returns a pointer to v, for filling optional command fields.
func Float64(v float64) *float64 { return &v }

// Stop switches the device to stopped mode, clearing any latched fault.
type Stop struct{}

// Operations implements Command.
func (Stop) Operations() ([]multiplex.Operation, error) {
	return []multiplex.Operation{
		multiplex.Write(RegMode, multiplex.Int(int64(ModeStopped))),
	}, nil
}

// Brake switches the device to brake mode.
type Brake struct{}

// Operations implements Command.
func (Brake) Operations() ([]multiplex.Operation, error) {
	return []multiplex.Operation{
		multiplex.Write(RegMode, multiplex.Int(int64(ModeBrake))),
	}, nil
}

// Position commands position mode. Nil fields are omitted from the frame
// and keep their device-side value.
type Position struct {
	Position          *float64
	Velocity          *float64
	FeedforwardTorque *float64
	KpScale           *float64
	KdScale           *float64
	MaxTorque         *float64
	StopPosition      *float64
	WatchdogTimeout   *float64
	VelocityLimit     *float64
	AccelLimit        *float64
	FixedVoltage      *float64
}

// PositionHold commands position mode with a NaN target, which holds the
// current position.
func PositionHold() Position {
	return Position{Position: Float64(math.NaN())}
}

// Operations implements Command.
func (p Position) Operations() ([]multiplex.Operation, error) {
	ops := []multiplex.Operation{
		multiplex.Write(RegMode, multiplex.Int(int64(ModePosition))),
	}
	fields := []struct {
		reg multiplex.Register
		val *float64
	}{
		{RegCommandPosition, p.Position},
		{RegCommandVelocity, p.Velocity},
		{RegCommandFeedforwardTorque, p.FeedforwardTorque},
		{RegCommandKpScale, p.KpScale},
		{RegCommandKdScale, p.KdScale},
		{RegCommandMaxTorque, p.MaxTorque},
		{RegCommandStopPosition, p.StopPosition},
		{RegCommandTimeout, p.WatchdogTimeout},
		{RegCommandVelocityLimit, p.VelocityLimit},
		{RegCommandAccelLimit, p.AccelLimit},
		{RegFixedVoltageOverride, p.FixedVoltage},
	}
	for _, f := range fields {
		if f.val != nil {
			ops = append(ops, multiplex.Write(f.reg, multiplex.Float(*f.val)))
		}
	}
	return ops, nil
}

// Query selects the registers requested from the device. Each selected
// register is read at its default resolution; Extra carries additional
// operations for registers without a named field.
type Query struct {
	Mode               bool
	Position           bool
	Velocity           bool
	Torque             bool
	QCurrent           bool
	DCurrent           bool
	AbsPosition        bool
	MotorTemperature   bool
	TrajectoryComplete bool
	HomeState          bool
	Voltage            bool
	Temperature        bool
	Fault              bool

	Extra []multiplex.Operation
}

// DefaultQuery requests mode, position, velocity and torque along with the
// int8 voltage, temperature and fault diagnostics.
func DefaultQuery() Query {
	return Query{
		Mode:        true,
		Position:    true,
		Velocity:    true,
		Torque:      true,
		Voltage:     true,
		Temperature: true,
		Fault:       true,
	}
}

// Operations implements Command.
func (q Query) Operations() ([]multiplex.Operation, error) {
	fields := []struct {
		reg multiplex.Register
		on  bool
	}{
		{RegMode, q.Mode},
		{RegPosition, q.Position},
		{RegVelocity, q.Velocity},
		{RegTorque, q.Torque},
		{RegQCurrent, q.QCurrent},
		{RegDCurrent, q.DCurrent},
		{RegAbsPosition, q.AbsPosition},
		{RegMotorTemperature, q.MotorTemperature},
		{RegTrajectoryComplete, q.TrajectoryComplete},
		{RegHomeState, q.HomeState},
		{RegVoltage, q.Voltage},
		{RegTemperature, q.Temperature},
		{RegFault, q.Fault},
	}
	var ops []multiplex.Operation
	for _, f := range fields {
		if f.on {
			ops = append(ops, multiplex.Read(f.reg))
		}
	}
	return append(ops, q.Extra...), nil
}
