// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package moteus

import (
	"fmt"

	"github.com/mboulet/moteus/pkg/multiplex"
)

// State is a validated view over a query response: every register the
// query requested is guaranteed to have been present in the reply. Raw
// retains the full response for registers requested through Query.Extra.
type State struct {
	Mode               Mode
	Position           float64
	Velocity           float64
	Torque             float64
	QCurrent           float64
	DCurrent           float64
	AbsPosition        float64
	MotorTemperature   float64
	TrajectoryComplete bool
	HomeState          HomeState
	Voltage            float64
	Temperature        float64
	Fault              int

	Raw multiplex.Response
}

// newState maps the response onto typed fields, failing if any register
// the query requested is absent. A device must answer every requested
// register; a silently-zeroed field would mask that.
func newState(q Query, resp multiplex.Response) (*State, error) {
	s := &State{Raw: resp}

	requireInt := func(on bool, reg multiplex.Register, dst func(int64)) error {
		if !on {
			return nil
		}
		v, ok := resp.Int64(reg)
		if !ok {
			return fmt.Errorf("register %s (%s) missing from reply: %w", reg, registry.Name(reg), multiplex.ErrDecodeFailure)
		}
		dst(v)
		return nil
	}
	requireFloat := func(on bool, reg multiplex.Register, dst *float64) error {
		if !on {
			return nil
		}
		v, ok := resp.Float64(reg)
		if !ok {
			return fmt.Errorf("register %s (%s) missing from reply: %w", reg, registry.Name(reg), multiplex.ErrDecodeFailure)
		}
		*dst = v
		return nil
	}

	checks := []error{
		requireInt(q.Mode, RegMode, func(v int64) { s.Mode = Mode(v) }),
		requireFloat(q.Position, RegPosition, &s.Position),
		requireFloat(q.Velocity, RegVelocity, &s.Velocity),
		requireFloat(q.Torque, RegTorque, &s.Torque),
		requireFloat(q.QCurrent, RegQCurrent, &s.QCurrent),
		requireFloat(q.DCurrent, RegDCurrent, &s.DCurrent),
		requireFloat(q.AbsPosition, RegAbsPosition, &s.AbsPosition),
		requireFloat(q.MotorTemperature, RegMotorTemperature, &s.MotorTemperature),
		requireInt(q.TrajectoryComplete, RegTrajectoryComplete, func(v int64) { s.TrajectoryComplete = v != 0 }),
		requireInt(q.HomeState, RegHomeState, func(v int64) { s.HomeState = HomeState(v) }),
		requireFloat(q.Voltage, RegVoltage, &s.Voltage),
		requireFloat(q.Temperature, RegTemperature, &s.Temperature),
		requireInt(q.Fault, RegFault, func(v int64) { s.Fault = int(v) }),
	}
	for _, err := range checks {
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *State) String() string {
	return fmt.Sprintf("mode=%s pos=%.4f vel=%.4f torque=%.3f volt=%.1f temp=%.1f fault=%s",
		s.Mode, s.Position, s.Velocity, s.Torque, s.Voltage, s.Temperature, FaultString(s.Fault))
}
