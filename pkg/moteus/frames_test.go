// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package moteus

import (
	"errors"
	"math"
	"testing"

	"github.com/mboulet/moteus/pkg/multiplex"
)

func TestStopAndBrakeOperations(t *testing.T) {
	ops, err := Stop{}.Operations()
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 || !ops[0].IsWrite() || ops[0].Register != RegMode {
		t.Fatalf("Stop ops = %+v, want one mode write", ops)
	}
	if got := ops[0].Value.Int64(); got != int64(ModeStopped) {
		t.Errorf("Stop writes mode %d, want %d", got, ModeStopped)
	}

	ops, err = Brake{}.Operations()
	if err != nil {
		t.Fatal(err)
	}
	if got := ops[0].Value.Int64(); got != int64(ModeBrake) {
		t.Errorf("Brake writes mode %d, want %d", got, ModeBrake)
	}
}

func TestPositionOperations(t *testing.T) {
	cmd := Position{
		Position:  Float64(1.5),
		Velocity:  Float64(0.25),
		MaxTorque: Float64(4.0),
	}
	ops, err := cmd.Operations()
	if err != nil {
		t.Fatal(err)
	}

	// Mode write first, then the set fields in register order.
	wantRegs := []multiplex.Register{RegMode, RegCommandPosition, RegCommandVelocity, RegCommandMaxTorque}
	if len(ops) != len(wantRegs) {
		t.Fatalf("got %d ops, want %d", len(ops), len(wantRegs))
	}
	for i, want := range wantRegs {
		if ops[i].Register != want {
			t.Errorf("op %d register = %s, want %s", i, ops[i].Register, want)
		}
		if !ops[i].IsWrite() {
			t.Errorf("op %d is not a write", i)
		}
	}
	if got := ops[0].Value.Int64(); got != int64(ModePosition) {
		t.Errorf("mode write = %d, want %d", got, ModePosition)
	}
	if got := ops[1].Value.Float64(); got != 1.5 {
		t.Errorf("position write = %v, want 1.5", got)
	}
}

func TestPositionHold(t *testing.T) {
	ops, err := PositionHold().Operations()
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d ops, want 2", len(ops))
	}
	if ops[1].Register != RegCommandPosition || !math.IsNaN(ops[1].Value.Float64()) {
		t.Errorf("op 1 = %+v, want NaN position target", ops[1])
	}
}

func TestQueryOperations(t *testing.T) {
	ops, err := DefaultQuery().Operations()
	if err != nil {
		t.Fatal(err)
	}
	wantRegs := []multiplex.Register{
		RegMode, RegPosition, RegVelocity, RegTorque,
		RegVoltage, RegTemperature, RegFault,
	}
	if len(ops) != len(wantRegs) {
		t.Fatalf("got %d ops, want %d", len(ops), len(wantRegs))
	}
	for i, want := range wantRegs {
		if ops[i].Register != want || ops[i].IsWrite() {
			t.Errorf("op %d = %+v, want read of %s", i, ops[i], want)
		}
	}
}

func TestQueryExtraOperations(t *testing.T) {
	q := Query{Mode: true, Extra: []multiplex.Operation{
		multiplex.ReadWith(RegControlPosition, multiplex.Float32),
	}}
	ops, err := q.Operations()
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 2 || ops[1].Register != RegControlPosition {
		t.Fatalf("ops = %+v, want mode then control position", ops)
	}
}

func TestNewStateRequiresRequestedRegisters(t *testing.T) {
	// A reply that answered fault but not mode fails rather than
	// returning a zeroed Mode.
	resp := multiplex.Response{RegFault: multiplex.Int(0)}
	_, err := newState(Query{Mode: true, Fault: true}, resp)
	if !errors.Is(err, multiplex.ErrDecodeFailure) {
		t.Errorf("err = %v, want ErrDecodeFailure", err)
	}

	state, err := newState(Query{Fault: true}, resp)
	if err != nil {
		t.Fatal(err)
	}
	if state.Fault != 0 {
		t.Errorf("Fault = %d, want 0", state.Fault)
	}
}

func TestNewStateFields(t *testing.T) {
	resp := multiplex.Response{
		RegMode:               multiplex.Int(int64(ModeFault)),
		RegTrajectoryComplete: multiplex.Int(1),
		RegHomeState:          multiplex.Int(int64(HomeOutput)),
		RegFault:              multiplex.Int(33),
	}
	state, err := newState(Query{Mode: true, TrajectoryComplete: true, HomeState: true, Fault: true}, resp)
	if err != nil {
		t.Fatal(err)
	}
	if state.Mode != ModeFault {
		t.Errorf("Mode = %v, want fault", state.Mode)
	}
	if !state.TrajectoryComplete {
		t.Error("TrajectoryComplete = false, want true")
	}
	if state.HomeState != HomeOutput {
		t.Errorf("HomeState = %v, want output", state.HomeState)
	}
	if state.Fault != 33 {
		t.Errorf("Fault = %d, want 33", state.Fault)
	}
}
