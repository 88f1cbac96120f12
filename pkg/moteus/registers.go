// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

// Package moteus talks the multiplex register protocol to mjbots moteus
// brushless-motor controllers. It provides the moteus register map, a
// Controller that drives request/response cycles over a pluggable
// Transport, typed command and query wrappers, and the fdcanusb
// serial-to-CAN-FD transport.
package moteus

import (
	"fmt"

	"github.com/mboulet/moteus/pkg/multiplex"
)

// Common moteus registers. The full map is documented in the moteus
// reference manual; this covers the registers used for position control,
// telemetry, and diagnostics.
const (
	RegMode               multiplex.Register = 0x000
	RegPosition           multiplex.Register = 0x001
	RegVelocity           multiplex.Register = 0x002
	RegTorque             multiplex.Register = 0x003
	RegQCurrent           multiplex.Register = 0x004
	RegDCurrent           multiplex.Register = 0x005
	RegAbsPosition        multiplex.Register = 0x006
	RegMotorTemperature   multiplex.Register = 0x00a
	RegTrajectoryComplete multiplex.Register = 0x00b
	RegHomeState          multiplex.Register = 0x00c
	RegVoltage            multiplex.Register = 0x00d
	RegTemperature        multiplex.Register = 0x00e
	RegFault              multiplex.Register = 0x00f

	RegPwmPhaseA multiplex.Register = 0x010
	RegPwmPhaseB multiplex.Register = 0x011
	RegPwmPhaseC multiplex.Register = 0x012

	RegVoltagePhaseA multiplex.Register = 0x014
	RegVoltagePhaseB multiplex.Register = 0x015
	RegVoltagePhaseC multiplex.Register = 0x016

	RegVFocTheta   multiplex.Register = 0x018
	RegVFocVoltage multiplex.Register = 0x019
	RegVoltageDqD  multiplex.Register = 0x01a
	RegVoltageDqQ  multiplex.Register = 0x01b

	RegCommandQCurrent multiplex.Register = 0x01c
	RegCommandDCurrent multiplex.Register = 0x01d

	RegCommandPosition          multiplex.Register = 0x020
	RegCommandVelocity          multiplex.Register = 0x021
	RegCommandFeedforwardTorque multiplex.Register = 0x022
	RegCommandKpScale           multiplex.Register = 0x023
	RegCommandKdScale           multiplex.Register = 0x024
	RegCommandMaxTorque         multiplex.Register = 0x025
	RegCommandStopPosition      multiplex.Register = 0x026
	RegCommandTimeout           multiplex.Register = 0x027
	RegCommandVelocityLimit     multiplex.Register = 0x028
	RegCommandAccelLimit        multiplex.Register = 0x029
	RegFixedVoltageOverride     multiplex.Register = 0x02a

	RegPositionKp          multiplex.Register = 0x030
	RegPositionKi          multiplex.Register = 0x031
	RegPositionKd          multiplex.Register = 0x032
	RegPositionFeedforward multiplex.Register = 0x033
	RegPositionCommand     multiplex.Register = 0x034

	RegControlPosition      multiplex.Register = 0x038
	RegControlVelocity      multiplex.Register = 0x039
	RegControlTorque        multiplex.Register = 0x03a
	RegControlPositionError multiplex.Register = 0x03b
	RegControlVelocityError multiplex.Register = 0x03c
	RegControlTorqueError   multiplex.Register = 0x03d

	RegStayWithinLower             multiplex.Register = 0x040
	RegStayWithinUpper             multiplex.Register = 0x041
	RegStayWithinFeedforwardTorque multiplex.Register = 0x042
	RegStayWithinKpScale           multiplex.Register = 0x043
	RegStayWithinKdScale           multiplex.Register = 0x044
	RegStayWithinMaxTorque         multiplex.Register = 0x045
	RegStayWithinTimeout           multiplex.Register = 0x046

	RegEncoder0Position multiplex.Register = 0x050
	RegEncoder0Velocity multiplex.Register = 0x051
	RegEncoder1Position multiplex.Register = 0x052
	RegEncoder1Velocity multiplex.Register = 0x053
	RegEncoder2Position multiplex.Register = 0x054
	RegEncoder2Velocity multiplex.Register = 0x055
	RegEncoderValidity  multiplex.Register = 0x058

	RegAux1GpioCommand multiplex.Register = 0x05c
	RegAux2GpioCommand multiplex.Register = 0x05d
	RegAux1GpioStatus  multiplex.Register = 0x05e
	RegAux2GpioStatus  multiplex.Register = 0x05f

	RegAux1AnalogIn1 multiplex.Register = 0x060
	RegAux1AnalogIn2 multiplex.Register = 0x061
	RegAux1AnalogIn3 multiplex.Register = 0x062
	RegAux1AnalogIn4 multiplex.Register = 0x063
	RegAux1AnalogIn5 multiplex.Register = 0x064

	RegAux2AnalogIn1 multiplex.Register = 0x068
	RegAux2AnalogIn2 multiplex.Register = 0x069
	RegAux2AnalogIn3 multiplex.Register = 0x06a
	RegAux2AnalogIn4 multiplex.Register = 0x06b
	RegAux2AnalogIn5 multiplex.Register = 0x06c

	RegMillisecondCounter multiplex.Register = 0x070
	RegClockTrim          multiplex.Register = 0x071

	RegRegisterMapVersion multiplex.Register = 0x102
	RegSerialNumber1      multiplex.Register = 0x120
	RegSerialNumber2      multiplex.Register = 0x121
	RegSerialNumber3      multiplex.Register = 0x122

	RegSetOutputNearest multiplex.Register = 0x130
	RegSetOutputExact   multiplex.Register = 0x131
	RegRequireReindex   multiplex.Register = 0x132

	RegDriverFault1 multiplex.Register = 0x140
	RegDriverFault2 multiplex.Register = 0x141
)

// registerTable is the moteus register model handed to the multiplex codec.
var registerTable = map[multiplex.Register]multiplex.RegisterInfo{
	RegMode:               {Name: "Mode", Kind: multiplex.KindInt, Default: multiplex.Int8},
	RegPosition:           {Name: "Position", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegVelocity:           {Name: "Velocity", Kind: multiplex.KindVelocity, Default: multiplex.Float32},
	RegTorque:             {Name: "Torque", Kind: multiplex.KindTorque, Default: multiplex.Float32},
	RegQCurrent:           {Name: "QCurrent", Kind: multiplex.KindCurrent, Default: multiplex.Float32},
	RegDCurrent:           {Name: "DCurrent", Kind: multiplex.KindCurrent, Default: multiplex.Float32},
	RegAbsPosition:        {Name: "AbsPosition", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegMotorTemperature:   {Name: "MotorTemperature", Kind: multiplex.KindTemperature, Default: multiplex.Float32},
	RegTrajectoryComplete: {Name: "TrajectoryComplete", Kind: multiplex.KindInt, Default: multiplex.Int8},
	RegHomeState:          {Name: "HomeState", Kind: multiplex.KindInt, Default: multiplex.Int8},
	RegVoltage:            {Name: "Voltage", Kind: multiplex.KindVoltage, Default: multiplex.Int8},
	RegTemperature:        {Name: "Temperature", Kind: multiplex.KindTemperature, Default: multiplex.Int8},
	RegFault:              {Name: "Fault", Kind: multiplex.KindInt, Default: multiplex.Int8},

	RegPwmPhaseA: {Name: "PwmPhaseA", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegPwmPhaseB: {Name: "PwmPhaseB", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegPwmPhaseC: {Name: "PwmPhaseC", Kind: multiplex.KindPWM, Default: multiplex.Float32},

	RegVoltagePhaseA: {Name: "VoltagePhaseA", Kind: multiplex.KindVoltage, Default: multiplex.Float32},
	RegVoltagePhaseB: {Name: "VoltagePhaseB", Kind: multiplex.KindVoltage, Default: multiplex.Float32},
	RegVoltagePhaseC: {Name: "VoltagePhaseC", Kind: multiplex.KindVoltage, Default: multiplex.Float32},

	RegVFocTheta:   {Name: "VFocTheta", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegVFocVoltage: {Name: "VFocVoltage", Kind: multiplex.KindVoltage, Default: multiplex.Float32},
	RegVoltageDqD:  {Name: "VoltageDqD", Kind: multiplex.KindVoltage, Default: multiplex.Float32},
	RegVoltageDqQ:  {Name: "VoltageDqQ", Kind: multiplex.KindVoltage, Default: multiplex.Float32},

	RegCommandQCurrent: {Name: "CommandQCurrent", Kind: multiplex.KindCurrent, Default: multiplex.Float32},
	RegCommandDCurrent: {Name: "CommandDCurrent", Kind: multiplex.KindCurrent, Default: multiplex.Float32},

	RegCommandPosition:          {Name: "CommandPosition", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegCommandVelocity:          {Name: "CommandVelocity", Kind: multiplex.KindVelocity, Default: multiplex.Float32},
	RegCommandFeedforwardTorque: {Name: "CommandFeedforwardTorque", Kind: multiplex.KindTorque, Default: multiplex.Float32},
	RegCommandKpScale:           {Name: "CommandKpScale", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegCommandKdScale:           {Name: "CommandKdScale", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegCommandMaxTorque:         {Name: "CommandMaxTorque", Kind: multiplex.KindTorque, Default: multiplex.Float32},
	RegCommandStopPosition:      {Name: "CommandStopPosition", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegCommandTimeout:           {Name: "CommandTimeout", Kind: multiplex.KindTime, Default: multiplex.Float32},
	RegCommandVelocityLimit:     {Name: "CommandVelocityLimit", Kind: multiplex.KindVelocity, Default: multiplex.Float32},
	RegCommandAccelLimit:        {Name: "CommandAccelLimit", Kind: multiplex.KindAcceleration, Default: multiplex.Float32},
	RegFixedVoltageOverride:     {Name: "FixedVoltageOverride", Kind: multiplex.KindVoltage, Default: multiplex.Float32},

	RegPositionKp:          {Name: "PositionKp", Kind: multiplex.KindTorque, Default: multiplex.Float32},
	RegPositionKi:          {Name: "PositionKi", Kind: multiplex.KindTorque, Default: multiplex.Float32},
	RegPositionKd:          {Name: "PositionKd", Kind: multiplex.KindTorque, Default: multiplex.Float32},
	RegPositionFeedforward: {Name: "PositionFeedforward", Kind: multiplex.KindTorque, Default: multiplex.Float32},
	RegPositionCommand:     {Name: "PositionCommand", Kind: multiplex.KindTorque, Default: multiplex.Float32},

	RegControlPosition:      {Name: "ControlPosition", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegControlVelocity:      {Name: "ControlVelocity", Kind: multiplex.KindVelocity, Default: multiplex.Float32},
	RegControlTorque:        {Name: "ControlTorque", Kind: multiplex.KindTorque, Default: multiplex.Float32},
	RegControlPositionError: {Name: "ControlPositionError", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegControlVelocityError: {Name: "ControlVelocityError", Kind: multiplex.KindVelocity, Default: multiplex.Float32},
	RegControlTorqueError:   {Name: "ControlTorqueError", Kind: multiplex.KindTorque, Default: multiplex.Float32},

	RegStayWithinLower:             {Name: "StayWithinLower", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegStayWithinUpper:             {Name: "StayWithinUpper", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegStayWithinFeedforwardTorque: {Name: "StayWithinFeedforwardTorque", Kind: multiplex.KindTorque, Default: multiplex.Float32},
	RegStayWithinKpScale:           {Name: "StayWithinKpScale", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegStayWithinKdScale:           {Name: "StayWithinKdScale", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegStayWithinMaxTorque:         {Name: "StayWithinMaxTorque", Kind: multiplex.KindTorque, Default: multiplex.Float32},
	RegStayWithinTimeout:           {Name: "StayWithinTimeout", Kind: multiplex.KindTime, Default: multiplex.Float32},

	RegEncoder0Position: {Name: "Encoder0Position", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegEncoder0Velocity: {Name: "Encoder0Velocity", Kind: multiplex.KindVelocity, Default: multiplex.Float32},
	RegEncoder1Position: {Name: "Encoder1Position", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegEncoder1Velocity: {Name: "Encoder1Velocity", Kind: multiplex.KindVelocity, Default: multiplex.Float32},
	RegEncoder2Position: {Name: "Encoder2Position", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegEncoder2Velocity: {Name: "Encoder2Velocity", Kind: multiplex.KindVelocity, Default: multiplex.Float32},
	RegEncoderValidity:  {Name: "EncoderValidity", Kind: multiplex.KindInt, Default: multiplex.Int8},

	RegAux1GpioCommand: {Name: "Aux1GpioCommand", Kind: multiplex.KindInt, Default: multiplex.Int8},
	RegAux2GpioCommand: {Name: "Aux2GpioCommand", Kind: multiplex.KindInt, Default: multiplex.Int8},
	RegAux1GpioStatus:  {Name: "Aux1GpioStatus", Kind: multiplex.KindInt, Default: multiplex.Int8},
	RegAux2GpioStatus:  {Name: "Aux2GpioStatus", Kind: multiplex.KindInt, Default: multiplex.Int8},

	RegAux1AnalogIn1: {Name: "Aux1AnalogIn1", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegAux1AnalogIn2: {Name: "Aux1AnalogIn2", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegAux1AnalogIn3: {Name: "Aux1AnalogIn3", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegAux1AnalogIn4: {Name: "Aux1AnalogIn4", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegAux1AnalogIn5: {Name: "Aux1AnalogIn5", Kind: multiplex.KindPWM, Default: multiplex.Float32},

	RegAux2AnalogIn1: {Name: "Aux2AnalogIn1", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegAux2AnalogIn2: {Name: "Aux2AnalogIn2", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegAux2AnalogIn3: {Name: "Aux2AnalogIn3", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegAux2AnalogIn4: {Name: "Aux2AnalogIn4", Kind: multiplex.KindPWM, Default: multiplex.Float32},
	RegAux2AnalogIn5: {Name: "Aux2AnalogIn5", Kind: multiplex.KindPWM, Default: multiplex.Float32},

	RegMillisecondCounter: {Name: "MillisecondCounter", Kind: multiplex.KindInt, Default: multiplex.Int32},
	RegClockTrim:          {Name: "ClockTrim", Kind: multiplex.KindInt, Default: multiplex.Int32},

	RegRegisterMapVersion: {Name: "RegisterMapVersion", Kind: multiplex.KindInt, Default: multiplex.Int32},
	RegSerialNumber1:      {Name: "SerialNumber1", Kind: multiplex.KindInt, Default: multiplex.Int32},
	RegSerialNumber2:      {Name: "SerialNumber2", Kind: multiplex.KindInt, Default: multiplex.Int32},
	RegSerialNumber3:      {Name: "SerialNumber3", Kind: multiplex.KindInt, Default: multiplex.Int32},

	RegSetOutputNearest: {Name: "SetOutputNearest", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegSetOutputExact:   {Name: "SetOutputExact", Kind: multiplex.KindPosition, Default: multiplex.Float32},
	RegRequireReindex:   {Name: "RequireReindex", Kind: multiplex.KindInt, Default: multiplex.Int8},

	RegDriverFault1: {Name: "DriverFault1", Kind: multiplex.KindInt, Default: multiplex.Int32},
	RegDriverFault2: {Name: "DriverFault2", Kind: multiplex.KindInt, Default: multiplex.Int32},
}

var registry = multiplex.NewRegistry(registerTable)

// Registry returns the moteus register model.
func Registry() *multiplex.Registry { return registry }

// Mode is the controller operating mode reported in RegMode.
type Mode int

// Operating modes.
const (
	ModeStopped Mode = iota
	ModeFault
	ModeEnabling
	ModeCalibrating
	ModeCalibrationComplete
	ModePwm
	ModeVoltage
	ModeVoltageFoc
	ModeVoltageDq
	ModeCurrent
	ModePosition
	ModePositionTimeout
	ModeZeroVelocity
	ModeStayWithin
	ModeMeasureInd
	ModeBrake
)

var modeNames = map[Mode]string{
	ModeStopped:             "stopped",
	ModeFault:               "fault",
	ModeEnabling:            "enabling",
	ModeCalibrating:         "calibrating",
	ModeCalibrationComplete: "calibration complete",
	ModePwm:                 "pwm",
	ModeVoltage:             "voltage",
	ModeVoltageFoc:          "voltage foc",
	ModeVoltageDq:           "voltage dq",
	ModeCurrent:             "current",
	ModePosition:            "position",
	ModePositionTimeout:     "position timeout",
	ModeZeroVelocity:        "zero velocity",
	ModeStayWithin:          "stay within",
	ModeMeasureInd:          "measure inductance",
	ModeBrake:               "brake",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// HomeState is the homing state reported in RegHomeState.
type HomeState int

// Homing states.
const (
	HomeRelative HomeState = iota
	HomeRotor
	HomeOutput
)

func (h HomeState) String() string {
	switch h {
	case HomeRelative:
		return "relative"
	case HomeRotor:
		return "rotor"
	case HomeOutput:
		return "output"
	default:
		return fmt.Sprintf("home(%d)", int(h))
	}
}

var faultNames = map[int]string{
	32: "calibration fault",
	33: "motor driver fault",
	34: "over voltage",
	35: "encoder fault",
	36: "motor not configured",
	37: "pwm cycle overrun",
	38: "over temperature",
	39: "outside limit",
	40: "under voltage",
	41: "config changed",
	42: "theta invalid",
	43: "position invalid",
}

// FaultString names a fault code from RegFault.
func FaultString(code int) string {
	if code == 0 {
		return "none"
	}
	if s, ok := faultNames[code]; ok {
		return s
	}
	return fmt.Sprintf("fault(%d)", code)
}
