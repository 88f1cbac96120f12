// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package multiplex

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind is the semantic type of a register. Raw integer registers carry
// their value verbatim; mapped kinds carry an engineering-unit float scaled
// by a per-resolution factor.
type Kind uint8

// Register kinds. The scale factors follow the moteus reference protocol.
const (
	KindInt Kind = iota
	KindPosition
	KindVelocity
	KindAcceleration
	KindTorque
	KindPWM
	KindVoltage
	KindTemperature
	KindTime
	KindCurrent
)

// kindScales holds the int8/int16/int32 scale factor for each mapped kind.
var kindScales = map[Kind][3]float64{
	KindPosition:     {0.01, 0.0001, 0.00001},
	KindVelocity:     {0.1, 0.00025, 0.00001},
	KindAcceleration: {0.05, 0.001, 0.00001},
	KindTorque:       {0.5, 0.01, 0.001},
	KindPWM:          {1.0 / 127, 1.0 / 32767, 1.0 / 2147483647},
	KindVoltage:      {0.5, 0.1, 0.001},
	KindTemperature:  {1, 0.1, 0.001},
	KindTime:         {0.01, 0.001, 0.000001},
	KindCurrent:      {1, 0.1, 0.001},
}

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindPosition:
		return "position"
	case KindVelocity:
		return "velocity"
	case KindAcceleration:
		return "acceleration"
	case KindTorque:
		return "torque"
	case KindPWM:
		return "pwm"
	case KindVoltage:
		return "voltage"
	case KindTemperature:
		return "temperature"
	case KindTime:
		return "time"
	case KindCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// scale returns the multiplier for the kind at an integer resolution.
func (k Kind) scale(r Resolution) float64 {
	return kindScales[k][r]
}

// Integer NaN sentinels used by mapped registers: the most negative value
// of each width means "not available".
const (
	nan8  = math.MinInt8
	nan16 = math.MinInt16
	nan32 = math.MinInt32
)

// Value is a register value in its semantic form: a raw integer for
// KindInt registers, an engineering-unit float for mapped registers.
type Value struct {
	f     float64
	i     int64
	isInt bool
}

// Int builds an integer Value.
func Int(v int64) Value { return Value{i: v, isInt: true} }

// Float builds a floating-point Value.
func Float(v float64) Value { return Value{f: v} }

// IsInt reports whether the value is a raw integer.
func (v Value) IsInt() bool { return v.isInt }

// Int64 returns the value as an integer, truncating floats.
func (v Value) Int64() int64 {
	if v.isInt {
		return v.i
	}
	return int64(v.f)
}

// Float64 returns the value as a float.
func (v Value) Float64() float64 {
	if v.isInt {
		return float64(v.i)
	}
	return v.f
}

func (v Value) String() string {
	if v.isInt {
		return fmt.Sprintf("%d", v.i)
	}
	return fmt.Sprintf("%g", v.f)
}

// intRange returns the saturation bounds for an integer resolution,
// excluding the NaN sentinel for mapped kinds.
func intRange(r Resolution, mapped bool) (lo, hi int64) {
	switch r {
	case Int8:
		lo, hi = math.MinInt8, math.MaxInt8
	case Int16:
		lo, hi = math.MinInt16, math.MaxInt16
	default:
		lo, hi = math.MinInt32, math.MaxInt32
	}
	if mapped {
		lo++
	}
	return lo, hi
}

// appendInt encodes a raw integer little-endian at the given width.
func appendInt(buf []byte, v int64, r Resolution) []byte {
	switch r {
	case Int8:
		return append(buf, byte(int8(v)))
	case Int16:
		return binary.LittleEndian.AppendUint16(buf, uint16(int16(v)))
	default:
		return binary.LittleEndian.AppendUint32(buf, uint32(int32(v)))
	}
}

// readInt decodes a signed little-endian integer at the given width.
func readInt(b []byte, r Resolution) int64 {
	switch r {
	case Int8:
		return int64(int8(b[0]))
	case Int16:
		return int64(int16(binary.LittleEndian.Uint16(b)))
	default:
		return int64(int32(binary.LittleEndian.Uint32(b)))
	}
}

// encodeValue encodes a value for a register of the given kind at the given
// resolution. Mapped kinds scale and saturate; raw integers out of range
// are rejected rather than silently truncated.
func encodeValue(buf []byte, k Kind, v Value, r Resolution) ([]byte, error) {
	if k == KindInt {
		if !v.IsInt() {
			return buf, fmt.Errorf("float value for integer register: %w", ErrUnsupportedResolution)
		}
		if r == Float32 {
			return buf, fmt.Errorf("float encoding of integer register: %w", ErrUnsupportedResolution)
		}
		lo, hi := intRange(r, false)
		if v.i < lo || v.i > hi {
			return buf, fmt.Errorf("%d does not fit in %s: %w", v.i, r, ErrValueOutOfRange)
		}
		return appendInt(buf, v.i, r), nil
	}

	f := v.Float64()
	if r == Float32 {
		return binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(f))), nil
	}
	if math.IsNaN(f) {
		switch r {
		case Int8:
			return appendInt(buf, nan8, r), nil
		case Int16:
			return appendInt(buf, nan16, r), nil
		default:
			return appendInt(buf, nan32, r), nil
		}
	}
	scaled := math.Round(f / k.scale(r))
	lo, hi := intRange(r, true)
	if scaled < float64(lo) {
		scaled = float64(lo)
	}
	if scaled > float64(hi) {
		scaled = float64(hi)
	}
	return appendInt(buf, int64(scaled), r), nil
}

// decodeValue decodes raw little-endian bytes into the semantic value of a
// register of the given kind.
func decodeValue(b []byte, k Kind, r Resolution) (Value, error) {
	if len(b) < r.Width() {
		return Value{}, fmt.Errorf("%d value bytes, need %d: %w", len(b), r.Width(), ErrMalformedFrame)
	}
	if k == KindInt {
		if r == Float32 {
			return Value{}, fmt.Errorf("float encoding of integer register: %w", ErrDecodeFailure)
		}
		return Int(readInt(b, r)), nil
	}
	if r == Float32 {
		return Float(float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))), nil
	}
	raw := readInt(b, r)
	switch {
	case r == Int8 && raw == nan8,
		r == Int16 && raw == nan16,
		r == Int32 && raw == nan32:
		return Float(math.NaN()), nil
	}
	return Float(float64(raw) * k.scale(r)), nil
}
