// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package multiplex

import (
	"errors"
	"math"
	"testing"
)

// =============================================================================
// Well-formed replies
// =============================================================================

func TestParseReplies(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    map[Register]float64
	}{
		{
			name:    "reply int8 single",
			payload: []byte{0x21, 0x00, 0x0a},
			want:    map[Register]float64{0x000: 10},
		},
		{
			name: "reply float contiguous pair",
			payload: []byte{
				0x2e, 0x20,
				0x00, 0x00, 0xc0, 0x3f,
				0x00, 0x00, 0x00, 0x00,
			},
			want: map[Register]float64{0x020: 1.5, 0x021: 0},
		},
		{
			name:    "reply int16 scaled position",
			payload: []byte{0x25, 0x20, 0x60, 0x00},
			want:    map[Register]float64{0x020: 0.0096},
		},
		{
			name: "reply count as varuint",
			payload: []byte{
				0x24, 0x04, 0x20,
				0x60, 0x00, // position 0.0096
				0x20, 0x01, // velocity 0.072
				0x50, 0xff, // torque -1.76
				0xff, 0x7f, // kp scale 1.0
			},
			want: map[Register]float64{
				0x020: 0.0096,
				0x021: 0.072,
				0x022: -1.76,
				0x023: 1.0,
			},
		},
		{
			name: "coalesced write pair decodes to both registers",
			payload: []byte{
				0x0e, 0x20,
				0x00, 0x00, 0xc0, 0x3f,
				0x00, 0x00, 0x00, 0x00,
			},
			want: map[Register]float64{0x020: 1.5, 0x021: 0},
		},
		{
			name: "write subframe echoed in reply",
			payload: []byte{
				0x0d, 0x20, 0x00, 0x00, 0xc0, 0x3f,
			},
			want: map[Register]float64{0x020: 1.5},
		},
		{
			name: "nop padding ignored",
			payload: []byte{
				0x50, 0x21, 0x00, 0x0a, 0x50, 0x50, 0x50,
			},
			want: map[Register]float64{0x000: 10},
		},
		{
			name:    "empty payload",
			payload: nil,
			want:    map[Register]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Parse(tt.payload, testRegistry)
			if err != nil {
				t.Fatal(err)
			}
			if len(resp) != len(tt.want) {
				t.Fatalf("got %d registers, want %d", len(resp), len(tt.want))
			}
			for reg, want := range tt.want {
				got, ok := resp.Float64(reg)
				if !ok {
					t.Errorf("register %s missing", reg)
					continue
				}
				if math.Abs(got-want) > 1e-9 {
					t.Errorf("register %s = %v, want %v", reg, got, want)
				}
			}
		})
	}
}

func TestParseIntSentinelIsNaN(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"int8 sentinel", []byte{0x21, 0x20, 0x80}},
		{"int16 sentinel", []byte{0x25, 0x20, 0x00, 0x80}},
		{"int32 sentinel", []byte{0x29, 0x20, 0x00, 0x00, 0x00, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Parse(tt.payload, testRegistry)
			if err != nil {
				t.Fatal(err)
			}
			got, ok := resp.Float64(0x020)
			if !ok {
				t.Fatal("register 0x020 missing")
			}
			if !math.IsNaN(got) {
				t.Errorf("got %v, want NaN", got)
			}
		})
	}
}

func TestParseIntRegisterStaysInt(t *testing.T) {
	resp, err := Parse([]byte{0x29, 0x70, 0xa0, 0x86, 0x01, 0x00}, testRegistry)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := resp.Get(0x070)
	if !ok {
		t.Fatal("register 0x070 missing")
	}
	if !v.IsInt() {
		t.Error("integer register decoded as float")
	}
	if got := v.Int64(); got != 100000 {
		t.Errorf("got %d, want 100000", got)
	}
}

// =============================================================================
// Device errors
// =============================================================================

func TestParseDeviceError(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		write   bool
	}{
		{"read error", []byte{0x31, 0x20, 0x03}, false},
		{"write error", []byte{0x30, 0x20, 0x03}, true},
		{"error after values", []byte{0x21, 0x00, 0x0a, 0x31, 0x20, 0x03}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Parse(tt.payload, testRegistry)
			if resp != nil {
				t.Error("device error returned a partial response")
			}
			var devErr *DeviceError
			if !errors.As(err, &devErr) {
				t.Fatalf("err = %v, want *DeviceError", err)
			}
			if devErr.Register != 0x020 || devErr.Code != 3 || devErr.Write != tt.write {
				t.Errorf("got %+v, want register 0x020 code 3 write=%v", devErr, tt.write)
			}
		})
	}
}

// =============================================================================
// Malformed payloads
// =============================================================================

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    error
	}{
		{"stream subframe", []byte{0x40, 0x01, 0x00}, ErrMalformedFrame},
		{"read subframe in reply", []byte{0x11, 0x0d}, ErrMalformedFrame},
		{"unknown opcode", []byte{0x60}, ErrMalformedFrame},
		{"truncated values", []byte{0x2e, 0x20, 0x00, 0x00, 0xc0, 0x3f}, ErrMalformedFrame},
		{"truncated address", []byte{0x21}, ErrMalformedFrame},
		{"zero varuint count", []byte{0x2c, 0x00, 0x20}, ErrMalformedFrame},
		{"register out of range", []byte{0x21, 0x80, 0x20, 0x0a}, ErrMalformedFrame},
		{"unknown register", []byte{0x21, 0x50, 0x01}, ErrDecodeFailure},
		{"float encoding of int register", []byte{0x2d, 0x00, 0x00, 0x00, 0x80, 0x3f}, ErrDecodeFailure},
		{"valid then truncated", []byte{0x21, 0x00, 0x0a, 0x25, 0x20, 0x60}, ErrMalformedFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Parse(tt.payload, testRegistry)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if resp != nil {
				t.Error("malformed payload returned a partial response")
			}
		})
	}
}
