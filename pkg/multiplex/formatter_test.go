// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package multiplex

import (
	"strings"
	"testing"
)

func TestFormatFrame(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  []string
	}{
		{
			name: "query with reads",
			frame: Frame{
				Source: 0, Dest: 1, Query: true,
				Data: []byte{0x11, 0x00, 0x13, 0x0d},
			},
			want: []string{
				"id=8001 src=0 dst=1 query len=4",
				"READ_INT8 x1 @Mode",
				"READ_INT8 x3 @Voltage",
			},
		},
		{
			name: "reply with values and padding",
			frame: Frame{
				Source: 1, Dest: 0,
				Data: []byte{0x21, 0x00, 0x0a, 0x2d, 0x20, 0x00, 0x00, 0xc0, 0x3f, 0x50, 0x50, 0x50},
			},
			want: []string{
				"id=0100 src=1 dst=0 len=12",
				"REPLY_INT8 x1 @Mode [10]",
				"REPLY_FLOAT x1 @CommandPosition [1.5]",
				"NOP x3",
			},
		},
		{
			name: "device error",
			frame: Frame{
				Source: 1, Dest: 0,
				Data: []byte{0x31, 0x20, 0x03},
			},
			want: []string{"READ_ERROR CommandPosition code=3"},
		},
		{
			name: "truncated values annotated",
			frame: Frame{
				Source: 1, Dest: 0,
				Data: []byte{0x2e, 0x20, 0x00, 0x00, 0xc0, 0x3f},
			},
			want: []string{"REPLY_FLOAT x2 @CommandPosition", "<truncated>"},
		},
		{
			name: "unknown register shown raw",
			frame: Frame{
				Source: 1, Dest: 0,
				Data: []byte{0x21, 0x50, 0x07},
			},
			want: []string{"@0x050", "<07>"},
		},
		{
			name: "unknown opcode stops rendering",
			frame: Frame{
				Source: 1, Dest: 0,
				Data: []byte{0x60, 0x01, 0x02},
			},
			want: []string{"<opcode 0x60: 01 02>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatFrame(tt.frame, testRegistry)
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}
