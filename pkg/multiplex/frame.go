// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package multiplex

import (
	"fmt"
)

// replyBit in the arbitration id requests a reply frame from the device.
const replyBit = 0x8000

// Frame is the unit exchanged with a transport: CAN-FD addressing plus a
// multiplex payload of at most MaxPayload bytes.
type Frame struct {
	// Source is the id of the sending node.
	Source uint8
	// Dest is the id of the addressed node.
	Dest uint8
	// Query requests a reply frame from the destination.
	Query bool
	// Data is the multiplex payload.
	Data []byte
}

// ArbitrationID packs the addressing into the 16-bit CAN arbitration id:
// destination in the low byte, source in the high byte, bit 15 set when a
// reply is requested.
func (f Frame) ArbitrationID() uint16 {
	id := uint16(f.Source)<<8 | uint16(f.Dest)
	if f.Query {
		id |= replyBit
	}
	return id
}

// FrameFromID rebuilds a frame from a received arbitration id and payload.
func FrameFromID(id uint16, data []byte) Frame {
	return Frame{
		Source: uint8(id >> 8 & 0x7f),
		Dest:   uint8(id),
		Query:  id&replyBit != 0,
		Data:   data,
	}
}

// Validate checks the frame can be represented on the wire. The source id
// occupies 7 bits of the arbitration id; anything above 0x7f would collide
// with the reply-request bit.
func (f Frame) Validate() error {
	if f.Source > 0x7f {
		return fmt.Errorf("source id 0x%02x: %w", f.Source, ErrMalformedFrame)
	}
	if len(f.Data) > MaxPayload {
		return fmt.Errorf("%d byte payload: %w", len(f.Data), ErrPayloadOverflow)
	}
	return nil
}

// appendVaruint encodes v as little-endian 7-bit groups with the high bit
// marking continuation.
func appendVaruint(buf []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(buf, b)
		}
		buf = append(buf, b|0x80)
	}
}

// readVaruint decodes a varuint, returning the value and consumed length.
func readVaruint(b []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < len(b); i++ {
		if i == 4 {
			return 0, 0, fmt.Errorf("varuint too long: %w", ErrMalformedFrame)
		}
		v |= uint32(b[i]&0x7f) << (7 * i)
		if b[i]&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("truncated varuint: %w", ErrMalformedFrame)
}

func varuintLen(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
