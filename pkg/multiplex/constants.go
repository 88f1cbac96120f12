// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

// Package multiplex implements the mjbots multiplex register protocol used
// by moteus brushless-motor controllers over CAN-FD.
//
// The package is the pure codec layer: it knows how to pack register reads
// and writes into multiplexed frame payloads, how to parse reply payloads
// back into typed values, and nothing about any physical transport. Device
// specifics (which registers exist, their units and default resolutions)
// are supplied through a Registry.
package multiplex

// Subframe opcodes. The low nibble of the read/write/reply opcodes carries
// the resolution (bits 2-3) and an inline count of 1-3 (bits 0-1); a zero
// count means a varuint count byte follows.
const (
	opWriteBase = 0x00
	opReadBase  = 0x10
	opReplyBase = 0x20

	opWriteError = 0x30
	opReadError  = 0x31

	opStreamClientData = 0x40
	opStreamServerData = 0x41
	opStreamClientPoll = 0x42

	opNop = 0x50
)

// MaxPayload is the maximum CAN-FD frame payload in bytes.
const MaxPayload = 64

// MaxRegister is the highest encodable register address.
const MaxRegister = 0xFFF

// Resolution selects the on-wire encoding of a register value.
type Resolution uint8

// Supported wire resolutions.
const (
	Int8 Resolution = iota
	Int16
	Int32
	Float32
)

// Width returns the encoded size of one value at this resolution.
func (r Resolution) Width() int {
	switch r {
	case Int8:
		return 1
	case Int16:
		return 2
	default:
		return 4
	}
}

func (r Resolution) String() string {
	switch r {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Float32:
		return "float"
	default:
		return "unknown"
	}
}

// canFDLengths are the payload sizes representable by a CAN-FD DLC.
var canFDLengths = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 20, 24, 32, 48, 64}

// PadLength returns the smallest valid CAN-FD payload length that can hold
// n bytes.
func PadLength(n int) int {
	for _, l := range canFDLengths {
		if n <= l {
			return l
		}
	}
	return MaxPayload
}

// Pad extends a payload to a valid CAN-FD length using NOP subframes, which
// the parser skips. The input slice may be reused.
func Pad(payload []byte) []byte {
	want := PadLength(len(payload))
	for len(payload) < want {
		payload = append(payload, opNop)
	}
	return payload
}
