// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package multiplex

import (
	"fmt"
)

// Response maps register addresses to their decoded values.
type Response map[Register]Value

// Get returns the decoded value of a register, if present.
func (r Response) Get(reg Register) (Value, bool) {
	v, ok := r[reg]
	return v, ok
}

// Float64 returns a register's value as a float, if present.
func (r Response) Float64(reg Register) (float64, bool) {
	v, ok := r[reg]
	if !ok {
		return 0, false
	}
	return v.Float64(), true
}

// Int64 returns a register's value as an integer, if present.
func (r Response) Int64(reg Register) (int64, bool) {
	v, ok := r[reg]
	if !ok {
		return 0, false
	}
	return v.Int64(), true
}

// Parse decodes a reply payload into a Response. Replies carry value
// subframes (reply opcodes, or write opcodes for devices that echo them)
// and NOP padding; anything else violates the grammar. Parsing is strict:
// a payload that cannot be decoded in full yields an error and no partial
// result.
func Parse(payload []byte, registry *Registry) (Response, error) {
	resp := make(Response)
	i := 0
	for i < len(payload) {
		op := payload[i]
		i++
		switch {
		case op == opNop:
			continue

		case op == opWriteError || op == opReadError:
			reg, n, err := readVaruint(payload[i:])
			if err != nil {
				return nil, err
			}
			i += n
			code, n, err := readVaruint(payload[i:])
			if err != nil {
				return nil, err
			}
			i += n
			return nil, &DeviceError{
				Register: Register(reg),
				Code:     code,
				Write:    op == opWriteError,
			}

		case op >= opStreamClientData && op <= opStreamClientPoll:
			return nil, fmt.Errorf("stream subframe 0x%02x not supported: %w", op, ErrMalformedFrame)

		case op < opReadBase || (op >= opReplyBase && op < opWriteError):
			// Value-carrying subframe: write (0x00 base) or reply
			// (0x20 base).
			res := Resolution(op >> 2 & 0x3)
			count := int(op & 0x3)
			if count == 0 {
				c, n, err := readVaruint(payload[i:])
				if err != nil {
					return nil, err
				}
				if c == 0 {
					return nil, fmt.Errorf("empty subframe: %w", ErrMalformedFrame)
				}
				count = int(c)
				i += n
			}
			start, n, err := readVaruint(payload[i:])
			if err != nil {
				return nil, err
			}
			if start > MaxRegister {
				return nil, fmt.Errorf("register 0x%x out of range: %w", start, ErrMalformedFrame)
			}
			i += n
			width := res.Width()
			if i+count*width > len(payload) {
				return nil, fmt.Errorf("subframe of %d %s values exceeds payload: %w", count, res, ErrMalformedFrame)
			}
			for k := 0; k < count; k++ {
				reg := Register(start + uint32(k))
				v, err := registry.Decode(reg, res, payload[i:i+width])
				if err != nil {
					return nil, err
				}
				resp[reg] = v
				i += width
			}

		case op < opReplyBase:
			return nil, fmt.Errorf("read subframe 0x%02x in reply: %w", op, ErrMalformedFrame)

		default:
			return nil, fmt.Errorf("unknown subframe opcode 0x%02x: %w", op, ErrMalformedFrame)
		}
	}
	return resp, nil
}
