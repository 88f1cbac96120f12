// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package multiplex

import (
	"fmt"
	"math"
)

// Operation is one register read or write queued into a Builder.
type Operation struct {
	// Register is the addressed register.
	Register Register

	// Value carries the data for writes.
	Value Value

	write  bool
	res    Resolution
	hasRes bool
}

// Read requests a register at the registry's default resolution.
func Read(reg Register) Operation {
	return Operation{Register: reg}
}

// ReadWith requests a register at an explicit resolution.
func ReadWith(reg Register, res Resolution) Operation {
	return Operation{Register: reg, res: res, hasRes: true}
}

// Write queues a register write, leaving resolution selection to the
// builder.
func Write(reg Register, v Value) Operation {
	return Operation{Register: reg, Value: v, write: true}
}

// WriteWith queues a register write at an explicit resolution.
func WriteWith(reg Register, v Value, res Resolution) Operation {
	return Operation{Register: reg, Value: v, write: true, res: res, hasRes: true}
}

// IsWrite reports the operation direction.
func (o Operation) IsWrite() bool { return o.write }

// resolvedOp is an operation with its resolution fixed and, for writes, its
// value bytes already encoded.
type resolvedOp struct {
	reg   Register
	write bool
	res   Resolution
	data  []byte
}

// Builder assembles register operations into one multiplex frame payload.
// Operations that would not fit are rejected without disturbing the
// buffered state, so a caller can finalize the current frame and continue
// with a fresh builder.
type Builder struct {
	registry *Registry
	max      int
	ops      []resolvedOp
	reads    int
}

// NewBuilder returns an empty builder producing payloads of at most
// MaxPayload bytes.
func NewBuilder(registry *Registry) *Builder {
	return &Builder{registry: registry, max: MaxPayload}
}

// resolve picks the wire resolution for an operation: an explicit request
// wins, integer writes use the smallest lossless width, everything else
// uses the register's default.
func (b *Builder) resolve(op Operation) (Resolution, error) {
	info, ok := b.registry.Lookup(op.Register)
	if !ok {
		return 0, fmt.Errorf("unknown register %s: %w", op.Register, ErrUnsupportedResolution)
	}
	if op.hasRes {
		if err := b.registry.Permits(op.Register, op.res); err != nil {
			return 0, err
		}
		return op.res, nil
	}
	if op.write && info.Kind == KindInt {
		if !op.Value.IsInt() {
			return 0, fmt.Errorf("float value for integer register %s: %w", op.Register, ErrUnsupportedResolution)
		}
		switch v := op.Value.Int64(); {
		case v >= math.MinInt8 && v <= math.MaxInt8:
			return Int8, nil
		case v >= math.MinInt16 && v <= math.MaxInt16:
			return Int16, nil
		case v >= math.MinInt32 && v <= math.MaxInt32:
			return Int32, nil
		default:
			return 0, fmt.Errorf("%d does not fit any integer resolution: %w", v, ErrValueOutOfRange)
		}
	}
	return info.Default, nil
}

// Add appends one operation. It fails with ErrUnsupportedResolution if the
// resolution is not valid for the register, ErrValueOutOfRange if the value
// cannot be represented, or ErrPayloadOverflow if the buffered operations
// plus this one no longer fit a single frame. On failure the buffered state
// is unchanged.
func (b *Builder) Add(op Operation) error {
	res, err := b.resolve(op)
	if err != nil {
		return err
	}
	r := resolvedOp{reg: op.Register, write: op.write, res: res}
	if op.write {
		info, _ := b.registry.Lookup(op.Register)
		r.data, err = encodeValue(nil, info.Kind, op.Value, res)
		if err != nil {
			return fmt.Errorf("register %s: %w", op.Register, err)
		}
	}
	b.ops = append(b.ops, r)
	if n := len(encodeOps(b.ops)); n > b.max {
		b.ops = b.ops[:len(b.ops)-1]
		return fmt.Errorf("%d bytes exceeds %d byte frame: %w", n, b.max, ErrPayloadOverflow)
	}
	if !op.write {
		b.reads++
	}
	return nil
}

// AddMany appends operations in order until one fails, returning how many
// were added. The buffered state rolls back to just before the failing
// operation.
func (b *Builder) AddMany(ops []Operation) (int, error) {
	for i, op := range ops {
		if err := b.Add(op); err != nil {
			return i, err
		}
	}
	return len(ops), nil
}

// Len returns the number of buffered operations.
func (b *Builder) Len() int { return len(b.ops) }

// HasReads reports whether any buffered operation is a read, in which case
// the finished frame should request a reply.
func (b *Builder) HasReads() bool { return b.reads > 0 }

// Reset discards all buffered operations.
func (b *Builder) Reset() {
	b.ops = b.ops[:0]
	b.reads = 0
}

// Build finalizes the payload for the buffered operations. The builder can
// keep accepting operations afterwards; call Reset to start a new frame.
func (b *Builder) Build() []byte {
	return encodeOps(b.ops)
}

// encodeOps packs operations into subframes, coalescing maximal runs with
// the same direction and resolution over contiguous ascending registers
// into a single header.
func encodeOps(ops []resolvedOp) []byte {
	var buf []byte
	for i := 0; i < len(ops); {
		j := i + 1
		for j < len(ops) &&
			ops[j].write == ops[i].write &&
			ops[j].res == ops[i].res &&
			ops[j].reg == ops[j-1].reg+1 {
			j++
		}
		count := j - i
		base := byte(opReadBase)
		if ops[i].write {
			base = opWriteBase
		}
		base |= byte(ops[i].res) << 2
		if count <= 3 {
			buf = append(buf, base|byte(count))
		} else {
			buf = append(buf, base)
			buf = appendVaruint(buf, uint32(count))
		}
		buf = appendVaruint(buf, uint32(ops[i].reg))
		for ; i < j; i++ {
			buf = append(buf, ops[i].data...)
		}
	}
	return buf
}
