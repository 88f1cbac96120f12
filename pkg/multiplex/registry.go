// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package multiplex

import (
	"fmt"
)

// Register is a register address in the device's register map.
type Register uint16

func (r Register) String() string { return fmt.Sprintf("0x%03x", uint16(r)) }

// RegisterInfo describes one register: a human-readable name, its semantic
// kind, and the resolution used when the caller does not pick one.
type RegisterInfo struct {
	Name    string
	Kind    Kind
	Default Resolution
}

// Registry is the static register model for one device family. It is a
// pure lookup table; all methods are safe for concurrent use.
type Registry struct {
	regs map[Register]RegisterInfo
}

// NewRegistry builds a registry from a register table.
func NewRegistry(defs map[Register]RegisterInfo) *Registry {
	regs := make(map[Register]RegisterInfo, len(defs))
	for addr, info := range defs {
		regs[addr] = info
	}
	return &Registry{regs: regs}
}

// Lookup returns the definition of a register.
func (r *Registry) Lookup(reg Register) (RegisterInfo, bool) {
	info, ok := r.regs[reg]
	return info, ok
}

// Name returns the register's name, or its hex address if unknown.
func (r *Registry) Name(reg Register) string {
	if info, ok := r.regs[reg]; ok {
		return info.Name
	}
	return reg.String()
}

// Permits checks that a register exists and may be encoded at the given
// resolution. Raw integer registers reject the float resolution.
func (r *Registry) Permits(reg Register, res Resolution) error {
	info, ok := r.regs[reg]
	if !ok {
		return fmt.Errorf("unknown register %s: %w", reg, ErrUnsupportedResolution)
	}
	if info.Kind == KindInt && res == Float32 {
		return fmt.Errorf("register %s (%s) is integer-only: %w", reg, info.Name, ErrUnsupportedResolution)
	}
	return nil
}

// Decode decodes raw wire bytes for a register at a resolution read from a
// subframe header.
func (r *Registry) Decode(reg Register, res Resolution, b []byte) (Value, error) {
	info, ok := r.regs[reg]
	if !ok {
		return Value{}, fmt.Errorf("unknown register %s: %w", reg, ErrDecodeFailure)
	}
	v, err := decodeValue(b, info.Kind, res)
	if err != nil {
		return Value{}, fmt.Errorf("register %s (%s): %w", reg, info.Name, err)
	}
	return v, nil
}
