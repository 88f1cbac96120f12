// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package multiplex

import (
	"errors"
	"fmt"
)

// Protocol-level failure kinds. Functions in this package wrap these
// sentinels with context, so callers branch with errors.Is.
var (
	// ErrUnsupportedResolution reports a (register, resolution) pair the
	// registry does not permit, for example a float encoding of a raw
	// integer register.
	ErrUnsupportedResolution = errors.New("multiplex: unsupported resolution")

	// ErrPayloadOverflow reports an operation that does not fit in the
	// frame payload together with the operations already buffered.
	ErrPayloadOverflow = errors.New("multiplex: payload overflow")

	// ErrValueOutOfRange reports a write value outside the representable
	// range of the requested resolution.
	ErrValueOutOfRange = errors.New("multiplex: value out of range")

	// ErrMalformedFrame reports a payload that violates the subframe
	// grammar, such as a header describing more values than remain.
	ErrMalformedFrame = errors.New("multiplex: malformed frame")

	// ErrDecodeFailure reports a well-formed payload referencing a
	// register or resolution the registry does not recognize.
	ErrDecodeFailure = errors.New("multiplex: decode failure")
)

// DeviceError is a fault the device itself reported through a write-error
// or read-error subframe in a reply.
type DeviceError struct {
	Register Register
	Code     uint32
	Write    bool
}

func (e *DeviceError) Error() string {
	op := "read"
	if e.Write {
		op = "write"
	}
	return fmt.Sprintf("multiplex: device reported %s error %d for register 0x%03x", op, e.Code, uint16(e.Register))
}
