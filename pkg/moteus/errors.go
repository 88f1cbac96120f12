// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package moteus

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressMismatch reports a reply whose addressing does not mirror
	// the request, which usually means another node answered on a shared
	// bus.
	ErrAddressMismatch = errors.New("moteus: reply address mismatch")

	// ErrNoReply reports that a query got no reply frame within the
	// caller's wait bound. Distinct from malformed-reply errors so
	// callers can decide to retry "device unreachable" separately.
	ErrNoReply = errors.New("moteus: no reply")

	// ErrClosed reports use of a closed transport.
	ErrClosed = errors.New("moteus: transport closed")
)

// TransportError wraps a failure produced by the underlying Transport
// verbatim, so callers can still branch on transport-specific conditions
// through errors.As / errors.Is.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("moteus: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
