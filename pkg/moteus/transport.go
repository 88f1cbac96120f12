// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package moteus

import (
	"context"

	"github.com/mboulet/moteus/pkg/multiplex"
)

// Transport carries multiplex frames over some physical CAN-FD medium.
//
// Receive blocks until a frame arrives or the context ends; the context is
// also the only wait bound the protocol layer relies on, so callers control
// timeouts by passing a deadline. Implementations need not be safe for
// concurrent use; the Controller serializes access.
type Transport interface {
	Send(ctx context.Context, frame multiplex.Frame) error
	Receive(ctx context.Context) (multiplex.Frame, error)
	Close() error
}
