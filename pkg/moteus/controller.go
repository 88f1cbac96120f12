// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package moteus

import (
	"context"
	"errors"
	"fmt"

	"github.com/mboulet/moteus/pkg/multiplex"
)

// Controller drives the request/response protocol against one or more
// moteus devices sharing a transport. It is strictly sequential: one
// command is in flight at a time, and concurrent use from multiple
// goroutines requires external mutual exclusion. The Controller never
// retries; a retried write could double-apply a stateful command.
type Controller struct {
	transport    Transport
	source       uint8
	defaultQuery Query
}

// Option configures a Controller.
type Option func(*Controller)

// WithSourceID sets the CAN id this node claims in outgoing frames.
// Source ids are 7 bits wide; the high bit is masked off. Defaults to 0.
func WithSourceID(id uint8) Option {
	return func(c *Controller) { c.source = id & 0x7f }
}

// WithDefaultQuery replaces the register set requested by Query.
func WithDefaultQuery(q Query) Option {
	return func(c *Controller) { c.defaultQuery = q }
}

// New creates a Controller owning the given transport. Closing the
// Controller closes the transport.
func New(transport Transport, opts ...Option) *Controller {
	c := &Controller{
		transport:    transport,
		defaultQuery: DefaultQuery(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the underlying transport.
func (c *Controller) Close() error {
	return c.transport.Close()
}

// Command encodes the operations into one or more frames addressed to id,
// sends them, and — if any operation is a read — collects and parses the
// replies into a single Response. Pure writes return immediately after
// sending, without waiting for anything from the device.
func (c *Controller) Command(ctx context.Context, id uint8, ops []multiplex.Operation) (multiplex.Response, error) {
	requested := make(map[multiplex.Register]bool)
	for _, op := range ops {
		if !op.IsWrite() {
			requested[op.Register] = true
		}
	}

	merged := make(multiplex.Response)
	b := multiplex.NewBuilder(registry)

	flush := func() error {
		if b.Len() == 0 {
			return nil
		}
		frame := multiplex.Frame{
			Source: c.source,
			Dest:   id,
			Query:  b.HasReads(),
			Data:   b.Build(),
		}
		b.Reset()
		if err := c.transport.Send(ctx, frame); err != nil {
			return &TransportError{Err: err}
		}
		if !frame.Query {
			return nil
		}
		return c.receiveReply(ctx, id, requested, merged)
	}

	for _, op := range ops {
		err := b.Add(op)
		if errors.Is(err, multiplex.ErrPayloadOverflow) && b.Len() > 0 {
			// Current frame is full; start the next one.
			if err = flush(); err != nil {
				return nil, err
			}
			err = b.Add(op)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(requested) == 0 {
		return nil, nil
	}
	return merged, nil
}

// receiveReply waits for one reply frame, validates its addressing, and
// merges the parsed registers into resp.
func (c *Controller) receiveReply(ctx context.Context, id uint8, requested map[multiplex.Register]bool, resp multiplex.Response) error {
	frame, err := c.transport.Receive(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %w", ErrNoReply, err)
		}
		return &TransportError{Err: err}
	}
	if frame.Source != id || frame.Dest != c.source {
		return fmt.Errorf("reply from %d to %d, expected %d to %d: %w",
			frame.Source, frame.Dest, id, c.source, ErrAddressMismatch)
	}
	parsed, err := multiplex.Parse(frame.Data, registry)
	if err != nil {
		return err
	}
	for reg, v := range parsed {
		if !requested[reg] {
			return fmt.Errorf("unsolicited register %s in reply: %w", reg, multiplex.ErrDecodeFailure)
		}
		resp[reg] = v
	}
	return nil
}

// Query reads the controller's default query registers from the device.
func (c *Controller) Query(ctx context.Context, id uint8) (*State, error) {
	return c.QueryWith(ctx, id, c.defaultQuery)
}

// QueryWith reads an explicit register set from the device.
func (c *Controller) QueryWith(ctx context.Context, id uint8, q Query) (*State, error) {
	ops, err := q.Operations()
	if err != nil {
		return nil, err
	}
	resp, err := c.Command(ctx, id, ops)
	if err != nil {
		return nil, err
	}
	return newState(q, resp)
}

// Send transmits a command with no query attached. It never waits for a
// reply.
func (c *Controller) Send(ctx context.Context, id uint8, cmd Command) error {
	ops, err := cmd.Operations()
	if err != nil {
		return err
	}
	_, err = c.Command(ctx, id, ops)
	return err
}

// SendQuery transmits a command and the query's reads in the same frame
// set, returning the device state from the reply.
func (c *Controller) SendQuery(ctx context.Context, id uint8, cmd Command, q Query) (*State, error) {
	ops, err := cmd.Operations()
	if err != nil {
		return nil, err
	}
	qops, err := q.Operations()
	if err != nil {
		return nil, err
	}
	resp, err := c.Command(ctx, id, append(ops, qops...))
	if err != nil {
		return nil, err
	}
	return newState(q, resp)
}
