// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package moteus

import (
	"context"
	"sync"

	"github.com/mboulet/moteus/pkg/multiplex"
)

// Loopback is an in-memory Transport for tests and simulations. Frames
// sent on one end arrive at the other, so a test can play the device side
// of an exchange without any hardware.
type Loopback struct {
	peer   *Loopback
	ch     chan multiplex.Frame
	closed chan struct{}
	once   sync.Once
}

// NewLoopback returns two connected endpoints.
func NewLoopback() (*Loopback, *Loopback) {
	a := &Loopback{ch: make(chan multiplex.Frame, 64), closed: make(chan struct{})}
	b := &Loopback{ch: make(chan multiplex.Frame, 64), closed: make(chan struct{})}
	a.peer, b.peer = b, a
	return a, b
}

// Send delivers the frame to the peer endpoint.
func (l *Loopback) Send(ctx context.Context, frame multiplex.Frame) error {
	if err := frame.Validate(); err != nil {
		return err
	}
	select {
	case <-l.closed:
		return ErrClosed
	case <-l.peer.closed:
		return ErrClosed
	default:
	}
	select {
	case l.peer.ch <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.peer.closed:
		return ErrClosed
	}
}

// Receive waits for the next frame sent by the peer.
func (l *Loopback) Receive(ctx context.Context) (multiplex.Frame, error) {
	select {
	case frame := <-l.ch:
		return frame, nil
	case <-ctx.Done():
		return multiplex.Frame{}, ctx.Err()
	case <-l.closed:
		select {
		case frame := <-l.ch:
			return frame, nil
		default:
			return multiplex.Frame{}, ErrClosed
		}
	}
}

// Close detaches the endpoint. The peer's sends fail afterwards.
func (l *Loopback) Close() error {
	l.once.Do(func() { close(l.closed) })
	return nil
}
