// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package moteus

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/mboulet/moteus/pkg/multiplex"
)

// FdCanUSB is a Transport speaking the mjbots fdcanusb text protocol over
// a serial stream: frames go out as "can send <hex-id> <hex-data>" lines
// acknowledged with "OK", and arrive as "rcv <hex-id> <hex-data>" lines.
//
// A background goroutine owns the read side and routes acknowledgements
// and received frames to Send and Receive respectively.
type FdCanUSB struct {
	rw  io.ReadWriteCloser
	brs bool

	frames chan multiplex.Frame
	acks   chan error
	closed chan struct{}
	once   sync.Once

	mu      sync.Mutex
	readErr error
}

// FdCanUSBOption configures an FdCanUSB transport.
type FdCanUSBOption func(*FdCanUSB)

// WithDisableBRS turns off the CAN-FD bit rate switch on outgoing frames,
// for networks that cannot keep up with the data-phase rate.
func WithDisableBRS() FdCanUSBOption {
	return func(f *FdCanUSB) { f.brs = false }
}

// NewFdCanUSB wraps an open serial stream (or any byte stream bridged to
// an fdcanusb adapter) as a Transport.
func NewFdCanUSB(rw io.ReadWriteCloser, opts ...FdCanUSBOption) *FdCanUSB {
	f := &FdCanUSB{
		rw:     rw,
		brs:    true,
		frames: make(chan multiplex.Frame, 16),
		acks:   make(chan error, 1),
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	go f.readLoop()
	return f
}

// readLoop routes adapter output: "rcv" lines become frames, "OK"/"ERR"
// lines acknowledge the last send. Everything else is adapter chatter and
// is dropped.
func (f *FdCanUSB) readLoop() {
	scanner := bufio.NewScanner(f.rw)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "OK":
			select {
			case f.acks <- nil:
			default:
			}
		case strings.HasPrefix(line, "ERR"):
			select {
			case f.acks <- fmt.Errorf("fdcanusb: %s", line):
			default:
			}
		case strings.HasPrefix(line, "rcv "):
			frame, err := parseRcvLine(line)
			if err != nil {
				continue
			}
			select {
			case f.frames <- frame:
			case <-f.closed:
				return
			}
		}
	}
	f.mu.Lock()
	f.readErr = scanner.Err()
	f.mu.Unlock()
	f.once.Do(func() { close(f.closed) })
}

// parseRcvLine decodes "rcv <hex-id> <hex-data> [flags...]".
func parseRcvLine(line string) (multiplex.Frame, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return multiplex.Frame{}, fmt.Errorf("fdcanusb: short rcv line %q", line)
	}
	id, err := strconv.ParseUint(fields[1], 16, 16)
	if err != nil {
		return multiplex.Frame{}, fmt.Errorf("fdcanusb: bad id in %q: %w", line, err)
	}
	data, err := hex.DecodeString(fields[2])
	if err != nil {
		return multiplex.Frame{}, fmt.Errorf("fdcanusb: bad data in %q: %w", line, err)
	}
	return multiplex.FrameFromID(uint16(id), data), nil
}

// Send writes the frame as a "can send" line, padded to a valid CAN-FD
// length with NOP subframes, and waits for the adapter's acknowledgement.
func (f *FdCanUSB) Send(ctx context.Context, frame multiplex.Frame) error {
	if err := frame.Validate(); err != nil {
		return err
	}
	data := multiplex.Pad(append([]byte(nil), frame.Data...))
	line := fmt.Sprintf("can send %04X %s", frame.ArbitrationID(), hex.EncodeToString(data))
	if !f.brs {
		line += " b"
	}
	select {
	case <-f.closed:
		return f.closeErr()
	default:
	}
	if _, err := io.WriteString(f.rw, line+"\n"); err != nil {
		return err
	}
	select {
	case err := <-f.acks:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-f.closed:
		return f.closeErr()
	}
}

// Receive returns the next frame from the adapter, waiting until the
// context ends.
func (f *FdCanUSB) Receive(ctx context.Context) (multiplex.Frame, error) {
	select {
	case frame := <-f.frames:
		return frame, nil
	case <-ctx.Done():
		return multiplex.Frame{}, ctx.Err()
	case <-f.closed:
		// Frames may still be buffered after the reader exits.
		select {
		case frame := <-f.frames:
			return frame, nil
		default:
			return multiplex.Frame{}, f.closeErr()
		}
	}
}

// Drain discards any frames buffered from before the caller's last send,
// like flushing the adapter after opening it.
func (f *FdCanUSB) Drain() {
	for {
		select {
		case <-f.frames:
		default:
			return
		}
	}
}

// Close shuts down the reader and closes the underlying stream.
func (f *FdCanUSB) Close() error {
	f.once.Do(func() { close(f.closed) })
	return f.rw.Close()
}

func (f *FdCanUSB) closeErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return &TransportError{Err: f.readErr}
	}
	return ErrClosed
}
