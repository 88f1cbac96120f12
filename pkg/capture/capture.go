// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

// Package capture records bus traffic to a CBOR stream for later replay
// and analysis. Each record is one frame with its direction and a
// timestamp; a capture file is simply concatenated CBOR records.
package capture

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/mboulet/moteus/pkg/moteus"
	"github.com/mboulet/moteus/pkg/multiplex"
)

// Frame directions.
const (
	DirTx uint8 = iota
	DirRx
)

// Record is one captured frame.
type Record struct {
	Time   time.Time `cbor:"0,keyasint"`
	Dir    uint8     `cbor:"1,keyasint"`
	Source uint8     `cbor:"2,keyasint"`
	Dest   uint8     `cbor:"3,keyasint"`
	Query  bool      `cbor:"4,keyasint"`
	Data   []byte    `cbor:"5,keyasint"`
}

// Frame rebuilds the multiplex frame from the record.
func (r Record) Frame() multiplex.Frame {
	return multiplex.Frame{
		Source: r.Source,
		Dest:   r.Dest,
		Query:  r.Query,
		Data:   r.Data,
	}
}

func newRecord(dir uint8, frame multiplex.Frame) Record {
	return Record{
		Time:   time.Now(),
		Dir:    dir,
		Source: frame.Source,
		Dest:   frame.Dest,
		Query:  frame.Query,
		Data:   frame.Data,
	}
}

// encMode stores timestamps as RFC 3339 strings with nanoseconds. The
// default CBOR time encoding truncates to whole seconds, and the float64
// epoch forms cannot represent sub-second instants exactly.
var encMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Writer appends records to a CBOR stream. Safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	enc *cbor.Encoder
}

// NewWriter wraps an output stream.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: encMode.NewEncoder(w)}
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(rec)
}

// Reader iterates over the records of a capture stream.
type Reader struct {
	dec *cbor.Decoder
}

// NewReader wraps an input stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at the end of the stream.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// NewTransport decorates a transport so that every frame it carries is
// also written to the capture stream. Capture failures do not interfere
// with the live traffic; the first one is kept and reported by Close.
type Transport struct {
	inner  moteus.Transport
	writer *Writer

	mu      sync.Mutex
	saveErr error
}

// NewTransport wraps inner with capture.
func NewTransport(inner moteus.Transport, w *Writer) *Transport {
	return &Transport{inner: inner, writer: w}
}

func (t *Transport) record(rec Record) {
	if err := t.writer.Write(rec); err != nil {
		t.mu.Lock()
		if t.saveErr == nil {
			t.saveErr = err
		}
		t.mu.Unlock()
	}
}

// Send forwards the frame and records it.
func (t *Transport) Send(ctx context.Context, frame multiplex.Frame) error {
	if err := t.inner.Send(ctx, frame); err != nil {
		return err
	}
	t.record(newRecord(DirTx, frame))
	return nil
}

// Receive forwards to the inner transport and records received frames.
func (t *Transport) Receive(ctx context.Context) (multiplex.Frame, error) {
	frame, err := t.inner.Receive(ctx)
	if err != nil {
		return frame, err
	}
	t.record(newRecord(DirRx, frame))
	return frame, nil
}

// Close closes the inner transport and reports any capture write failure.
func (t *Transport) Close() error {
	err := t.inner.Close()
	t.mu.Lock()
	defer t.mu.Unlock()
	if err == nil {
		err = t.saveErr
	}
	return err
}
