// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/mboulet/moteus/pkg/moteus"
	"github.com/mboulet/moteus/pkg/multiplex"
)

func TestRecordRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	records := []Record{
		{
			Time: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
			Dir:  DirTx, Source: 0, Dest: 1, Query: true,
			Data: []byte{0x11, 0x00},
		},
		{
			Time: time.Date(2026, 3, 14, 10, 30, 0, 12e6, time.UTC),
			Dir:  DirRx, Source: 1, Dest: 0,
			Data: []byte{0x21, 0x00, 0x0a},
		},
		{
			// Full nanosecond precision must survive the round trip.
			Time: time.Date(2026, 3, 14, 10, 30, 0, 123456789, time.UTC),
			Dir:  DirRx, Source: 1, Dest: 0,
			Data: []byte{0x50},
		},
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatal(err)
		}
	}

	r := NewReader(&buf)
	for i, want := range records {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if !got.Time.Equal(want.Time) {
			t.Errorf("record %d time = %v, want %v", i, got.Time, want.Time)
		}
		if got.Dir != want.Dir || got.Source != want.Source || got.Dest != want.Dest || got.Query != want.Query {
			t.Errorf("record %d = %+v, want %+v", i, got, want)
		}
		if !bytes.Equal(got.Data, want.Data) {
			t.Errorf("record %d data = % x, want % x", i, got.Data, want.Data)
		}
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("after last record: err = %v, want io.EOF", err)
	}
}

func TestRecordFrame(t *testing.T) {
	rec := Record{Source: 1, Dest: 0, Query: true, Data: []byte{0x50}}
	frame := rec.Frame()
	if frame.Source != 1 || frame.Dest != 0 || !frame.Query || !bytes.Equal(frame.Data, []byte{0x50}) {
		t.Errorf("Frame() = %+v", frame)
	}
}

func TestTransportRecordsBothDirections(t *testing.T) {
	host, device := moteus.NewLoopback()
	defer device.Close()

	var buf bytes.Buffer
	tr := NewTransport(host, NewWriter(&buf))
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out := multiplex.Frame{Dest: 1, Query: true, Data: []byte{0x11, 0x00}}
	if err := tr.Send(ctx, out); err != nil {
		t.Fatal(err)
	}
	if _, err := device.Receive(ctx); err != nil {
		t.Fatal(err)
	}
	back := multiplex.Frame{Source: 1, Data: []byte{0x21, 0x00, 0x0a}}
	if err := device.Send(ctx, back); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Receive(ctx); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	first, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if first.Dir != DirTx || first.Dest != 1 || !bytes.Equal(first.Data, out.Data) {
		t.Errorf("first record = %+v, want tx of % x", first, out.Data)
	}
	second, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if second.Dir != DirRx || second.Source != 1 || !bytes.Equal(second.Data, back.Data) {
		t.Errorf("second record = %+v, want rx of % x", second, back.Data)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

// failWriter fails after n successful writes.
type failWriter struct {
	n int
}

func (f *failWriter) Write(p []byte) (int, error) {
	if f.n <= 0 {
		return 0, errors.New("disk full")
	}
	f.n--
	return len(p), nil
}

func TestTransportReportsCaptureFailureOnClose(t *testing.T) {
	host, device := moteus.NewLoopback()
	defer device.Close()

	tr := NewTransport(host, NewWriter(&failWriter{}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Live traffic is unaffected by the capture failure.
	if err := tr.Send(ctx, multiplex.Frame{Dest: 1, Data: []byte{0x50}}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := device.Receive(ctx); err != nil {
		t.Fatal(err)
	}

	if err := tr.Close(); err == nil {
		t.Error("Close() = nil, want saved capture error")
	}
}
