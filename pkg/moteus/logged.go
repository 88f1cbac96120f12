// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package moteus

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mboulet/moteus/pkg/multiplex"
)

// NewLoggedTransport wraps a Transport and logs every frame that crosses
// it at debug level, with errors at error level. Useful for diagnosing
// bus traffic without touching the protocol layer.
func NewLoggedTransport(inner Transport, logger zerolog.Logger) Transport {
	return &loggedTransport{inner: inner, logger: logger}
}

type loggedTransport struct {
	inner  Transport
	logger zerolog.Logger
}

func (l *loggedTransport) Send(ctx context.Context, frame multiplex.Frame) error {
	err := l.inner.Send(ctx, frame)
	ev := l.logger.Debug()
	if err != nil {
		ev = l.logger.Error().Err(err)
	}
	ev.Uint8("src", frame.Source).
		Uint8("dst", frame.Dest).
		Bool("query", frame.Query).
		Hex("data", frame.Data).
		Msg("send")
	return err
}

func (l *loggedTransport) Receive(ctx context.Context) (multiplex.Frame, error) {
	frame, err := l.inner.Receive(ctx)
	if err != nil {
		l.logger.Error().Err(err).Msg("receive")
		return frame, err
	}
	l.logger.Debug().
		Uint8("src", frame.Source).
		Uint8("dst", frame.Dest).
		Hex("data", frame.Data).
		Msg("receive")
	return frame, nil
}

func (l *loggedTransport) Close() error {
	return l.inner.Close()
}
