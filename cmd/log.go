// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mboulet/moteus/pkg/capture"
	"github.com/mboulet/moteus/pkg/moteus"
	"github.com/mboulet/moteus/pkg/multiplex"
)

var logCaptureFile string

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Display bus traffic in human-readable form",
	Long: `Continuously decode and display frames as they arrive on the bus.

With --capture the raw frames are also written to a CBOR capture file,
which the replay command can decode later.`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logCaptureFile, "capture", "", "Also write frames to this capture file")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	conn, info, err := OpenConnection(s)
	if err != nil {
		return err
	}

	var transport moteus.Transport = moteus.NewFdCanUSB(conn)
	if logCaptureFile != "" {
		f, err := os.Create(logCaptureFile)
		if err != nil {
			return err
		}
		defer f.Close()
		transport = capture.NewTransport(transport, capture.NewWriter(f))
	}
	defer transport.Close()

	fmt.Printf("moteus - bus log\n")
	fmt.Printf("Connection: %s\n", info)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	return logFrames(cmd.Context(), transport, os.Stdout)
}

// logFrames decodes frames from the transport until the context is
// canceled or the transport closes. Any other receive failure is
// terminal: the underlying adapter is gone, so retrying would spin.
func logFrames(ctx context.Context, transport moteus.Transport, out io.Writer) error {
	registry := moteus.Registry()
	for {
		frame, err := transport.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, moteus.ErrClosed) {
				return nil
			}
			log.Error().Err(err).Msg("receive")
			return err
		}
		fmt.Fprint(out, multiplex.FormatFrame(frame, registry))
	}
}
