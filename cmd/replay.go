// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mboulet/moteus/pkg/capture"
	"github.com/mboulet/moteus/pkg/moteus"
	"github.com/mboulet/moteus/pkg/multiplex"
)

var replayCmd = &cobra.Command{
	Use:   "replay <capture-file>",
	Short: "Decode a capture file",
	Long: `Read a CBOR capture file written by "log --capture" and print each
recorded frame in human-readable form.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	registry := moteus.Registry()
	reader := capture.NewReader(f)
	n := 0
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", n, err)
		}
		n++
		dir := "rx"
		if rec.Dir == capture.DirTx {
			dir = "tx"
		}
		fmt.Printf("[%s] %s %s", rec.Time.Format("15:04:05.000"), dir,
			multiplex.FormatFrame(rec.Frame(), registry))
	}
	fmt.Printf("%d frame(s)\n", n)
	return nil
}
