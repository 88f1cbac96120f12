// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package main

import (
	"os"

	"github.com/mboulet/moteus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
