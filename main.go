// Copyright 2025 Canact Users
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dotandev/canact/internal/cmd"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
)

func run(exec func() error, stderr io.Writer) int {
	if err := exec(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	cmd.Version = version
	os.Exit(run(cmd.Execute, os.Stderr))
}
