// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks
//
// Cflink - CrystalFontz-style LCD controller
//
// A CLI tool and driver library for serial character displays speaking the
// CrystalFontz packet protocol, over a serial port or a WebSocket bridge.

package main

import (
	"os"

	"github.com/lumenworks/cflink/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
