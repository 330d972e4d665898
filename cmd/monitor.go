// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenworks/cflink/pkg/cfpacket"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Display decoded frame traffic in human-readable format",
	Long: `Continuously decode and display frames as they arrive on the connection.

Each complete frame is shown with its command name and decoded payload.
Bytes that do not frame are skipped one at a time until the stream
resynchronizes. Useful for watching what another host is sending to the
display, or for sniffing a bridge.

Supports both serial and WebSocket connections.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	t, info, err := openTransport()
	if err != nil {
		return err
	}
	defer t.Close()

	fmt.Printf("Cflink - Frame Monitor\n")
	fmt.Printf("Connection: %s\n", info)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	var pending []byte
	skipped := 0
	buf := make([]byte, 128)

	for {
		n, err := t.Read(buf)
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}
		if n == 0 {
			// Read timeout with no data.
			continue
		}
		pending = append(pending, buf[:n]...)

		for len(pending) >= cfpacket.HeaderSize {
			need := cfpacket.HeaderSize + int(pending[1]) + cfpacket.ChecksumSize
			if len(pending) < need {
				break
			}

			packet, err := cfpacket.Decode(pending[:need])
			if err != nil {
				// Slide one byte and retry framing.
				pending = pending[1:]
				skipped++
				continue
			}

			if skipped > 0 {
				fmt.Printf("(skipped %d bytes before sync)\n", skipped)
				skipped = 0
			}
			fmt.Print(cfpacket.FormatPacket(packet))
			pending = pending[need:]
		}
	}
}
