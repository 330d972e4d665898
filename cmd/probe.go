// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenworks/cflink/pkg/cflcd"
	"github.com/lumenworks/cflink/pkg/cfpacket"
)

var probeTimeout int

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test connection by waiting for any valid display frame",
	Long: `Send a ping and wait for any valid frame on the connection until timeout.

Invalid bytes are skipped until a complete frame with a good checksum
arrives. Any frame counts, including unsolicited key activity, so this works
even against a display whose firmware answers slowly.

Exit codes:
  0 - Valid frame received before timeout
  1 - Timeout reached without receiving a valid frame
  2 - Connection error

Useful for checking cabling, baud rate, and WebSocket bridge health.`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntVar(&probeTimeout, "wait", 10, "Timeout in seconds to wait for a frame")
}

func runProbe(cmd *cobra.Command, args []string) error {
	t, info, err := openTransport()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}

	engine, err := cflcd.NewEngine(t, cflcd.WithLogger(logger))
	if err != nil {
		t.Close()
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer engine.Close()

	fmt.Printf("Cflink - Probe\n")
	fmt.Printf("Connection: %s\n", info)
	fmt.Printf("Timeout: %d seconds\n", probeTimeout)
	fmt.Printf("Waiting for valid frame...\n\n")

	ping, err := cfpacket.NewPacket(cfpacket.CmdPing, []byte("probe"))
	if err != nil {
		return err
	}

	// A key press proves the link just as well as a ping reply, and key
	// activity frames bypass the reply path, so watch both.
	keyChan := make(chan cfpacket.KeyEvent, 1)
	cancel := engine.Subscribe(func(ev cfpacket.KeyEvent) {
		select {
		case keyChan <- ev:
		default:
		}
	})
	defer cancel()

	replyChan := make(chan *cfpacket.Packet, 1)
	go func() {
		anyReply := func(p *cfpacket.Packet) bool { return true }
		wait := time.Duration(probeTimeout) * time.Second
		if reply, err := engine.SendAndExpect(ping, anyReply, wait); err == nil {
			replyChan <- reply
		}
	}()

	select {
	case reply := <-replyChan:
		fmt.Printf("SUCCESS: Received valid frame\n")
		fmt.Printf("  Command: %s (0x%02X)\n", cfpacket.FormatCommand(reply.Command()), reply.Command())
		fmt.Printf("  Length:  %d bytes\n", len(reply.Data()))
		fmt.Printf("  CRC:     0x%04X\n", reply.CRC())

	case ev := <-keyChan:
		fmt.Printf("SUCCESS: Received key activity\n")
		fmt.Printf("  Event: %s\n", ev)

	case <-time.After(time.Duration(probeTimeout) * time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No valid frame received within %d seconds\n", probeTimeout)
		os.Exit(1)
	}

	return nil
}
