// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	pingCount    int
	pingInterval time.Duration
	pingPayload  string
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Verify the display is alive",
	Long: `Send ping commands and verify the display echoes the payload back.

Each ping carries a small payload that the display must echo byte-for-byte.
A mismatch or timeout counts as a failure. The command exits non-zero if any
ping fails.`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVarP(&pingCount, "count", "c", 1, "Number of pings to send")
	pingCmd.Flags().DurationVarP(&pingInterval, "interval", "i", time.Second, "Delay between pings")
	pingCmd.Flags().StringVar(&pingPayload, "data", "cflink", "Echo payload (up to 16 bytes)")
}

func runPing(cmd *cobra.Command, args []string) error {
	dev, info, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	fmt.Printf("Connection: %s\n", info)

	failed := 0
	for i := 0; i < pingCount; i++ {
		if i > 0 {
			time.Sleep(pingInterval)
		}

		start := time.Now()
		err := dev.Ping([]byte(pingPayload))
		elapsed := time.Since(start)
		if err != nil {
			failed++
			fmt.Printf("ping %d/%d: %v\n", i+1, pingCount, err)
			continue
		}
		fmt.Printf("ping %d/%d: echo ok in %s\n", i+1, pingCount, elapsed.Round(time.Microsecond))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pings failed", failed, pingCount)
	}
	return nil
}
