// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenworks/cflink/pkg/cfpacket"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Stream keypad events",
	Long: `Print keypad press and release events as they arrive, one per line,
until interrupted with Ctrl+C.

Output format:
  15:04:05.000 PRESS   UP
  15:04:05.217 RELEASE UP`,
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	dev, info, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	fmt.Printf("Connection: %s\n", info)
	fmt.Printf("Waiting for keypad events (Ctrl+C to stop)...\n\n")

	cancel := dev.Keys(func(ev cfpacket.KeyEvent) {
		action := "RELEASE"
		if ev.Pressed() {
			action = "PRESS"
		}
		fmt.Printf("%s %-7s %s\n", time.Now().Format("15:04:05.000"), action, ev.Key())
	})
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
