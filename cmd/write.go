// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenworks/cflink/pkg/cflcd"
	"github.com/lumenworks/cflink/pkg/cfpacket"
)

var (
	writeRow      int
	writeCol      int
	writeScroll   bool
	writeInterval time.Duration
)

var writeCmd = &cobra.Command{
	Use:   "write [text]",
	Short: "Write text to the display",
	Long: `Write text to the display at the given row and column.

With --scroll, text wider than the display is scrolled as a marquee on the
chosen row until interrupted. With no text argument, lines are read from
stdin and appended to the display, scrolling older rows off the top:

  dmesg -w | cflink write`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWrite,
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().IntVarP(&writeRow, "row", "r", 0, "Row (0-based)")
	writeCmd.Flags().IntVarP(&writeCol, "col", "c", 0, "Column (0-based)")
	writeCmd.Flags().BoolVar(&writeScroll, "scroll", false, "Scroll text as a marquee")
	writeCmd.Flags().DurationVar(&writeInterval, "interval", 300*time.Millisecond, "Scroll step interval")
}

func runWrite(cmd *cobra.Command, args []string) error {
	dev, _, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	if len(args) == 0 {
		return streamStdin(dev)
	}

	text := args[0]
	if writeScroll {
		return scrollText(dev, text)
	}

	return dev.SetText(writeRow, writeCol, text)
}

// streamStdin appends stdin lines to the display until EOF.
func streamStdin(dev *cflcd.Device) error {
	lw := cflcd.NewLineWriter(dev)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(lw, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return lw.Flush()
}

// scrollText runs a marquee until the process is interrupted.
func scrollText(dev *cflcd.Device, text string) error {
	if len(text) <= cfpacket.DisplayColumns {
		// Nothing to scroll; write it plainly.
		return dev.SetText(writeRow, 0, text)
	}

	s := cflcd.NewScroller(dev, writeRow, text, writeInterval)
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
