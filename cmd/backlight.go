// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var backlightKeypad int

var backlightCmd = &cobra.Command{
	Use:   "backlight <percent>",
	Short: "Set backlight brightness",
	Long: `Set the LCD backlight brightness as a percentage from 0 to 100.

With --keypad the keypad backlight is set independently; otherwise both
follow the single value.`,
	Args: cobra.ExactArgs(1),
	RunE: runBacklight,
}

func init() {
	rootCmd.AddCommand(backlightCmd)
	backlightCmd.Flags().IntVar(&backlightKeypad, "keypad", -1, "Keypad backlight percentage (default: same as LCD)")
}

func runBacklight(cmd *cobra.Command, args []string) error {
	percent, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid percentage %q: %w", args[0], err)
	}

	dev, _, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	if backlightKeypad >= 0 {
		return dev.SetBacklights(percent, backlightKeypad)
	}
	return dev.SetBacklight(percent)
}
