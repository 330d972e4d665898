// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"github.com/spf13/cobra"
)

var clearSave bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the display",
	Long: `Clear all rows of the display and home the cursor.

With --save the blank screen is also stored as the power-on boot state.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVar(&clearSave, "save", false, "Save the cleared screen as the boot state")
}

func runClear(cmd *cobra.Command, args []string) error {
	dev, _, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := dev.ClearScreen(); err != nil {
		return err
	}
	if clearSave {
		return dev.SaveBootState()
	}
	return nil
}
