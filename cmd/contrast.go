// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var contrastCmd = &cobra.Command{
	Use:   "contrast <percent>",
	Short: "Set display contrast",
	Long:  `Set the LCD contrast as a percentage from 0 to 100.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runContrast,
}

func init() {
	rootCmd.AddCommand(contrastCmd)
}

func runContrast(cmd *cobra.Command, args []string) error {
	percent, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid percentage %q: %w", args[0], err)
	}

	dev, _, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	return dev.SetContrast(percent)
}
