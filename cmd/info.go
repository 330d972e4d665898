// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Query display hardware and firmware version",
	Long: `Query the display for its hardware and firmware version string
and show the current keypad state.`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	dev, info, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	version, err := dev.Version()
	if err != nil {
		return err
	}

	keys, err := dev.PollKeys()
	if err != nil {
		return err
	}

	fmt.Printf("Connection: %s\n", info)
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Keys held:  %s\n", keys)
	return nil
}
