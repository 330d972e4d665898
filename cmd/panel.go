// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lumenworks/cflink/pkg/cfpacket"
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Interactive TUI for the display",
	Long: `Control the display via an interactive terminal UI.

The panel mirrors the display contents locally, lets you write text to any
row, adjust backlight and contrast, and shows keypad activity as it happens.

Key bindings:
  Tab        Switch focus between screen and text input
  Up/Down    Select target row (screen focus)
  Enter      Write the input text to the selected row
  +/-        Adjust backlight
  [/]        Adjust contrast
  Ctrl+L     Clear the display
  q          Quit`,
	RunE: runPanel,
}

func init() {
	rootCmd.AddCommand(panelCmd)
}

func runPanel(cmd *cobra.Command, args []string) error {
	dev, info, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	m := initialPanelModel(dev, info)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Forward keypad activity into the TUI event loop.
	cancel := dev.Keys(func(ev cfpacket.KeyEvent) {
		p.Send(panelKeyMsg{event: ev})
	})
	defer cancel()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
