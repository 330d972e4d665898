// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cfpacket

import (
	"fmt"
	"strings"
)

// FormatPacket formats a packet into a human-readable string
func FormatPacket(p *Packet) string {
	result := fmt.Sprintf("%s (0x%02X) len=%d\n", FormatCommand(p.command), p.command, len(p.data))

	if len(p.data) > 0 || p.command == CmdPing || p.command == ReplyFor(CmdPing) {
		result += FormatData(p.command, p.data)
	}

	return result
}

// FormatCommand returns the human-readable name for an opcode
func FormatCommand(command byte) string {
	reply := command&ReplyBit != 0 && command != CmdKeyActivity
	base := command &^ byte(ReplyBit)
	if command == CmdKeyActivity {
		return "KEY_ACTIVITY"
	}

	var name string
	switch base {
	case CmdPing:
		name = "PING"
	case CmdGetVersion:
		name = "GET_VERSION"
	case CmdWriteUserFlash:
		name = "WRITE_USER_FLASH"
	case CmdReadUserFlash:
		name = "READ_USER_FLASH"
	case CmdSaveBootState:
		name = "SAVE_BOOT_STATE"
	case CmdClearScreen:
		name = "CLEAR_SCREEN"
	case CmdSetCustomGlyph:
		name = "SET_CUSTOM_GLYPH"
	case CmdSetCursorPosition:
		name = "SET_CURSOR_POSITION"
	case CmdSetCursorStyle:
		name = "SET_CURSOR_STYLE"
	case CmdSetContrast:
		name = "SET_CONTRAST"
	case CmdSetBacklight:
		name = "SET_BACKLIGHT"
	case CmdPollKeys:
		name = "POLL_KEYS"
	case CmdSetText:
		name = "SET_TEXT"
	case CmdSetGPIO:
		name = "SET_GPIO"
	default:
		return "UNKNOWN"
	}

	if reply {
		return name + "_ACK"
	}
	return name
}

// FormatData formats a payload based on its opcode
func FormatData(command byte, data []byte) string {
	switch command {
	case CmdKeyActivity:
		if len(data) == KeyActivitySize {
			return fmt.Sprintf("  Key: %s\n", KeyEvent(data[0]))
		}

	case ReplyFor(CmdPollKeys):
		if len(data) == KeyMaskReplySize {
			return fmt.Sprintf("  Held: %s\n", KeyMask(data[0]))
		}

	case ReplyFor(CmdGetVersion):
		if len(data) >= VersionMinSize {
			return fmt.Sprintf("  Version: %q\n", strings.TrimRight(string(data), "\x00"))
		}

	case CmdSetText:
		if len(data) >= 2 {
			return fmt.Sprintf("  Row: %d, Col: %d, Text: %q\n", data[1], data[0], string(data[2:]))
		}

	case CmdSetCursorPosition:
		if len(data) == 2 {
			return fmt.Sprintf("  Row: %d, Col: %d\n", data[1], data[0])
		}

	case CmdSetContrast:
		if len(data) == 1 {
			return fmt.Sprintf("  Contrast: %d%%\n", data[0])
		}

	case CmdSetBacklight:
		if len(data) == 1 {
			return fmt.Sprintf("  Backlight: %d%%\n", data[0])
		}
		if len(data) == 2 {
			return fmt.Sprintf("  LCD: %d%%, Keypad: %d%%\n", data[0], data[1])
		}

	case CmdPing, ReplyFor(CmdPing):
		if len(data) == 0 {
			return "  (no payload)\n"
		}
	}

	// Default: hex dump
	var b strings.Builder
	b.WriteString("  Payload: ")
	for i, d := range data {
		if i > 0 && i%16 == 0 {
			b.WriteString("\n           ")
		}
		fmt.Fprintf(&b, "%02X ", d)
	}
	b.WriteString("\n")
	return b.String()
}
