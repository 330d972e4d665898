// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

// Package cfpacket implements the packet protocol spoken by CrystalFontz-style
// intelligent character displays over a serial link.
//
// Every frame on the wire is `[command, length, data..., crc_lo, crc_hi]` with
// a CRC-16/X-25 checksum computed over everything before the CRC itself. This
// package provides packet encoding/decoding, CRC validation, keypad event
// decoding, and payload formatting.
package cfpacket

// Wire format limits
const (
	// HeaderSize is the fixed prefix of every frame: command + length.
	HeaderSize = 2
	// ChecksumSize is the trailing CRC, little-endian.
	ChecksumSize = 2
	// MaxDataSize is the largest payload a single frame can carry.
	MaxDataSize = 255
)

// Display geometry (20x4 character module)
const (
	DisplayRows    = 4
	DisplayColumns = 20
)

// CRC-16/X-25 configuration
const (
	crcPolynomial = 0x8408 // reflected 0x1021
	crcInitial    = 0xFFFF
)

// Host -> display command opcodes
const (
	CmdPing              = 0x00
	CmdGetVersion        = 0x01
	CmdWriteUserFlash    = 0x02
	CmdReadUserFlash     = 0x03
	CmdSaveBootState     = 0x04
	CmdClearScreen       = 0x06
	CmdSetCustomGlyph    = 0x09
	CmdSetCursorPosition = 0x0B
	CmdSetCursorStyle    = 0x0C
	CmdSetContrast       = 0x0D
	CmdSetBacklight      = 0x0E
	CmdPollKeys          = 0x18
	CmdSetText           = 0x1F
	CmdSetGPIO           = 0x22
)

// ReplyBit is set on the acknowledgement opcode for every host command:
// the reply to command C arrives with opcode C|ReplyBit.
const ReplyBit = 0x40

// CmdKeyActivity is the reserved opcode for unsolicited keypad notifications.
// It is never a reply to a request; the single payload byte is a KeyEvent.
const CmdKeyActivity = 0x80

// Fixed payload sizes
const (
	PingMaxDataSize  = 16
	UserFlashSize    = 16
	GlyphBitmapSize  = 8
	VersionMinSize   = 16
	KeyActivitySize  = 1
	KeyMaskReplySize = 1
)

// ReplyFor returns the acknowledgement opcode for a host command.
func ReplyFor(command byte) byte {
	return command | ReplyBit
}
