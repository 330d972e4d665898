// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cfpacket

import "fmt"

// Packet represents one validated protocol frame. A Packet is immutable after
// construction: the checksum is always the CRC of command ++ length ++ data,
// and the only ways to obtain one are NewPacket (which computes the CRC) and
// Decode (which verifies it).
type Packet struct {
	command byte
	data    []byte
	crc     uint16
}

// NewPacket creates a packet from an opcode and payload. The payload is
// copied, so the caller may reuse its buffer. Fails if the payload exceeds
// MaxDataSize.
func NewPacket(command byte, data []byte) (*Packet, error) {
	if len(data) > MaxDataSize {
		return nil, fmt.Errorf("cfpacket: payload too large: %d bytes (max %d)", len(data), MaxDataSize)
	}
	p := &Packet{
		command: command,
		data:    append([]byte(nil), data...),
	}
	p.crc = Checksum(p.checksumInput())
	return p, nil
}

// checksumInput returns command ++ length ++ data, the region the CRC covers.
func (p *Packet) checksumInput() []byte {
	buf := make([]byte, 0, HeaderSize+len(p.data))
	buf = append(buf, p.command, byte(len(p.data)))
	return append(buf, p.data...)
}

// Command returns the packet's opcode.
func (p *Packet) Command() byte {
	return p.command
}

// Data returns the packet's payload. The returned slice is owned by the
// packet and must not be modified.
func (p *Packet) Data() []byte {
	return p.data
}

// CRC returns the packet's checksum.
func (p *Packet) CRC() uint16 {
	return p.crc
}

// IsKeyActivity reports whether the packet is an unsolicited keypad
// notification rather than a command acknowledgement.
func (p *Packet) IsKeyActivity() bool {
	return p.command == CmdKeyActivity && len(p.data) == KeyActivitySize
}

// IsReplyTo reports whether the packet acknowledges the given host command.
func (p *Packet) IsReplyTo(command byte) bool {
	return p.command == ReplyFor(command)
}

// String returns a short human-readable description of the packet.
func (p *Packet) String() string {
	return fmt.Sprintf("%s (0x%02X) len=%d crc=0x%04X", FormatCommand(p.command), p.command, len(p.data), p.crc)
}
