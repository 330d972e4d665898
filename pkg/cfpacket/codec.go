// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cfpacket

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Decode failure classes. The receive path treats both as transport noise and
// drops the frame; neither ever escapes to command callers.
var (
	// ErrMalformedFrame indicates the buffer cannot be a complete frame:
	// too short, or the declared length disagrees with the buffer size.
	ErrMalformedFrame = errors.New("cfpacket: malformed frame")
	// ErrChecksumMismatch indicates a structurally valid frame whose
	// trailing CRC does not match the recomputed one.
	ErrChecksumMismatch = errors.New("cfpacket: checksum mismatch")
)

// Encode builds the wire bytes for a command and payload:
// [command, length, data..., crc_lo, crc_hi]. The CRC is computed over
// everything before it and appended little-endian. Fails if the payload
// exceeds MaxDataSize.
func Encode(command byte, data []byte) ([]byte, error) {
	if len(data) > MaxDataSize {
		return nil, fmt.Errorf("cfpacket: payload too large: %d bytes (max %d)", len(data), MaxDataSize)
	}

	frame := make([]byte, 0, HeaderSize+len(data)+ChecksumSize)
	frame = append(frame, command, byte(len(data)))
	frame = append(frame, data...)

	crc := Checksum(frame)
	return binary.LittleEndian.AppendUint16(frame, crc), nil
}

// Encode returns the packet's wire bytes. The checksum invariant makes this
// infallible for a constructed packet.
func (p *Packet) Encode() []byte {
	frame := p.checksumInput()
	return binary.LittleEndian.AppendUint16(frame, p.crc)
}

// Decode validates a complete frame and returns the packet it carries.
// The input must be exactly one frame: header, declared payload, and two
// trailing CRC bytes. Decode never partially consumes input; on any error the
// caller still owns the full buffer.
func Decode(raw []byte) (*Packet, error) {
	if len(raw) < HeaderSize+ChecksumSize {
		return nil, fmt.Errorf("%w: %d bytes (need at least %d)", ErrMalformedFrame, len(raw), HeaderSize+ChecksumSize)
	}

	dataLen := int(raw[1])
	if len(raw) != HeaderSize+dataLen+ChecksumSize {
		return nil, fmt.Errorf("%w: declared length %d but frame is %d bytes", ErrMalformedFrame, dataLen, len(raw))
	}

	body := raw[:HeaderSize+dataLen]
	want := Checksum(body)
	got := binary.LittleEndian.Uint16(raw[HeaderSize+dataLen:])
	if want != got {
		return nil, fmt.Errorf("%w: expected 0x%04X, got 0x%04X", ErrChecksumMismatch, want, got)
	}

	return &Packet{
		command: raw[0],
		data:    append([]byte(nil), raw[HeaderSize:HeaderSize+dataLen]...),
		crc:     got,
	}, nil
}
