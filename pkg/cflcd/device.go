// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cflcd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lumenworks/cflink/pkg/cfpacket"
)

// CursorStyle selects the hardware cursor rendering.
type CursorStyle int

// Cursor styles
const (
	CursorNone CursorStyle = iota
	CursorBlinkingBlock
	CursorUnderscore
	CursorBlinkingUnderscore
)

// Device is the public command surface over the protocol engine. Every
// method validates its arguments before touching the transport, sends the
// command, and blocks for its acknowledgement.
//
// Each call blocks until its own reply class arrives, so sequential callers
// get one-outstanding-request-at-a-time behaviour for free. Concurrent
// callers must not issue commands sharing a reply opcode simultaneously:
// replies are matched by opcode, and the wire format carries no request tag
// to tell them apart.
type Device struct {
	engine *Engine
}

// Open starts a Device over an already-open transport.
func Open(t Transport, opts ...Option) (*Device, error) {
	engine, err := NewEngine(t, opts...)
	if err != nil {
		return nil, err
	}
	return &Device{engine: engine}, nil
}

// NewDevice wraps an existing engine.
func NewDevice(engine *Engine) *Device {
	return &Device{engine: engine}
}

// Engine exposes the underlying protocol engine for raw access.
func (d *Device) Engine() *Engine {
	return d.engine
}

// Close shuts the engine down.
func (d *Device) Close() error {
	return d.engine.Close()
}

// roundTrip encodes and sends a command, then blocks for its acknowledgement.
func (d *Device) roundTrip(op string, command byte, data []byte) (*cfpacket.Packet, error) {
	p, err := cfpacket.NewPacket(command, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reply, err := d.engine.SendAndExpect(p, MatchReplyTo(command), d.engine.cmdTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reply, nil
}

// expectEmptyAck performs a round trip whose acknowledgement carries no data.
func (d *Device) expectEmptyAck(op string, command byte, data []byte) error {
	reply, err := d.roundTrip(op, command, data)
	if err != nil {
		return err
	}
	if len(reply.Data()) != 0 {
		return &ProtocolError{Op: op, Reply: reply, Reason: "expected empty acknowledgement"}
	}
	return nil
}

// Ping sends up to PingMaxDataSize bytes and verifies the display echoes them
// back unchanged.
func (d *Device) Ping(data []byte) error {
	if len(data) > cfpacket.PingMaxDataSize {
		return &ArgumentError{Op: "ping", Param: "len(data)", Value: len(data), Min: 0, Max: cfpacket.PingMaxDataSize}
	}

	reply, err := d.roundTrip("ping", cfpacket.CmdPing, data)
	if err != nil {
		return err
	}
	if !bytes.Equal(reply.Data(), data) {
		return &ProtocolError{Op: "ping", Reply: reply, Reason: "echo does not match request payload"}
	}
	return nil
}

// Version returns the hardware and firmware version string.
func (d *Device) Version() (string, error) {
	reply, err := d.roundTrip("version", cfpacket.CmdGetVersion, nil)
	if err != nil {
		return "", err
	}
	if len(reply.Data()) < cfpacket.VersionMinSize {
		return "", &ProtocolError{Op: "version", Reply: reply, Reason: "version reply too short"}
	}
	return strings.TrimRight(string(reply.Data()), "\x00 "), nil
}

// WriteUserFlash stores 16 bytes in the display's user flash area.
func (d *Device) WriteUserFlash(data [cfpacket.UserFlashSize]byte) error {
	return d.expectEmptyAck("write user flash", cfpacket.CmdWriteUserFlash, data[:])
}

// ReadUserFlash reads the 16-byte user flash area.
func (d *Device) ReadUserFlash() ([cfpacket.UserFlashSize]byte, error) {
	var out [cfpacket.UserFlashSize]byte

	reply, err := d.roundTrip("read user flash", cfpacket.CmdReadUserFlash, nil)
	if err != nil {
		return out, err
	}
	if len(reply.Data()) != cfpacket.UserFlashSize {
		return out, &ProtocolError{Op: "read user flash", Reply: reply, Reason: "expected 16 data bytes"}
	}
	copy(out[:], reply.Data())
	return out, nil
}

// SaveBootState stores the current display state as the power-on default.
func (d *Device) SaveBootState() error {
	return d.expectEmptyAck("save boot state", cfpacket.CmdSaveBootState, nil)
}

// ClearScreen blanks the display and homes the cursor.
func (d *Device) ClearScreen() error {
	return d.expectEmptyAck("clear screen", cfpacket.CmdClearScreen, nil)
}

// SetCustomGlyph programs one of the eight CGRAM characters with an 8-row
// bitmap (low six bits of each row are visible).
func (d *Device) SetCustomGlyph(index int, bitmap [cfpacket.GlyphBitmapSize]byte) error {
	if index < 0 || index > 7 {
		return &ArgumentError{Op: "set custom glyph", Param: "index", Value: index, Min: 0, Max: 7}
	}

	data := append([]byte{byte(index)}, bitmap[:]...)
	return d.expectEmptyAck("set custom glyph", cfpacket.CmdSetCustomGlyph, data)
}

// SetCursorPosition moves the hardware cursor.
func (d *Device) SetCursorPosition(row, col int) error {
	if err := validatePosition("set cursor position", row, col); err != nil {
		return err
	}
	return d.expectEmptyAck("set cursor position", cfpacket.CmdSetCursorPosition, []byte{byte(col), byte(row)})
}

// SetCursorStyle selects the cursor rendering.
func (d *Device) SetCursorStyle(style CursorStyle) error {
	if style < CursorNone || style > CursorBlinkingUnderscore {
		return &ArgumentError{Op: "set cursor style", Param: "style", Value: int(style), Min: int(CursorNone), Max: int(CursorBlinkingUnderscore)}
	}
	return d.expectEmptyAck("set cursor style", cfpacket.CmdSetCursorStyle, []byte{byte(style)})
}

// SetContrast sets the display contrast as a percentage.
func (d *Device) SetContrast(percent int) error {
	if percent < 0 || percent > 100 {
		return &ArgumentError{Op: "set contrast", Param: "percent", Value: percent, Min: 0, Max: 100}
	}
	return d.expectEmptyAck("set contrast", cfpacket.CmdSetContrast, []byte{byte(percent)})
}

// SetBacklight sets the LCD backlight brightness as a percentage, using the
// one-argument wire form that leaves the keypad backlight untouched.
func (d *Device) SetBacklight(percent int) error {
	if percent < 0 || percent > 100 {
		return &ArgumentError{Op: "set backlight", Param: "lcd", Value: percent, Min: 0, Max: 100}
	}
	return d.expectEmptyAck("set backlight", cfpacket.CmdSetBacklight, []byte{byte(percent)})
}

// SetBacklights sets the LCD and keypad backlight brightnesses independently,
// using the two-argument wire form.
func (d *Device) SetBacklights(lcd, keypad int) error {
	if lcd < 0 || lcd > 100 {
		return &ArgumentError{Op: "set backlight", Param: "lcd", Value: lcd, Min: 0, Max: 100}
	}
	if keypad < 0 || keypad > 100 {
		return &ArgumentError{Op: "set backlight", Param: "keypad", Value: keypad, Min: 0, Max: 100}
	}
	return d.expectEmptyAck("set backlight", cfpacket.CmdSetBacklight, []byte{byte(lcd), byte(keypad)})
}

// PollKeys reads the current key state mask. This is independent of the
// unsolicited key activity stream.
func (d *Device) PollKeys() (cfpacket.KeyMask, error) {
	reply, err := d.roundTrip("poll keys", cfpacket.CmdPollKeys, nil)
	if err != nil {
		return 0, err
	}
	if len(reply.Data()) != cfpacket.KeyMaskReplySize {
		return 0, &ProtocolError{Op: "poll keys", Reply: reply, Reason: "expected 1-byte key mask"}
	}
	return cfpacket.KeyMask(reply.Data()[0]), nil
}

// SetText writes text at the given position. The text must fit on the row.
func (d *Device) SetText(row, col int, text string) error {
	if err := validatePosition("set text", row, col); err != nil {
		return err
	}
	if len(text) == 0 || col+len(text) > cfpacket.DisplayColumns {
		return &ArgumentError{Op: "set text", Param: "len(text)", Value: len(text), Min: 1, Max: cfpacket.DisplayColumns - col}
	}

	data := make([]byte, 0, 2+len(text))
	data = append(data, byte(col), byte(row))
	data = append(data, text...)
	return d.expectEmptyAck("set text", cfpacket.CmdSetText, data)
}

// SetGPIO drives one of the display's GPIO pins. State is a duty percentage.
func (d *Device) SetGPIO(index, state int) error {
	if index < 0 || index > 12 {
		return &ArgumentError{Op: "set gpio", Param: "index", Value: index, Min: 0, Max: 12}
	}
	if state < 0 || state > 100 {
		return &ArgumentError{Op: "set gpio", Param: "state", Value: state, Min: 0, Max: 100}
	}
	return d.expectEmptyAck("set gpio", cfpacket.CmdSetGPIO, []byte{byte(index), byte(state)})
}

// Keys registers a handler for unsolicited keypad events. The returned
// function cancels the subscription.
func (d *Device) Keys(handler func(cfpacket.KeyEvent)) (cancel func()) {
	return d.engine.Subscribe(handler)
}

func validatePosition(op string, row, col int) error {
	if row < 0 || row >= cfpacket.DisplayRows {
		return &ArgumentError{Op: op, Param: "row", Value: row, Min: 0, Max: cfpacket.DisplayRows - 1}
	}
	if col < 0 || col >= cfpacket.DisplayColumns {
		return &ArgumentError{Op: op, Param: "col", Value: col, Min: 0, Max: cfpacket.DisplayColumns - 1}
	}
	return nil
}
