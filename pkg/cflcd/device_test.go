// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cflcd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenworks/cflink/pkg/cfpacket"
)

func newTestDevice(t *testing.T, m *mockTransport, opts ...Option) *Device {
	t.Helper()
	d, err := Open(m, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestDevice_InvalidArguments(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)

	tests := []struct {
		name string
		call func() error
	}{
		{name: "backlight over 100", call: func() error { return d.SetBacklight(150) }},
		{name: "backlight negative", call: func() error { return d.SetBacklight(-1) }},
		{name: "backlights keypad over 100", call: func() error { return d.SetBacklights(50, 101) }},
		{name: "contrast over 100", call: func() error { return d.SetContrast(101) }},
		{name: "row too large", call: func() error { return d.SetText(4, 0, "x") }},
		{name: "col too large", call: func() error { return d.SetText(0, 20, "x") }},
		{name: "text overruns row", call: func() error { return d.SetText(0, 15, "too long here") }},
		{name: "empty text", call: func() error { return d.SetText(0, 0, "") }},
		{name: "cursor row negative", call: func() error { return d.SetCursorPosition(-1, 0) }},
		{name: "cursor style unknown", call: func() error { return d.SetCursorStyle(CursorStyle(9)) }},
		{name: "glyph index over 7", call: func() error { return d.SetCustomGlyph(8, [8]byte{}) }},
		{name: "gpio index over 12", call: func() error { return d.SetGPIO(13, 0) }},
		{name: "gpio state over 100", call: func() error { return d.SetGPIO(0, 101) }},
		{name: "ping payload over 16", call: func() error { return d.Ping(make([]byte, 17)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var argErr *ArgumentError
			require.ErrorAs(t, err, &argErr)
		})
	}

	// Validation failures never reach the transport.
	assert.Zero(t, m.writeCount(), "invalid arguments caused transport writes")
}

func TestDevice_EmptyAckCommands(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)
	stop := ackFirmware(t, m)
	defer stop()

	require.NoError(t, d.ClearScreen())
	require.NoError(t, d.SaveBootState())
	require.NoError(t, d.SetContrast(60))
	require.NoError(t, d.SetBacklight(80))
	require.NoError(t, d.SetBacklights(80, 40))
	require.NoError(t, d.SetCursorPosition(3, 19))
	require.NoError(t, d.SetCursorStyle(CursorBlinkingBlock))
	require.NoError(t, d.SetCustomGlyph(7, [8]byte{0x1F, 0x11, 0x11, 0x11, 0x11, 0x11, 0x1F, 0x00}))
	require.NoError(t, d.SetText(1, 2, "hello"))
	require.NoError(t, d.SetGPIO(12, 100))
	require.NoError(t, d.WriteUserFlash([16]byte{1, 2, 3}))
}

func TestDevice_WirePayloads(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)

	var seen []*cfpacket.Packet
	stop := runFirmware(t, m, func(p *cfpacket.Packet) *cfpacket.Packet {
		seen = append(seen, p)
		reply, _ := cfpacket.NewPacket(cfpacket.ReplyFor(p.Command()), nil)
		return reply
	})
	defer stop()

	require.NoError(t, d.SetText(2, 5, "ok"))
	require.NoError(t, d.SetCursorPosition(1, 7))
	require.NoError(t, d.SetBacklights(30, 10))

	require.Len(t, seen, 3)
	// Wire ordering is column then row.
	assert.Equal(t, []byte{5, 2, 'o', 'k'}, seen[0].Data())
	assert.Equal(t, []byte{7, 1}, seen[1].Data())
	assert.Equal(t, []byte{30, 10}, seen[2].Data())
}

func TestDevice_Ping(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)

	stop := runFirmware(t, m, func(p *cfpacket.Packet) *cfpacket.Packet {
		reply, _ := cfpacket.NewPacket(cfpacket.ReplyFor(p.Command()), p.Data())
		return reply
	})
	defer stop()

	require.NoError(t, d.Ping([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	require.NoError(t, d.Ping(nil))
}

func TestDevice_Ping_BadEcho(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)

	stop := runFirmware(t, m, func(p *cfpacket.Packet) *cfpacket.Packet {
		reply, _ := cfpacket.NewPacket(cfpacket.ReplyFor(p.Command()), []byte{0xBA, 0xD0})
		return reply
	})
	defer stop()

	err := d.Ping([]byte{1, 2, 3})
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestDevice_Version(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)

	stop := runFirmware(t, m, func(p *cfpacket.Packet) *cfpacket.Packet {
		reply, _ := cfpacket.NewPacket(cfpacket.ReplyFor(p.Command()), []byte("CFA635:h1.0,fw2.0"))
		return reply
	})
	defer stop()

	v, err := d.Version()
	require.NoError(t, err)
	assert.Equal(t, "CFA635:h1.0,fw2.0", v)
}

func TestDevice_PollKeys(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)

	stop := runFirmware(t, m, func(p *cfpacket.Packet) *cfpacket.Packet {
		reply, _ := cfpacket.NewPacket(cfpacket.ReplyFor(p.Command()), []byte{byte(cfpacket.MaskUp | cfpacket.MaskEnter)})
		return reply
	})
	defer stop()

	mask, err := d.PollKeys()
	require.NoError(t, err)
	assert.True(t, mask.Up())
	assert.True(t, mask.Enter())
	assert.False(t, mask.Down())
}

func TestDevice_PollKeys_WrongShape(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)

	stop := runFirmware(t, m, func(p *cfpacket.Packet) *cfpacket.Packet {
		reply, _ := cfpacket.NewPacket(cfpacket.ReplyFor(p.Command()), []byte{1, 2, 3})
		return reply
	})
	defer stop()

	_, err := d.PollKeys()
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestDevice_ReadUserFlash(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)

	want := [16]byte{0xDE, 0xAD, 0xBE, 0xEF}
	stop := runFirmware(t, m, func(p *cfpacket.Packet) *cfpacket.Packet {
		reply, _ := cfpacket.NewPacket(cfpacket.ReplyFor(p.Command()), want[:])
		return reply
	})
	defer stop()

	got, err := d.ReadUserFlash()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDevice_Timeout(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m, WithCommandTimeout(50*time.Millisecond))

	// Silent firmware.
	err := d.ClearScreen()
	require.ErrorIs(t, err, ErrTimeout)
}

func TestDevice_Keys(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)

	events := make(chan cfpacket.KeyEvent, 1)
	cancel := d.Keys(func(ev cfpacket.KeyEvent) { events <- ev })
	defer cancel()

	m.feedFrame(t, cfpacket.CmdKeyActivity, []byte{byte(cfpacket.KeyDownRelease)})

	select {
	case ev := <-events:
		assert.Equal(t, cfpacket.KeyDownRelease, ev)
		assert.Equal(t, cfpacket.KeyDown, ev.Key())
		assert.False(t, ev.Pressed())
	case <-time.After(time.Second):
		t.Fatal("key event never delivered")
	}
}
