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

// recordTextFirmware acks everything and reports each SetText row write.
func recordTextFirmware(t *testing.T, m *mockTransport) (<-chan string, func()) {
	t.Helper()
	frames := make(chan string, 64)
	stop := runFirmware(t, m, func(p *cfpacket.Packet) *cfpacket.Packet {
		if p.Command() == cfpacket.CmdSetText && len(p.Data()) > 2 {
			frames <- string(p.Data()[2:])
		}
		reply, _ := cfpacket.NewPacket(cfpacket.ReplyFor(p.Command()), nil)
		return reply
	})
	return frames, stop
}

func TestWindow(t *testing.T) {
	t.Parallel()

	long := "The quick brown fox jumps over the lazy dog"

	tests := []struct {
		name   string
		text   string
		offset int
		want   string
	}{
		{name: "short text padded", text: "hi", offset: 0, want: "hi                  "},
		{name: "long text offset 0", text: long, offset: 0, want: "The quick brown fox "},
		{name: "long text offset 4", text: long, offset: 4, want: "quick brown fox jump"},
		{name: "wraps through the gap", text: long, offset: len(long), want: "   The quick brown f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := window(tt.text, tt.offset)
			require.Len(t, got, cfpacket.DisplayColumns)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScroller_InvalidRow(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)

	s := NewScroller(d, 4, "text", 10*time.Millisecond)
	err := s.Start()
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Zero(t, m.writeCount())
}

func TestScroller_ShortTextWrittenOnce(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)
	frames, stop := recordTextFirmware(t, m)
	defer stop()

	s := NewScroller(d, 0, "ready", 10*time.Millisecond)
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case frame := <-frames:
		assert.Equal(t, "ready               ", frame)
	case <-time.After(time.Second):
		t.Fatal("first frame never written")
	}
}

func TestScroller_AdvancesOneColumnPerTick(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)
	frames, stop := recordTextFirmware(t, m)
	defer stop()

	text := "The quick brown fox jumps over the lazy dog"
	s := NewScroller(d, 1, text, 10*time.Millisecond)
	require.NoError(t, s.Start())
	defer s.Stop()

	for i := 0; i < 3; i++ {
		select {
		case frame := <-frames:
			assert.Equal(t, window(text, i), frame, "frame %d", i)
		case <-time.After(time.Second):
			t.Fatalf("frame %d never written", i)
		}
	}
}

func TestScroller_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	m := newMockTransport()
	d := newTestDevice(t, m)
	_, stop := recordTextFirmware(t, m)
	defer stop()

	s := NewScroller(d, 2, "spin", 10*time.Millisecond)
	require.NoError(t, s.Start())

	s.Stop()
	s.Stop()

	// Restart works after a stop.
	require.NoError(t, s.Start())
	s.Stop()
}
