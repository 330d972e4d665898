// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cflcd

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lumenworks/cflink/pkg/cfpacket"
)

// mockTransport is an in-memory Transport. Reads drain whatever the test has
// fed; an empty buffer reads as a timeout (0, nil), matching serial
// semantics. Every Write is delivered on the writes channel as one frame.
type mockTransport struct {
	mu     sync.Mutex
	in     []byte
	closed bool

	writes   chan []byte
	writeErr error
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		writes: make(chan []byte, 256),
	}
}

func (m *mockTransport) Read(p []byte) (int, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, errors.New("mock transport closed")
	}
	if len(m.in) == 0 {
		m.mu.Unlock()
		// Simulate the read timeout elapsing with no data.
		time.Sleep(time.Millisecond)
		return 0, nil
	}
	n := copy(p, m.in)
	m.in = m.in[n:]
	m.mu.Unlock()
	return n, nil
}

func (m *mockTransport) Write(p []byte) (int, error) {
	m.mu.Lock()
	closed, writeErr := m.closed, m.writeErr
	m.mu.Unlock()
	if closed {
		return 0, errors.New("mock transport closed")
	}
	if writeErr != nil {
		return 0, writeErr
	}

	frame := append([]byte(nil), p...)
	select {
	case m.writes <- frame:
	default:
	}
	return len(p), nil
}

func (m *mockTransport) SetReadTimeout(time.Duration) error {
	return nil
}

func (m *mockTransport) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// feed queues bytes for subsequent reads.
func (m *mockTransport) feed(b []byte) {
	m.mu.Lock()
	m.in = append(m.in, b...)
	m.mu.Unlock()
}

// feedFrame encodes and queues one complete frame.
func (m *mockTransport) feedFrame(t *testing.T, command byte, data []byte) {
	t.Helper()
	frame, err := cfpacket.Encode(command, data)
	if err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	m.feed(frame)
}

// drained reports whether the engine has consumed all fed bytes.
func (m *mockTransport) drained() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.in) == 0
}

// writeCount reports how many frames the engine has written so far.
func (m *mockTransport) writeCount() int {
	return len(m.writes)
}

// runFirmware decodes every frame the engine writes and feeds back the reply
// produced by handler (nil means stay silent). The returned function stops
// the responder.
func runFirmware(t *testing.T, m *mockTransport, handler func(*cfpacket.Packet) *cfpacket.Packet) (stop func()) {
	t.Helper()

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		for {
			select {
			case <-stopCh:
				return
			case frame := <-m.writes:
				p, err := cfpacket.Decode(frame)
				if err != nil {
					t.Errorf("firmware received undecodable frame: %v", err)
					continue
				}
				if reply := handler(p); reply != nil {
					m.feed(reply.Encode())
				}
			}
		}
	}()

	return func() {
		close(stopCh)
		<-doneCh
	}
}

// ackFirmware acknowledges every command with an empty reply.
func ackFirmware(t *testing.T, m *mockTransport) (stop func()) {
	t.Helper()
	return runFirmware(t, m, func(p *cfpacket.Packet) *cfpacket.Packet {
		reply, err := cfpacket.NewPacket(cfpacket.ReplyFor(p.Command()), nil)
		if err != nil {
			t.Errorf("build ack: %v", err)
			return nil
		}
		return reply
	})
}
