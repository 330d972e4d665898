// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cflcd

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
)

// Transport is the engine's only contact with the physical world: a duplex
// byte stream with a read timeout. A Read returning (0, nil) means the
// timeout elapsed with no data, matching go.bug.st/serial semantics. The
// transport is handed to the engine already open.
type Transport interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// OpenSerial opens a serial port at 8N1 and returns it as a Transport.
func OpenSerial(path string, baudRate int) (Transport, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}

	return port, nil
}

// WebSocketTransport adapts a WebSocket connection carrying binary frames to
// the Transport interface, for displays behind a remote serial bridge.
type WebSocketTransport struct {
	conn        *websocket.Conn
	buf         []byte
	bufOffset   int
	readTimeout time.Duration
}

// NewWebSocketTransport wraps an established WebSocket connection.
func NewWebSocketTransport(conn *websocket.Conn) *WebSocketTransport {
	return &WebSocketTransport{conn: conn}
}

func (w *WebSocketTransport) Read(p []byte) (int, error) {
	// Drain buffered message bytes first.
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	if w.readTimeout > 0 {
		if err := w.conn.SetReadDeadline(time.Now().Add(w.readTimeout)); err != nil {
			return 0, err
		}
	}

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			// Map a deadline expiry to the serial timeout convention.
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return 0, nil
			}
			return 0, err
		}

		// Only binary messages carry display frames.
		if messageType != websocket.BinaryMessage {
			continue
		}

		w.buf = data
		w.bufOffset = 0
		n := copy(p, w.buf)
		w.bufOffset = n
		return n, nil
	}
}

func (w *WebSocketTransport) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// SetReadTimeout sets the deadline applied to each subsequent Read.
func (w *WebSocketTransport) SetReadTimeout(t time.Duration) error {
	w.readTimeout = t
	return nil
}

func (w *WebSocketTransport) Close() error {
	return w.conn.Close()
}
