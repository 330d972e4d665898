// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cflcd

import (
	"strings"
	"sync"

	"github.com/lumenworks/cflink/pkg/cfpacket"
)

// LineWriter adapts a Device to io.Writer. Each newline-terminated line is
// written to the bottom row, scrolling earlier lines up; lines wider than the
// display wrap onto additional rows. Like Scroller, it consumes only the
// public command surface.
type LineWriter struct {
	dev *Device

	mu      sync.Mutex
	rows    []string
	partial []byte
}

// NewLineWriter creates a writer over the device.
func NewLineWriter(dev *Device) *LineWriter {
	return &LineWriter{dev: dev}
}

// Write buffers bytes and pushes a display update for every completed line.
// On error it reports how many input bytes were consumed.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, b := range p {
		if b != '\n' {
			w.partial = append(w.partial, b)
			continue
		}
		line := string(w.partial)
		w.partial = w.partial[:0]
		if err := w.pushLine(line); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Flush pushes any buffered partial line to the display.
func (w *LineWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.partial) == 0 {
		return nil
	}
	line := string(w.partial)
	w.partial = w.partial[:0]
	return w.pushLine(line)
}

// pushLine wraps the line to the display width, appends the chunks to the
// visible rows, and redraws. Caller holds w.mu.
func (w *LineWriter) pushLine(line string) error {
	chunks := wrapLine(line)
	w.rows = append(w.rows, chunks...)
	if excess := len(w.rows) - cfpacket.DisplayRows; excess > 0 {
		w.rows = w.rows[excess:]
	}

	for row := 0; row < cfpacket.DisplayRows; row++ {
		text := ""
		if row < len(w.rows) {
			text = w.rows[row]
		}
		padded := text + strings.Repeat(" ", cfpacket.DisplayColumns-len(text))
		if err := w.dev.SetText(row, 0, padded); err != nil {
			return err
		}
	}
	return nil
}

// wrapLine splits a line into display-width chunks; an empty line yields one
// blank chunk so it still occupies a row.
func wrapLine(line string) []string {
	if line == "" {
		return []string{""}
	}

	var chunks []string
	for len(line) > cfpacket.DisplayColumns {
		chunks = append(chunks, line[:cfpacket.DisplayColumns])
		line = line[cfpacket.DisplayColumns:]
	}
	return append(chunks, line)
}
