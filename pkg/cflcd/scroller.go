// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cflcd

import (
	"strings"
	"sync"
	"time"

	"github.com/lumenworks/cflink/pkg/cfpacket"
)

// scrollGap separates the end of the text from its next repetition.
const scrollGap = "   "

// Scroller marquees a line of text across one display row. It is a plain
// consumer of the Device command surface and holds no engine internals.
type Scroller struct {
	dev      *Device
	row      int
	interval time.Duration

	mu      sync.Mutex
	text    string
	offset  int
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewScroller creates a scroller for the given row. Text longer than the
// display width cycles across it one column per interval; shorter text is
// simply written once.
func NewScroller(dev *Device, row int, text string, interval time.Duration) *Scroller {
	return &Scroller{
		dev:      dev,
		row:      row,
		interval: interval,
		text:     text,
	}
}

// SetText replaces the scrolled text and restarts the cycle from its start.
func (s *Scroller) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.offset = 0
	s.mu.Unlock()
}

// Start draws the first frame and begins scrolling. It fails fast on an
// invalid row and returns the first frame's write error, if any.
func (s *Scroller) Start() error {
	if s.row < 0 || s.row >= cfpacket.DisplayRows {
		return &ArgumentError{Op: "scroller", Param: "row", Value: s.row, Min: 0, Max: cfpacket.DisplayRows - 1}
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	if err := s.drawFrame(); err != nil {
		s.mu.Lock()
		s.running = false
		close(s.done) // loop never started
		s.mu.Unlock()
		return err
	}

	go s.loop()
	return nil
}

// Stop halts scrolling and waits for the ticker goroutine to exit. The row
// keeps whatever frame was drawn last.
func (s *Scroller) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
}

func (s *Scroller) loop() {
	defer close(s.done)

	ticker := s.dev.engine.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.Chan():
			if err := s.drawFrame(); err != nil {
				s.dev.engine.log.Debug().Err(err).Int("row", s.row).Msg("scroll frame write failed")
			}
		}
	}
}

// drawFrame writes the current window and advances the scroll offset.
func (s *Scroller) drawFrame() error {
	s.mu.Lock()
	text := s.text
	offset := s.offset
	if len(text) > cfpacket.DisplayColumns {
		s.offset = (offset + 1) % (len(text) + len(scrollGap))
	}
	s.mu.Unlock()

	return s.dev.SetText(s.row, 0, window(text, offset))
}

// window returns the DisplayColumns-wide slice of the cycled text starting at
// offset, padding short text with trailing spaces.
func window(text string, offset int) string {
	if len(text) <= cfpacket.DisplayColumns {
		return text + strings.Repeat(" ", cfpacket.DisplayColumns-len(text))
	}

	cycle := text + scrollGap
	var b strings.Builder
	for i := 0; i < cfpacket.DisplayColumns; i++ {
		b.WriteByte(cycle[(offset+i)%len(cycle)])
	}
	return b.String()
}
