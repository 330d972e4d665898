// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cflcd

import (
	"errors"
	"fmt"

	"github.com/lumenworks/cflink/pkg/cfpacket"
)

var (
	// ErrTransportNotReady is returned by construction when the supplied
	// transport is missing. The engine never opens transports itself.
	ErrTransportNotReady = errors.New("cflcd: transport not ready")

	// ErrTimeout is returned when no matching reply arrives within the
	// configured window. The command may be retried by the caller.
	ErrTimeout = errors.New("cflcd: timed out waiting for reply")

	// ErrClosed is returned by every operation issued after Close.
	ErrClosed = errors.New("cflcd: engine closed")
)

// ArgumentError reports a command parameter outside its documented range.
// It is returned before any transport I/O takes place.
type ArgumentError struct {
	Op    string
	Param string
	Value int
	Min   int
	Max   int
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("cflcd: %s: %s=%d out of range [%d,%d]", e.Op, e.Param, e.Value, e.Min, e.Max)
}

// ProtocolError reports a reply that matched the expected opcode but carried
// an unexpected payload shape.
type ProtocolError struct {
	Op     string
	Reply  *cfpacket.Packet
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("cflcd: %s: %s (reply %s)", e.Op, e.Reason, e.Reply)
}
