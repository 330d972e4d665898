// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cfpacket

import "fmt"

// Key identifies one of the six physical keypad buttons.
type Key int

// Keypad buttons
const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyExit
)

// String returns the button name.
func (k Key) String() string {
	switch k {
	case KeyUp:
		return "UP"
	case KeyDown:
		return "DOWN"
	case KeyLeft:
		return "LEFT"
	case KeyRight:
		return "RIGHT"
	case KeyEnter:
		return "ENTER"
	case KeyExit:
		return "EXIT"
	default:
		return fmt.Sprintf("KEY(%d)", int(k))
	}
}

// KeyEvent is the single payload byte of a key activity notification.
// Values 1-6 are presses, 7-12 the matching releases.
type KeyEvent byte

// Key activity event codes
const (
	KeyUpPress      KeyEvent = 1
	KeyDownPress    KeyEvent = 2
	KeyLeftPress    KeyEvent = 3
	KeyRightPress   KeyEvent = 4
	KeyEnterPress   KeyEvent = 5
	KeyExitPress    KeyEvent = 6
	KeyUpRelease    KeyEvent = 7
	KeyDownRelease  KeyEvent = 8
	KeyLeftRelease  KeyEvent = 9
	KeyRightRelease KeyEvent = 10
	KeyEnterRelease KeyEvent = 11
	KeyExitRelease  KeyEvent = 12
)

// Valid reports whether the event code is one of the twelve defined values.
func (e KeyEvent) Valid() bool {
	return e >= KeyUpPress && e <= KeyExitRelease
}

// Pressed reports whether the event is a press (as opposed to a release).
func (e KeyEvent) Pressed() bool {
	return e >= KeyUpPress && e <= KeyExitPress
}

// Key returns the button the event refers to. Only meaningful when Valid.
func (e KeyEvent) Key() Key {
	switch e {
	case KeyUpPress, KeyUpRelease:
		return KeyUp
	case KeyDownPress, KeyDownRelease:
		return KeyDown
	case KeyLeftPress, KeyLeftRelease:
		return KeyLeft
	case KeyRightPress, KeyRightRelease:
		return KeyRight
	case KeyEnterPress, KeyEnterRelease:
		return KeyEnter
	case KeyExitPress, KeyExitRelease:
		return KeyExit
	default:
		return Key(-1)
	}
}

// String returns e.g. "UP press" or "EXIT release".
func (e KeyEvent) String() string {
	if !e.Valid() {
		return fmt.Sprintf("INVALID(0x%02X)", byte(e))
	}
	action := "press"
	if !e.Pressed() {
		action = "release"
	}
	return fmt.Sprintf("%s %s", e.Key(), action)
}

// KeyMask is the bit set returned by the key state poll command. It is
// independent of the KeyEvent notification stream.
type KeyMask byte

// Key state mask bits
const (
	MaskUp     KeyMask = 0x01
	MaskEnter  KeyMask = 0x02
	MaskCancel KeyMask = 0x04
	MaskLeft   KeyMask = 0x08
	MaskRight  KeyMask = 0x10
	MaskDown   KeyMask = 0x20
)

// Up reports whether the up key bit is set.
func (m KeyMask) Up() bool { return m&MaskUp != 0 }

// Enter reports whether the enter key bit is set.
func (m KeyMask) Enter() bool { return m&MaskEnter != 0 }

// Cancel reports whether the cancel key bit is set.
func (m KeyMask) Cancel() bool { return m&MaskCancel != 0 }

// Left reports whether the left key bit is set.
func (m KeyMask) Left() bool { return m&MaskLeft != 0 }

// Right reports whether the right key bit is set.
func (m KeyMask) Right() bool { return m&MaskRight != 0 }

// Down reports whether the down key bit is set.
func (m KeyMask) Down() bool { return m&MaskDown != 0 }

// String lists the set bits, e.g. "UP|ENTER", or "-" when none are set.
func (m KeyMask) String() string {
	names := []struct {
		bit  KeyMask
		name string
	}{
		{MaskUp, "UP"},
		{MaskEnter, "ENTER"},
		{MaskCancel, "CANCEL"},
		{MaskLeft, "LEFT"},
		{MaskRight, "RIGHT"},
		{MaskDown, "DOWN"},
	}

	out := ""
	for _, n := range names {
		if m&n.bit == 0 {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += n.name
	}
	if out == "" {
		return "-"
	}
	return out
}
