// SPDX-License-Identifier: BSD-3-Clause

package translate

import (
	"github.com/kiribridge/hidproxy/pkg/evdev"
	"github.com/kiribridge/hidproxy/pkg/hidio"
)

// Mouse is the per-device state machine for EV_KEY + EV_REL → 8-byte mouse
// HID report. It overwrites, rather than accumulates, each axis delta
// within a SYN frame: the kernel coalesces deltas per axis per frame, so
// overwrite semantics match the upstream contract without double-counting.
type Mouse struct {
	buttons byte
	dx, dy, dwheel int16
}

// NewMouse returns a Mouse translator with a zeroed button mask and deltas.
func NewMouse() *Mouse {
	return &Mouse{}
}

// HandleEvent updates the button mask or delta accumulators, emitting one
// mouse report on SYN_REPORT.
func (m *Mouse) HandleEvent(ev evdev.InputEvent) ([][]byte, error) {
	switch ev.Type {
	case evdev.EV_KEY:
		if bit, ok := mouseButtonBit(ev.Code); ok {
			switch ev.Value {
			case 1:
				m.buttons |= bit
			case 0:
				m.buttons &^= bit
				// value 2 (autorepeat) is ignored for mouse buttons.
			}
		}
		return nil, nil

	case evdev.EV_REL:
		switch ev.Code {
		case evdev.REL_X:
			m.dx = int16(ev.Value)
		case evdev.REL_Y:
			m.dy = int16(ev.Value)
		case evdev.REL_WHEEL:
			m.dwheel = int16(ev.Value)
		}
		return nil, nil

	case evdev.EV_SYN:
		if ev.Code != evdev.SYN_REPORT {
			return nil, nil
		}
		report := hidio.BuildMouseReport(m.buttons, m.dx, m.dy, m.dwheel)
		m.dx, m.dy, m.dwheel = 0, 0, 0
		return [][]byte{report}, nil

	default:
		return nil, nil
	}
}

// Reset clears the button mask and all pending deltas.
func (m *Mouse) Reset() {
	m.buttons = 0
	m.dx, m.dy, m.dwheel = 0, 0, 0
}

func mouseButtonBit(code uint16) (byte, bool) {
	switch code {
	case evdev.BTN_LEFT:
		return hidio.MouseButtonLeft, true
	case evdev.BTN_RIGHT:
		return hidio.MouseButtonRight, true
	case evdev.BTN_MIDDLE:
		return hidio.MouseButtonMiddle, true
	case evdev.BTN_SIDE:
		return hidio.MouseButtonSide, true
	case evdev.BTN_EXTRA:
		return hidio.MouseButtonExtra, true
	default:
		return 0, false
	}
}
