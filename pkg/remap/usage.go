// SPDX-License-Identifier: BSD-3-Clause

// Package remap rewrites US-layout evdev key symbols into the HID usage
// codes a JIS-layout host expects, including the transient Shift-modifier
// synthesis some mappings require.
package remap

import "github.com/kiribridge/hidproxy/pkg/evdev"

// usage is the USB HID Usage Page 0x07 (Keyboard/Keypad) table for the
// symbols this bridge recognizes. Keys absent from this table remap to
// usage 0 and are dropped from the emitted report.
var usage = map[uint16]byte{
	evdev.KEY_A: 0x04, evdev.KEY_B: 0x05, evdev.KEY_C: 0x06, evdev.KEY_D: 0x07,
	evdev.KEY_E: 0x08, evdev.KEY_F: 0x09, evdev.KEY_G: 0x0A, evdev.KEY_H: 0x0B,
	evdev.KEY_I: 0x0C, evdev.KEY_J: 0x0D, evdev.KEY_K: 0x0E, evdev.KEY_L: 0x0F,
	evdev.KEY_M: 0x10, evdev.KEY_N: 0x11, evdev.KEY_O: 0x12, evdev.KEY_P: 0x13,
	evdev.KEY_Q: 0x14, evdev.KEY_R: 0x15, evdev.KEY_S: 0x16, evdev.KEY_T: 0x17,
	evdev.KEY_U: 0x18, evdev.KEY_V: 0x19, evdev.KEY_W: 0x1A, evdev.KEY_X: 0x1B,
	evdev.KEY_Y: 0x1C, evdev.KEY_Z: 0x1D,

	evdev.KEY_1: 0x1E, evdev.KEY_2: 0x1F, evdev.KEY_3: 0x20, evdev.KEY_4: 0x21,
	evdev.KEY_5: 0x22, evdev.KEY_6: 0x23, evdev.KEY_7: 0x24, evdev.KEY_8: 0x25,
	evdev.KEY_9: 0x26, evdev.KEY_0: 0x27,

	evdev.KEY_ENTER:     0x28,
	evdev.KEY_ESC:       0x29,
	evdev.KEY_BACKSPACE: 0x2A,
	evdev.KEY_TAB:       0x2B,
	evdev.KEY_SPACE:     0x2C,
	evdev.KEY_MINUS:     0x2D,
	evdev.KEY_EQUAL:     0x2E,
	evdev.KEY_LEFTBRACE:  0x2F,
	evdev.KEY_RIGHTBRACE: 0x30,
	evdev.KEY_BACKSLASH:  0x31,
	evdev.KEY_SEMICOLON:  0x33,
	evdev.KEY_APOSTROPHE: 0x34,
	evdev.KEY_GRAVE:      0x35,
	evdev.KEY_COMMA:      0x36,
	evdev.KEY_DOT:        0x37,
	evdev.KEY_SLASH:      0x38,
	evdev.KEY_CAPSLOCK:   0x39,

	evdev.KEY_F1: 0x3A, evdev.KEY_F2: 0x3B, evdev.KEY_F3: 0x3C, evdev.KEY_F4: 0x3D,
	evdev.KEY_F5: 0x3E, evdev.KEY_F6: 0x3F, evdev.KEY_F7: 0x40, evdev.KEY_F8: 0x41,
	evdev.KEY_F9: 0x42, evdev.KEY_F10: 0x43,

	// International keys used by the JIS remap table's rewrite targets.
	evdev.KEY_RO:  0x87, // International1
	evdev.KEY_YEN: 0x89, // International3
}

// Usage returns the HID usage code for key, or 0 if key has no entry.
func Usage(key uint16) byte {
	return usage[key]
}
