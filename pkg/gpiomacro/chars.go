// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package gpiomacro

import "github.com/kiribridge/hidproxy/pkg/remap"

// usageForChar returns the (modifier, usage) HID pair needed to type ch
// directly, bypassing the Keyboard Translator and its JIS remap entirely
// — the macros type literal US-layout characters. Letters and digits use
// the fact that the HID Keyboard/Keypad usage page is already laid out
// alphabetically and numerically, so no lookup table is needed for them.
func usageForChar(ch rune) (modifier, usage byte, ok bool) {
	switch {
	case ch == '@':
		return remap.ModLeftShift, 0x1F, true // Shift+2
	case ch == '-':
		return 0, 0x2D, true
	case ch == '.':
		return 0, 0x37, true
	case ch >= 'a' && ch <= 'z':
		return 0, 0x04 + byte(ch-'a'), true
	case ch >= 'A' && ch <= 'Z':
		return remap.ModLeftShift, 0x04 + byte(ch-'A'), true
	case ch == '0':
		return 0, 0x27, true
	case ch >= '1' && ch <= '9':
		return 0, 0x1E + byte(ch-'1'), true
	default:
		return 0, 0, false
	}
}
