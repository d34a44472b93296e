// SPDX-License-Identifier: BSD-3-Clause

package remap

import "github.com/kiribridge/hidproxy/pkg/evdev"

// Result is the outcome of remapping one held key symbol for one report
// emission.
type Result struct {
	// Usage is the HID usage code to place in the report, or 0 to drop the
	// key from this report entirely.
	Usage byte
	// ShiftUp requests the caller synthesize an intermediate report with
	// left-Shift raised and no keys, before the final report forces
	// left-Shift on.
	ShiftUp bool
	// ShiftDown requests the caller clear both Shift bits in the final
	// report's effective modifier mask.
	ShiftDown bool
}

// Apply remaps a single US-layout key symbol into its JIS-equivalent HID
// usage, given whether any Shift modifier is currently held. It implements
// the fixed rewrite table: an unconditional pass for LEFTBRACE/RIGHTBRACE,
// then, for every other key, a Shift-gated pass.
//
// Keys with no remap rule pass through with their direct usage code. Keys
// with no usage-table entry at all remap to usage 0.
func Apply(key uint16, shiftHeld bool) Result {
	sym := key

	// Unconditional rewrite, applied before the Shift check. Its outputs are
	// final: no Shift-conditional rule is applied to them.
	switch sym {
	case evdev.KEY_LEFTBRACE:
		return Result{Usage: Usage(evdev.KEY_RIGHTBRACE)}
	case evdev.KEY_RIGHTBRACE:
		return Result{Usage: Usage(evdev.KEY_BACKSLASH)}
	}

	var res Result
	if shiftHeld {
		switch sym {
		case evdev.KEY_7:
			sym = evdev.KEY_6
		case evdev.KEY_8:
			sym = evdev.KEY_APOSTROPHE
		case evdev.KEY_9:
			sym = evdev.KEY_8
		case evdev.KEY_0:
			sym = evdev.KEY_9
		case evdev.KEY_EQUAL:
			sym = evdev.KEY_SEMICOLON
		case evdev.KEY_GRAVE:
			sym = evdev.KEY_EQUAL
		case evdev.KEY_MINUS:
			sym = evdev.KEY_RO
		case evdev.KEY_BACKSLASH:
			sym = evdev.KEY_YEN
		case evdev.KEY_APOSTROPHE:
			sym = evdev.KEY_2
		case evdev.KEY_2:
			sym = evdev.KEY_LEFTBRACE
			res.ShiftDown = true
		case evdev.KEY_6:
			sym = evdev.KEY_EQUAL
			res.ShiftDown = true
		case evdev.KEY_SEMICOLON:
			sym = evdev.KEY_APOSTROPHE
			res.ShiftDown = true
		}
	} else {
		switch sym {
		case evdev.KEY_BACKSLASH:
			sym = evdev.KEY_RO
		case evdev.KEY_APOSTROPHE:
			sym = evdev.KEY_7
			res.ShiftUp = true
		case evdev.KEY_GRAVE:
			sym = evdev.KEY_LEFTBRACE
			res.ShiftUp = true
		case evdev.KEY_EQUAL:
			sym = evdev.KEY_MINUS
			res.ShiftUp = true
		}
	}

	res.Usage = Usage(sym)
	return res
}

// Modifier bits within byte 0 of a keyboard report, per the boot-protocol
// layout this bridge emits.
const (
	ModLeftCtrl   byte = 1 << 0
	ModLeftShift  byte = 1 << 1
	ModLeftAlt    byte = 1 << 2
	ModLeftMeta   byte = 1 << 3
	ModRightCtrl  byte = 1 << 4
	ModRightShift byte = 1 << 5
	ModRightAlt   byte = 1 << 6
	ModRightMeta  byte = 1 << 7

	shiftBits = ModLeftShift | ModRightShift
)

// ModifierBit returns the modifier mask bit for key, and true if key is a
// modifier. Non-modifier keys return (0, false).
func ModifierBit(key uint16) (byte, bool) {
	switch key {
	case evdev.KEY_LEFTCTRL:
		return ModLeftCtrl, true
	case evdev.KEY_LEFTSHIFT:
		return ModLeftShift, true
	case evdev.KEY_LEFTALT:
		return ModLeftAlt, true
	case evdev.KEY_LEFTMETA:
		return ModLeftMeta, true
	case evdev.KEY_RIGHTCTRL:
		return ModRightCtrl, true
	case evdev.KEY_RIGHTSHIFT:
		return ModRightShift, true
	case evdev.KEY_RIGHTALT:
		return ModRightAlt, true
	case evdev.KEY_RIGHTMETA:
		return ModRightMeta, true
	default:
		return 0, false
	}
}

// EffectiveModifier applies a report's Shift transients to the held
// modifier mask: ShiftDown clears both Shift bits, ShiftUp forces
// left-Shift on. At most one of the two is ever set for a given report.
func EffectiveModifier(mask byte, shiftUp, shiftDown bool) byte {
	switch {
	case shiftDown:
		return mask &^ shiftBits
	case shiftUp:
		return mask | ModLeftShift
	default:
		return mask
	}
}
