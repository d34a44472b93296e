// SPDX-License-Identifier: BSD-3-Clause

package remap

import (
	"testing"

	"github.com/kiribridge/hidproxy/pkg/evdev"
)

func TestApplyPassthrough(t *testing.T) {
	res := Apply(evdev.KEY_A, false)
	if res.Usage != 0x04 || res.ShiftUp || res.ShiftDown {
		t.Fatalf("KEY_A passthrough: got %+v", res)
	}
}

func TestApplyUnconditionalBracketRewrite(t *testing.T) {
	res := Apply(evdev.KEY_LEFTBRACE, false)
	want := Usage(evdev.KEY_RIGHTBRACE)
	if res.Usage != want {
		t.Fatalf("LEFTBRACE -> RIGHTBRACE usage: got %#x want %#x", res.Usage, want)
	}

	res = Apply(evdev.KEY_RIGHTBRACE, false)
	want = Usage(evdev.KEY_BACKSLASH)
	if res.Usage != want {
		t.Fatalf("RIGHTBRACE -> BACKSLASH usage: got %#x want %#x", res.Usage, want)
	}
}

func TestApplyShiftUpSynthesis(t *testing.T) {
	res := Apply(evdev.KEY_APOSTROPHE, false)
	if !res.ShiftUp || res.ShiftDown {
		t.Fatalf("APOSTROPHE with no shift: expected shift-up only, got %+v", res)
	}
	if want := Usage(evdev.KEY_7); res.Usage != want {
		t.Fatalf("APOSTROPHE -> KEY_7 usage: got %#x want %#x", res.Usage, want)
	}
}

func TestApplyShiftDownSynthesis(t *testing.T) {
	res := Apply(evdev.KEY_2, true)
	if !res.ShiftDown || res.ShiftUp {
		t.Fatalf("2 with shift held: expected shift-down only, got %+v", res)
	}
	if want := Usage(evdev.KEY_LEFTBRACE); res.Usage != want {
		t.Fatalf("2 -> LEFTBRACE usage: got %#x want %#x", res.Usage, want)
	}
}

func TestApplyShiftHeldRewrites(t *testing.T) {
	cases := []struct {
		key  uint16
		want uint16
	}{
		{evdev.KEY_7, evdev.KEY_6},
		{evdev.KEY_8, evdev.KEY_APOSTROPHE},
		{evdev.KEY_9, evdev.KEY_8},
		{evdev.KEY_0, evdev.KEY_9},
		{evdev.KEY_EQUAL, evdev.KEY_SEMICOLON},
		{evdev.KEY_GRAVE, evdev.KEY_EQUAL},
		{evdev.KEY_MINUS, evdev.KEY_RO},
		{evdev.KEY_BACKSLASH, evdev.KEY_YEN},
		{evdev.KEY_APOSTROPHE, evdev.KEY_2},
	}
	for _, c := range cases {
		res := Apply(c.key, true)
		if want := Usage(c.want); res.Usage != want {
			t.Errorf("key %d with shift: got usage %#x want %#x", c.key, res.Usage, want)
		}
	}
}

func TestApplyShiftClearRewrites(t *testing.T) {
	res := Apply(evdev.KEY_BACKSLASH, false)
	if want := Usage(evdev.KEY_RO); res.Usage != want {
		t.Errorf("BACKSLASH without shift: got %#x want %#x", res.Usage, want)
	}
	if res.ShiftUp || res.ShiftDown {
		t.Errorf("BACKSLASH without shift should set no transient, got %+v", res)
	}
}

func TestApplyUnknownKeyDropsToZero(t *testing.T) {
	res := Apply(0xFFFF, false)
	if res.Usage != 0 {
		t.Fatalf("unknown key: expected usage 0, got %#x", res.Usage)
	}
}

func TestEffectiveModifier(t *testing.T) {
	const heldShift = ModLeftShift | ModLeftCtrl

	if got := EffectiveModifier(0, true, false); got != ModLeftShift {
		t.Errorf("shift-up from empty mask: got %#x want %#x", got, ModLeftShift)
	}
	if got := EffectiveModifier(heldShift, false, true); got&shiftBits != 0 {
		t.Errorf("shift-down should clear both shift bits: got %#x", got)
	}
	if got := EffectiveModifier(ModLeftCtrl, false, false); got != ModLeftCtrl {
		t.Errorf("no transient: mask should pass through unchanged, got %#x", got)
	}
}

func TestModifierBit(t *testing.T) {
	bit, ok := ModifierBit(evdev.KEY_LEFTSHIFT)
	if !ok || bit != ModLeftShift {
		t.Fatalf("KEY_LEFTSHIFT: got (%#x, %v)", bit, ok)
	}

	if _, ok := ModifierBit(evdev.KEY_A); ok {
		t.Fatalf("KEY_A should not be a modifier")
	}
}
