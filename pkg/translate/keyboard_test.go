// SPDX-License-Identifier: BSD-3-Clause

package translate

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kiribridge/hidproxy/pkg/evdev"
	"github.com/kiribridge/hidproxy/pkg/remap"
)

func newTestKeyboard() *Keyboard {
	k := NewKeyboard(nil)
	k.sleep = func(time.Duration) {} // test harness: no real delay
	return k
}

// TestKeyboardPlainLetter exercises scenario S3.
func TestKeyboardPlainLetter(t *testing.T) {
	k := newTestKeyboard()

	reports, _ := k.HandleEvent(keyEvent(evdev.KEY_A, 1))
	want := []byte{0, 0, 0x04, 0, 0, 0, 0, 0}
	if len(reports) != 1 || !bytes.Equal(reports[0], want) {
		t.Fatalf("press report: got %v want %v", reports, want)
	}

	reports, _ = k.HandleEvent(keyEvent(evdev.KEY_A, 0))
	want = []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if len(reports) != 1 || !bytes.Equal(reports[0], want) {
		t.Fatalf("release report: got %v want %v", reports, want)
	}
}

// TestKeyboardUnconditionalRemap exercises scenario S4.
func TestKeyboardUnconditionalRemap(t *testing.T) {
	k := newTestKeyboard()
	reports, _ := k.HandleEvent(keyEvent(evdev.KEY_LEFTBRACE, 1))
	if len(reports) != 1 {
		t.Fatalf("expected exactly one report, got %d", len(reports))
	}
	if reports[0][0] != 0x00 {
		t.Fatalf("expected modifier byte 0, got %#x", reports[0][0])
	}
	if want := remap.Usage(evdev.KEY_RIGHTBRACE); reports[0][2] != want {
		t.Fatalf("expected usage %#x, got %#x", want, reports[0][2])
	}
}

// TestKeyboardShiftUpSynthesis exercises scenario S5: two reports, the
// first an intermediate left-shift-only frame, the second the final frame.
func TestKeyboardShiftUpSynthesis(t *testing.T) {
	k := newTestKeyboard()
	reports, _ := k.HandleEvent(keyEvent(evdev.KEY_APOSTROPHE, 1))

	if len(reports) != 2 {
		t.Fatalf("expected 2 reports for shift-up synthesis, got %d", len(reports))
	}

	wantIntermediate := []byte{0x02, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(reports[0], wantIntermediate) {
		t.Fatalf("intermediate report: got %v want %v", reports[0], wantIntermediate)
	}

	if reports[1][0] != 0x02 {
		t.Fatalf("final report modifier: got %#x want 0x02", reports[1][0])
	}
	if want := remap.Usage(evdev.KEY_7); reports[1][2] != want {
		t.Fatalf("final report usage: got %#x want %#x", reports[1][2], want)
	}
}

// TestKeyboardShiftDownSynthesis covers the 2→LEFTBRACE+shift-down rule:
// with Shift held, the effective modifier for that report has both Shift
// bits cleared.
func TestKeyboardShiftDownSynthesis(t *testing.T) {
	k := newTestKeyboard()
	k.HandleEvent(keyEvent(evdev.KEY_LEFTSHIFT, 1))
	reports, _ := k.HandleEvent(keyEvent(evdev.KEY_2, 1))

	last := reports[len(reports)-1]
	if last[0]&(remap.ModLeftShift|remap.ModRightShift) != 0 {
		t.Fatalf("shift-down should clear both shift bits, got modifier %#x", last[0])
	}
	if want := remap.Usage(evdev.KEY_LEFTBRACE); last[2] != want {
		t.Fatalf("expected usage %#x, got %#x", want, last[2])
	}
}

// TestKeyboardBalancedPressReleaseRoundTrip covers universal property 2:
// a balanced press/release sequence with no modifier changes begins and
// ends on the all-zero report.
func TestKeyboardBalancedPressReleaseRoundTrip(t *testing.T) {
	k := newTestKeyboard()
	allZero := make([]byte, 8)

	reports, _ := k.HandleEvent(keyEvent(evdev.KEY_H, 1))
	first := reports[0]
	if bytes.Equal(first, allZero) {
		t.Fatalf("first report should not be all-zero once a key is held")
	}

	k.HandleEvent(keyEvent(evdev.KEY_E, 1))
	k.HandleEvent(keyEvent(evdev.KEY_H, 0))
	reports, _ = k.HandleEvent(keyEvent(evdev.KEY_E, 0))
	last := reports[len(reports)-1]
	if !bytes.Equal(last, allZero) {
		t.Fatalf("final report should be all-zero, got %v", last)
	}
}

func TestKeyboardAutorepeatIgnored(t *testing.T) {
	k := newTestKeyboard()
	k.HandleEvent(keyEvent(evdev.KEY_A, 1))
	reports, _ := k.HandleEvent(keyEvent(evdev.KEY_A, 2))
	if len(reports) != 0 {
		t.Fatalf("autorepeat should not emit a report, got %d", len(reports))
	}
}

func TestKeyboardRemapDisabledPassesThrough(t *testing.T) {
	var enabled atomic.Bool
	enabled.Store(false)
	k := NewKeyboard(&enabled)
	k.sleep = func(time.Duration) {}

	reports, _ := k.HandleEvent(keyEvent(evdev.KEY_LEFTBRACE, 1))
	if want := remap.Usage(evdev.KEY_LEFTBRACE); reports[0][2] != want {
		t.Fatalf("remap disabled: expected direct usage %#x, got %#x", want, reports[0][2])
	}
}

func TestKeyboardReset(t *testing.T) {
	k := newTestKeyboard()
	k.HandleEvent(keyEvent(evdev.KEY_LEFTSHIFT, 1))
	k.HandleEvent(keyEvent(evdev.KEY_A, 1))

	k.Reset()
	if k.modifier != 0 || len(k.held) != 0 {
		t.Fatalf("reset should clear modifier and held set, got modifier=%#x held=%v", k.modifier, k.held)
	}
}
