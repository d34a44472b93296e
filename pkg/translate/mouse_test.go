// SPDX-License-Identifier: BSD-3-Clause

package translate

import (
	"bytes"
	"testing"

	"github.com/kiribridge/hidproxy/pkg/evdev"
)

func synReport() evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}
}

func keyEvent(code uint16, value int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value}
}

func relEvent(code uint16, value int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_REL, Code: code, Value: value}
}

// TestMouseClick exercises scenario S1: a left-click press/release produces
// exactly the two expected reports.
func TestMouseClick(t *testing.T) {
	m := NewMouse()

	reports, _ := m.HandleEvent(keyEvent(evdev.BTN_LEFT, 1))
	if len(reports) != 0 {
		t.Fatalf("button press before SYN should not emit: got %d reports", len(reports))
	}

	reports, _ = m.HandleEvent(synReport())
	want := []byte{0x01, 0, 0, 0, 0, 0, 0, 0}
	if len(reports) != 1 || !bytes.Equal(reports[0], want) {
		t.Fatalf("press report: got %v want %v", reports, want)
	}

	m.HandleEvent(keyEvent(evdev.BTN_LEFT, 0))
	reports, _ = m.HandleEvent(synReport())
	want = []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if len(reports) != 1 || !bytes.Equal(reports[0], want) {
		t.Fatalf("release report: got %v want %v", reports, want)
	}
}

// TestMouseDrag exercises scenario S2: overwrite (not accumulate) delta
// semantics within a frame, and deltas resetting to zero after each report.
func TestMouseDrag(t *testing.T) {
	m := NewMouse()

	m.HandleEvent(keyEvent(evdev.BTN_LEFT, 1))
	m.HandleEvent(relEvent(evdev.REL_X, 5))
	m.HandleEvent(relEvent(evdev.REL_Y, -3))
	reports, _ := m.HandleEvent(synReport())
	want := []byte{0x01, 0x05, 0x00, 0xFD, 0xFF, 0x00, 0x00, 0x00}
	if len(reports) != 1 || !bytes.Equal(reports[0], want) {
		t.Fatalf("drag report 1: got %v want %v", reports, want)
	}

	m.HandleEvent(relEvent(evdev.REL_X, 2))
	reports, _ = m.HandleEvent(synReport())
	want = []byte{0x01, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if len(reports) != 1 || !bytes.Equal(reports[0], want) {
		t.Fatalf("drag report 2: got %v want %v", reports, want)
	}

	m.HandleEvent(keyEvent(evdev.BTN_LEFT, 0))
	reports, _ = m.HandleEvent(synReport())
	want = []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if len(reports) != 1 || !bytes.Equal(reports[0], want) {
		t.Fatalf("drag report 3: got %v want %v", reports, want)
	}
}

// TestMouseIdleFrameStillEmits covers the edge case: a SYN_REPORT with no
// button or delta change still produces a report.
func TestMouseIdleFrameStillEmits(t *testing.T) {
	m := NewMouse()
	reports, _ := m.HandleEvent(synReport())
	if len(reports) != 1 {
		t.Fatalf("idle SYN_REPORT should still emit one report, got %d", len(reports))
	}
}

func TestMouseUnknownButtonIgnored(t *testing.T) {
	m := NewMouse()
	m.HandleEvent(keyEvent(0x999, 1))
	reports, _ := m.HandleEvent(synReport())
	want := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(reports[0], want) {
		t.Fatalf("unknown button code should not affect mask: got %v", reports[0])
	}
}

func TestMouseAutorepeatIgnored(t *testing.T) {
	m := NewMouse()
	m.HandleEvent(keyEvent(evdev.BTN_LEFT, 1))
	m.HandleEvent(synReport())
	m.HandleEvent(keyEvent(evdev.BTN_LEFT, 2))
	reports, _ := m.HandleEvent(synReport())
	if reports[0][0] != 0x01 {
		t.Fatalf("autorepeat (value 2) should not clear the button bit, got mask %#x", reports[0][0])
	}
}
