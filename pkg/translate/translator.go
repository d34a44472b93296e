// SPDX-License-Identifier: BSD-3-Clause

// Package translate holds the per-device-class state machines that convert
// a stream of evdev input events into HID report buffers.
package translate

import "github.com/kiribridge/hidproxy/pkg/evdev"

// Translator is the shared capability set of the Mouse and Keyboard state
// machines: consume one decoded input event, optionally produce zero or
// more report buffers to write in order, and reset to a clean state.
//
// A tagged variant (Mouse, Keyboard) is deliberately preferred over a deep
// interface hierarchy — the two translators differ enough in report
// cadence and error handling that sharing more than this would force
// artificial abstraction.
type Translator interface {
	// HandleEvent processes one input event and returns the HID reports it
	// produced, in write order. Most events produce no report.
	HandleEvent(ev evdev.InputEvent) ([][]byte, error)

	// Reset clears all accumulated state (button mask, deltas, modifier
	// mask, held-key set) back to zero values.
	Reset()
}
