// SPDX-License-Identifier: BSD-3-Clause

package translate

import (
	"sync/atomic"
	"time"

	"github.com/kiribridge/hidproxy/pkg/evdev"
	"github.com/kiribridge/hidproxy/pkg/hidio"
	"github.com/kiribridge/hidproxy/pkg/remap"
)

// shiftUpDelay is the intra-report pause between the synthesized
// shift-raised report and the final report, giving the downstream host
// driver time to sample the modifier transition before the key state.
const shiftUpDelay = 10 * time.Millisecond

// Keyboard is the per-device state machine for EV_KEY (make/break) → 8-byte
// boot-protocol keyboard HID report, applying the US→JIS layout remap.
type Keyboard struct {
	modifier byte
	held     []uint16 // ordered set of currently-held non-modifier keys

	remapEnabled *atomic.Bool // shared toggle read by every Keyboard instance
	sleep        func(time.Duration)
}

// NewKeyboard returns a Keyboard translator. remapEnabled, if non-nil, is
// read on every report to decide whether the JIS rewrite applies; a nil
// value means remapping is always on.
func NewKeyboard(remapEnabled *atomic.Bool) *Keyboard {
	return &Keyboard{remapEnabled: remapEnabled, sleep: time.Sleep}
}

// HandleEvent updates the modifier mask or held-key set, emitting report(s)
// on any change. Non-EV_KEY events are dropped.
func (k *Keyboard) HandleEvent(ev evdev.InputEvent) ([][]byte, error) {
	if ev.Type != evdev.EV_KEY {
		return nil, nil
	}

	if bit, ok := remap.ModifierBit(ev.Code); ok {
		switch ev.Value {
		case 1:
			k.modifier |= bit
		case 0:
			k.modifier &^= bit
		default:
			return nil, nil // autorepeat ignored
		}
		return k.emit(), nil
	}

	switch ev.Value {
	case 1:
		k.insert(ev.Code)
	case 0:
		k.remove(ev.Code)
	default:
		return nil, nil // autorepeat ignored
	}
	return k.emit(), nil
}

// Reset clears the modifier mask and held-key set. It is invoked by the
// owning Session on any non-fatal decoding exception, so that stuck-key
// state cannot survive an unknown-event storm.
func (k *Keyboard) Reset() {
	k.modifier = 0
	k.held = k.held[:0]
}

func (k *Keyboard) insert(code uint16) {
	for _, c := range k.held {
		if c == code {
			return
		}
	}
	k.held = append(k.held, code)
}

func (k *Keyboard) remove(code uint16) {
	for i, c := range k.held {
		if c == code {
			k.held = append(k.held[:i], k.held[i+1:]...)
			return
		}
	}
}

func (k *Keyboard) remapOn() bool {
	return k.remapEnabled == nil || k.remapEnabled.Load()
}

// emit computes the remapped usage codes for every held key, synthesizes
// the transient shift-up report when required, and returns the final
// report. Report count is 1, or 2 when a shift-up synthesis is requested.
func (k *Keyboard) emit() [][]byte {
	shiftHeld := k.modifier&(remap.ModLeftShift|remap.ModRightShift) != 0
	remapOn := k.remapOn()

	usages := make([]byte, 0, len(k.held))
	var shiftUp, shiftDown bool
	for _, code := range k.held {
		var u byte
		if remapOn {
			res := remap.Apply(code, shiftHeld)
			u = res.Usage
			shiftUp = shiftUp || res.ShiftUp
			shiftDown = shiftDown || res.ShiftDown
		} else {
			u = remap.Usage(code)
		}
		if u != 0 {
			usages = append(usages, u)
		}
	}

	var reports [][]byte
	if shiftUp {
		reports = append(reports, hidio.BuildKeyboardReport(remap.ModLeftShift, nil))
		k.sleep(shiftUpDelay)
	}

	effective := remap.EffectiveModifier(k.modifier, shiftUp, shiftDown)
	reports = append(reports, hidio.BuildKeyboardReport(effective, usages))
	return reports
}
