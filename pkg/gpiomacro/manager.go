// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

// Package gpiomacro drives the three physical push-buttons that sit
// alongside the keyboard/mouse bridge: held alone, button 1 toggles the
// keyboard remap; held together with button 3 it shuts the service down;
// held together with button 2 it types a configured email address. A
// short, non-held press of any of the three sends a small key
// combination instead.
package gpiomacro

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kiribridge/hidproxy/pkg/gpio"
	"github.com/kiribridge/hidproxy/pkg/hidio"
)

const comboStepDelay = 10 * time.Millisecond
const charStepDelay = 100 * time.Millisecond

// button is the subset of *gpio.Button the Manager depends on, narrowed
// so tests can drive the hold/release logic with a fake.
type button interface {
	Events() <-chan gpio.EdgeEvent
	Close() error
}

// reportWriter is the subset of *hidio.Writer the Manager depends on.
type reportWriter interface {
	Write(report []byte) error
}

// Manager owns the three buttons and the keyboard HID writer the macros
// are sent through.
type Manager struct {
	btn1, btn2, btn3      button
	writer                reportWriter
	holdTime              time.Duration
	combinationCheckDelay time.Duration
	emailAddress          string
	remapEnabled          *atomic.Bool
	shutdown              func()
	logger                *slog.Logger
	sleep                 func(time.Duration)

	mu                     sync.Mutex
	held1, held2, held3    bool
	combo1, combo2, combo3 bool
}

// New builds a Manager over three already-requested buttons.
// combinationCheckDelay is the grace window button1's hold-fire waits
// before committing to the solo remap-toggle action, to give a
// near-simultaneous button2/button3 hold (delayed only by debounce/timer
// jitter) a chance to turn it into a combination instead.
func New(btn1, btn2, btn3 *gpio.Button, writer *hidio.Writer, holdTime, combinationCheckDelay time.Duration, emailAddress string, remapEnabled *atomic.Bool, shutdown func(), logger *slog.Logger) *Manager {
	return &Manager{
		btn1:                  btn1,
		btn2:                  btn2,
		btn3:                  btn3,
		writer:                writer,
		holdTime:              holdTime,
		combinationCheckDelay: combinationCheckDelay,
		emailAddress:          emailAddress,
		remapEnabled:          remapEnabled,
		shutdown:              shutdown,
		logger:                logger,
		sleep:                 time.Sleep,
	}
}

// Run watches all three buttons until ctx is cancelled, then closes them.
func (m *Manager) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); m.watch(ctx, 1, m.btn1) }()
	go func() { defer wg.Done(); m.watch(ctx, 2, m.btn2) }()
	go func() { defer wg.Done(); m.watch(ctx, 3, m.btn3) }()
	wg.Wait()

	m.btn1.Close()
	m.btn2.Close()
	m.btn3.Close()
	return nil
}

// watch turns one button's rising/falling edge stream into held-vs-short
// dispatch: a rising edge arms a hold timer; if the timer fires before the
// matching falling edge the press counts as held, otherwise as a short
// press.
func (m *Manager) watch(ctx context.Context, which int, btn button) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-btn.Events():
			if !ok {
				return
			}
			if ev.Rising {
				timer = time.AfterFunc(m.holdTime, func() { m.onHeld(which) })
			} else {
				if timer != nil {
					timer.Stop()
				}
				m.onReleased(which)
			}
		}
	}
}

func (m *Manager) onHeld(which int) {
	m.mu.Lock()
	switch which {
	case 1:
		m.held1 = true
		switch {
		case m.held3:
			m.combo1, m.combo3 = true, true
			m.mu.Unlock()
			m.logger.Info("gpio: button1+button3 held, shutting down")
			m.shutdown()
			return
		case m.held2:
			m.combo1, m.combo2 = true, true
			m.mu.Unlock()
			m.logger.Info("gpio: button1+button2 held, typing email address")
			m.sendEmailAddress()
			return
		default:
			m.mu.Unlock()
			if m.awaitCombination() {
				return
			}
			m.mu.Lock()
			enabled := !m.remapEnabled.Load()
			m.remapEnabled.Store(enabled)
			m.mu.Unlock()
			m.logger.Info("gpio: button1 held, toggled keyboard remap", "enabled", enabled)
			return
		}
	case 2:
		m.held2 = true
		if m.held1 {
			m.combo1, m.combo2 = true, true
			m.mu.Unlock()
			m.logger.Info("gpio: button1+button2 held, typing email address")
			m.sendEmailAddress()
			return
		}
		m.mu.Unlock()
	case 3:
		m.held3 = true
		if m.held1 {
			m.combo1, m.combo3 = true, true
			m.mu.Unlock()
			m.logger.Info("gpio: button1+button3 held, shutting down")
			m.shutdown()
			return
		}
		m.mu.Unlock()
	}
}

// awaitCombination gives button1's hold-fire a combinationCheckDelay grace
// window before it commits to the solo remap-toggle action. If button2 or
// button3 becomes held during the window, or a companion button's own
// held-handler already claimed the combination, it runs that combo action
// (or nothing, if already claimed) and reports true so the caller skips
// its own action. A zero delay disables the wait and reports false
// immediately, preserving the pre-delay behavior.
func (m *Manager) awaitCombination() bool {
	if m.combinationCheckDelay <= 0 {
		return false
	}
	m.sleep(m.combinationCheckDelay)

	m.mu.Lock()
	switch {
	case m.combo1:
		m.mu.Unlock()
		return true
	case m.held3:
		m.combo1, m.combo3 = true, true
		m.mu.Unlock()
		m.logger.Info("gpio: button1+button3 held within grace window, shutting down")
		m.shutdown()
		return true
	case m.held2:
		m.combo1, m.combo2 = true, true
		m.mu.Unlock()
		m.logger.Info("gpio: button1+button2 held within grace window, typing email address")
		m.sendEmailAddress()
		return true
	default:
		m.mu.Unlock()
		return false
	}
}

func (m *Manager) onReleased(which int) {
	m.mu.Lock()
	var wasHeld, comboDetected bool
	switch which {
	case 1:
		wasHeld, comboDetected = m.held1, m.combo1
		m.held1, m.combo1 = false, false
	case 2:
		wasHeld, comboDetected = m.held2, m.combo2
		m.held2, m.combo2 = false, false
	case 3:
		wasHeld, comboDetected = m.held3, m.combo3
		m.held3, m.combo3 = false, false
	}
	m.mu.Unlock()

	if !wasHeld && !comboDetected {
		m.pressed(which)
	}
}

func (m *Manager) pressed(which int) {
	switch which {
	case 1:
		m.logger.Info("gpio: button1 pressed, sending Alt+A")
		m.sendKeyCombination(0x04, 0x04)
	case 2:
		m.logger.Info("gpio: button2 pressed, sending Alt+Y")
		m.sendKeyCombination(0x04, 0x1c)
	case 3:
		m.logger.Info("gpio: button3 pressed, sending space")
		m.sendKeyCombination(0x00, 0x2c)
	}
}

// sendKeyCombination presses the given modifier+usage, releases it, then
// taps Alt alone — the trailing solo-Alt tap revives meeting-control
// overlays that treat Alt as a reveal key.
func (m *Manager) sendKeyCombination(modifier, usage byte) {
	m.write(hidio.BuildKeyboardReport(modifier, []byte{usage}))
	m.write(hidio.BuildKeyboardReport(0, nil))
	m.write(hidio.BuildKeyboardReport(0x04, nil))
	m.write(hidio.BuildKeyboardReport(0, nil))
}

// sendEmailAddress types the configured address one character at a time.
// Characters with no HID usage mapping are skipped.
func (m *Manager) sendEmailAddress() {
	m.logger.Info("gpio: typing configured email address")
	for _, ch := range m.emailAddress {
		modifier, usage, ok := usageForChar(ch)
		if !ok {
			m.logger.Warn("gpio: skipping unmapped email character", "char", string(ch))
			continue
		}
		m.write(hidio.BuildKeyboardReport(modifier, []byte{usage}))
		m.sleep(charStepDelay)
		m.write(hidio.BuildKeyboardReport(0, nil))
		m.sleep(charStepDelay)
	}
}

func (m *Manager) write(report []byte) {
	if err := m.writer.Write(report); err != nil {
		m.logger.Error("gpio: HID report write failed", "error", err)
		return
	}
	m.sleep(comboStepDelay)
}
