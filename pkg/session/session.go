// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

// Package session owns a single captured input device paired with a single
// assigned HID endpoint, and runs the event loop that drives a Translator
// between them.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kiribridge/hidproxy/pkg/evdev"
	"github.com/kiribridge/hidproxy/pkg/hidio"
	"github.com/kiribridge/hidproxy/pkg/translate"
)

// Class identifies which translator policy a Session runs, which in turn
// decides how a translation error is handled: a keyboard resets its state
// and continues; a mouse treats it as terminal.
type Class int

const (
	ClassKeyboard Class = iota
	ClassMouse
)

func (c Class) String() string {
	if c == ClassKeyboard {
		return "keyboard"
	}
	return "mouse"
}

// reconnectRetryInterval is how long a Session waits between exclusive
// capture attempts when the device is still settling after plug-in.
const reconnectRetryInterval = 5 * time.Second

// Session is a cooperative task bound to one input-device path and one HID
// endpoint for its entire lifetime. It never returns its endpoint to a
// pool itself — that is the Supervisor's responsibility on reap.
type Session struct {
	ID         uuid.UUID
	DevicePath string
	Endpoint   string
	Class      Class

	translator translate.Translator
	writer     reportWriter
	logger     *slog.Logger
}

// reportWriter is the subset of *hidio.Writer the Session needs; it exists
// so tests can substitute a fake without touching a real endpoint path.
type reportWriter interface {
	Write(report []byte) error
}

// New constructs a Session for devicePath/endpoint. It does not open or
// capture the device; call Run to start the lifecycle.
func New(devicePath, endpoint string, class Class, translator translate.Translator, logger *slog.Logger) *Session {
	id := uuid.New()
	return &Session{
		ID:         id,
		DevicePath: devicePath,
		Endpoint:   endpoint,
		Class:      class,
		translator: translator,
		writer:     mustWriter(endpoint),
		logger:     logger.With("session", id.String(), "class", class.String(), "device", devicePath, "endpoint", endpoint),
	}
}

func mustWriter(endpoint string) *hidio.Writer {
	w, err := hidio.NewWriter(endpoint)
	if err != nil {
		// endpoint paths are supplied by the Supervisor from a fixed,
		// pre-validated pool; an empty path here is a construction bug.
		panic(err)
	}
	return w
}

// Run executes the Session's full lifecycle: exclusive capture with
// indefinite 5-second retry, the event loop until EOF/cancel/endpoint
// shutdown, then device release. It returns nil on clean cancellation, or
// the terminal error that ended the Session.
func (s *Session) Run(ctx context.Context) error {
	dev, err := s.captureWithRetry(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer dev.Close()

	err = s.loop(ctx, dev)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("session terminated", "err", err)
	}
	return err
}

func (s *Session) captureWithRetry(ctx context.Context) (*evdev.Device, error) {
	for {
		dev, err := evdev.Open(s.DevicePath)
		if err == nil {
			if grabErr := dev.Grab(); grabErr == nil {
				return dev, nil
			}
			dev.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(reconnectRetryInterval):
		}
	}
}

func (s *Session) loop(ctx context.Context, dev *evdev.Device) error {
	events := make(chan evdev.InputEvent)
	readErrs := make(chan error, 1)

	go func() {
		for {
			ev, err := dev.ReadEvent()
			if err != nil {
				readErrs <- err
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-readErrs:
			return fmt.Errorf("%w: %w", ErrReadFailed, err)

		case ev := <-events:
			if err := s.handle(ev); err != nil {
				return err
			}
		}
	}
}

// handle runs one event through the translator and writes any resulting
// reports. A translation error is fatal for a mouse Session; a keyboard
// Session instead resets its state and continues, per the non-fatal
// decoding-exception policy.
func (s *Session) handle(ev evdev.InputEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if s.Class == ClassKeyboard {
				s.translator.Reset()
				s.logger.Warn("keyboard translation panic, state reset", "recovered", r)
				err = nil
				return
			}
			err = fmt.Errorf("mouse translation panic: %v", r)
		}
	}()

	reports, terr := s.translator.HandleEvent(ev)
	if terr != nil {
		if s.Class == ClassKeyboard {
			s.translator.Reset()
			s.logger.Warn("keyboard translation error, state reset", "err", terr)
			return nil
		}
		return terr
	}

	for _, report := range reports {
		if werr := s.writer.Write(report); werr != nil {
			if errors.Is(werr, hidio.ErrEndpointShutdown) {
				return werr
			}
			s.logger.Warn("HID write failed, continuing", "err", werr)
		}
	}
	return nil
}
