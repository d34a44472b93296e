// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/kiribridge/hidproxy/pkg/evdev"
	"github.com/kiribridge/hidproxy/pkg/hidio"
)

type fakeTranslator struct {
	reports     [][]byte
	err         error
	resetCalled int
}

func (f *fakeTranslator) HandleEvent(ev evdev.InputEvent) ([][]byte, error) {
	return f.reports, f.err
}

func (f *fakeTranslator) Reset() { f.resetCalled++ }

type fakeWriter struct {
	writes [][]byte
	err    error
}

func (f *fakeWriter) Write(report []byte) error {
	f.writes = append(f.writes, report)
	return f.err
}

func newTestSession(class Class, tr *fakeTranslator, w *fakeWriter) *Session {
	return &Session{
		ID:         uuid.New(),
		DevicePath: "/dev/input/event0",
		Endpoint:   "/dev/hidg0",
		Class:      class,
		translator: tr,
		writer:     w,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestHandleWritesEveryReport(t *testing.T) {
	tr := &fakeTranslator{reports: [][]byte{{1}, {2}}}
	w := &fakeWriter{}
	s := newTestSession(ClassMouse, tr, w)

	if err := s.handle(evdev.InputEvent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(w.writes))
	}
}

func TestHandleMouseTranslationErrorIsFatal(t *testing.T) {
	tr := &fakeTranslator{err: errors.New("boom")}
	w := &fakeWriter{}
	s := newTestSession(ClassMouse, tr, w)

	if err := s.handle(evdev.InputEvent{}); err == nil {
		t.Fatalf("expected mouse translation error to be fatal")
	}
}

func TestHandleKeyboardTranslationErrorResetsAndContinues(t *testing.T) {
	tr := &fakeTranslator{err: errors.New("boom")}
	w := &fakeWriter{}
	s := newTestSession(ClassKeyboard, tr, w)

	if err := s.handle(evdev.InputEvent{}); err != nil {
		t.Fatalf("keyboard translation error should be swallowed, got %v", err)
	}
	if tr.resetCalled != 1 {
		t.Fatalf("expected Reset to be called once, got %d", tr.resetCalled)
	}
}

func TestHandleEndpointShutdownIsFatal(t *testing.T) {
	tr := &fakeTranslator{reports: [][]byte{{1}}}
	w := &fakeWriter{err: fmt.Errorf("%w: endpoint gone", hidio.ErrEndpointShutdown)}
	s := newTestSession(ClassMouse, tr, w)

	err := s.handle(evdev.InputEvent{})
	if !errors.Is(err, hidio.ErrEndpointShutdown) {
		t.Fatalf("expected ErrEndpointShutdown, got %v", err)
	}
}

func TestHandleNonShutdownWriteErrorIsSwallowed(t *testing.T) {
	tr := &fakeTranslator{reports: [][]byte{{1}}}
	w := &fakeWriter{err: errors.New("transient")}
	s := newTestSession(ClassMouse, tr, w)

	if err := s.handle(evdev.InputEvent{}); err != nil {
		t.Fatalf("non-shutdown write error should be swallowed, got %v", err)
	}
}

func TestClassString(t *testing.T) {
	if ClassKeyboard.String() != "keyboard" {
		t.Errorf("got %q", ClassKeyboard.String())
	}
	if ClassMouse.String() != "mouse" {
		t.Errorf("got %q", ClassMouse.String())
	}
}
