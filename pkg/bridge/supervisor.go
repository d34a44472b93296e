// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package bridge

import (
	"context"
	"log/slog"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kiribridge/hidproxy/pkg/evdev"
	"github.com/kiribridge/hidproxy/pkg/session"
	"github.com/kiribridge/hidproxy/pkg/translate"
)

type managedSession struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Supervisor scans for matching input devices on a fixed tick, allocates
// endpoints from a fixed Pool per class, and spawns/cancels Sessions to
// keep the managed map in sync with the kernel's device set.
type Supervisor struct {
	deviceGlob string

	keyboardPattern *regexp.Regexp
	mousePattern    *regexp.Regexp

	keyboardPool *Pool
	mousePool    *Pool

	remapEnabled *atomic.Bool
	logger       *slog.Logger
	tickInterval time.Duration

	mu               sync.Mutex
	keyboardSessions map[string]*managedSession
	mouseSessions    map[string]*managedSession
}

// NewSupervisor returns a Supervisor ready to run. deviceGlob is typically
// "/dev/input/event*"; keyboardPattern/mousePattern match against the
// kernel-reported device name. tickInterval is the scan period between
// reap/enumerate/reconcile passes.
func NewSupervisor(deviceGlob string, keyboardPattern, mousePattern *regexp.Regexp, keyboardPool, mousePool *Pool, remapEnabled *atomic.Bool, tickInterval time.Duration, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		deviceGlob:       deviceGlob,
		keyboardPattern:  keyboardPattern,
		mousePattern:     mousePattern,
		keyboardPool:     keyboardPool,
		mousePool:        mousePool,
		remapEnabled:     remapEnabled,
		tickInterval:     tickInterval,
		logger:           logger,
		keyboardSessions: make(map[string]*managedSession),
		mouseSessions:    make(map[string]*managedSession),
	}
}

// Run blocks, ticking every tickInterval, until ctx is cancelled. On
// cancellation it cancels every managed Session and waits for them to
// exit before returning.
func (s *Supervisor) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one reap/enumerate/reconcile pass. Run's select loop dispatches
// ticks one at a time, so this never needs to guard against re-entrance.
func (s *Supervisor) tick(ctx context.Context) {
	s.reap(session.ClassKeyboard)
	s.reap(session.ClassMouse)

	keyboards, mice := s.enumerate()

	s.reconcile(ctx, session.ClassKeyboard, keyboards)
	s.reconcile(ctx, session.ClassMouse, mice)
}

// reap removes completed Sessions from the managed map for class and
// returns their endpoints to the pool, logging any terminal error.
func (s *Supervisor) reap(class session.Class) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, pool := s.classState(class)
	for path, ms := range sessions {
		select {
		case <-ms.done:
			if ms.err != nil {
				s.logger.Warn("session ended with error", "device", path, "class", class.String(), "err", ms.err)
			}
			pool.Release(path)
			delete(sessions, path)
		default:
		}
	}
}

// enumerate lists the kernel's current input devices and classifies each
// by its reported name. Per-device open errors (permission race, unplug
// mid-scan) are skipped without failing the tick.
func (s *Supervisor) enumerate() (keyboards, mice []string) {
	paths, err := evdev.ListDevicePaths(s.deviceGlob)
	if err != nil {
		s.logger.Warn("device enumeration failed", "err", err)
		return nil, nil
	}

	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		name, err := dev.Name()
		dev.Close()
		if err != nil {
			continue
		}

		switch {
		case s.keyboardPattern.MatchString(name):
			keyboards = append(keyboards, path)
		case s.mousePattern.MatchString(name):
			mice = append(mice, path)
		}
	}
	return keyboards, mice
}

// reconcile compares current device paths for class against the managed
// map: newly-present paths acquire an endpoint and start a Session;
// newly-absent paths have their Session cancelled and endpoint released.
func (s *Supervisor) reconcile(ctx context.Context, class session.Class, current []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, pool := s.classState(class)

	currentSet := make(map[string]struct{}, len(current))
	for _, path := range current {
		currentSet[path] = struct{}{}
	}

	for path, ms := range sessions {
		if _, ok := currentSet[path]; ok {
			continue
		}
		ms.cancel()
		pool.Release(path)
		delete(sessions, path)
	}

	for _, path := range current {
		if _, ok := sessions[path]; ok {
			continue
		}
		endpoint, ok := pool.Acquire(path)
		if !ok {
			s.logger.Warn("no free endpoint for device", "device", path, "class", class.String())
			continue
		}
		sessions[path] = s.spawn(ctx, class, path, endpoint)
	}
}

func (s *Supervisor) spawn(ctx context.Context, class session.Class, devicePath, endpoint string) *managedSession {
	sessionCtx, cancel := context.WithCancel(ctx)
	ms := &managedSession{cancel: cancel, done: make(chan struct{})}

	var translator translate.Translator
	if class == session.ClassKeyboard {
		translator = translate.NewKeyboard(s.remapEnabled)
	} else {
		translator = translate.NewMouse()
	}

	sess := session.New(devicePath, endpoint, class, translator, s.logger)
	go func() {
		defer close(ms.done)
		ms.err = sess.Run(sessionCtx)
	}()

	return ms
}

func (s *Supervisor) classState(class session.Class) (map[string]*managedSession, *Pool) {
	if class == session.ClassKeyboard {
		return s.keyboardSessions, s.keyboardPool
	}
	return s.mouseSessions, s.mousePool
}

func (s *Supervisor) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sessions := range []map[string]*managedSession{s.keyboardSessions, s.mouseSessions} {
		for _, ms := range sessions {
			ms.cancel()
		}
	}
	for _, sessions := range []map[string]*managedSession{s.keyboardSessions, s.mouseSessions} {
		for _, ms := range sessions {
			<-ms.done
		}
	}
}

// ManagedCount returns the number of managed Sessions per class, for
// diagnostics and tests.
func (s *Supervisor) ManagedCount() (keyboards, mice int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keyboardSessions), len(s.mouseSessions)
}
