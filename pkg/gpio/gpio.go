// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

// Package gpio wraps go-gpiocdev line requests for the three push-button
// macro inputs. Unlike the broader GPIO helper this was adapted from, every
// line this project requests is an input with edge detection — there are no
// LEDs or power-control outputs in this system.
package gpio

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// EdgeEvent is a debounced level transition observed on a requested line.
type EdgeEvent struct {
	Rising    bool
	Timestamp time.Time
}

// Button is a single GPIO input line with edge-both detection, delivering
// debounced press (rising) and release (falling) events on a channel.
type Button struct {
	line   *gpiocdev.Line
	events chan EdgeEvent
}

// RequestButton requests lineOffset on chip as an input with edge-both
// detection and the given debounce period, consumed as "hidproxy".
func RequestButton(chip string, lineOffset int, debounce time.Duration) (*Button, error) {
	if chip == "" {
		return nil, fmt.Errorf("%w: chip path cannot be empty", ErrOperationFailed)
	}
	if lineOffset < 0 {
		return nil, fmt.Errorf("%w: line offset cannot be negative", ErrInvalidValue)
	}

	b := &Button{events: make(chan EdgeEvent, 8)}

	line, err := gpiocdev.RequestLine(chip, lineOffset,
		gpiocdev.WithConsumer("hidproxy"),
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithDebounce(debounce),
		gpiocdev.WithEventHandler(b.handle),
	)
	if err != nil {
		return nil, mapGpiocdevError(err, fmt.Sprintf("failed to request line %d from chip '%s'", lineOffset, chip))
	}
	b.line = line

	return b, nil
}

func (b *Button) handle(evt gpiocdev.LineEvent) {
	b.events <- EdgeEvent{
		Rising:    evt.Type == gpiocdev.LineEventRisingEdge,
		Timestamp: time.Now(),
	}
}

// Events returns the channel of debounced edge transitions for this button.
func (b *Button) Events() <-chan EdgeEvent {
	return b.events
}

// Value reads the current instantaneous line value (1 = high, 0 = low).
func (b *Button) Value() (int, error) {
	v, err := b.line.Value()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read line value: %w", ErrOperationFailed, err)
	}
	return v, nil
}

// Close releases the underlying line request.
func (b *Button) Close() error {
	close(b.events)
	return b.line.Close()
}

// mapGpiocdevError maps gpiocdev/syscall errors to our package errors.
func mapGpiocdevError(err error, details string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, syscall.ENOENT):
		return fmt.Errorf("%w: %s", ErrChipNotFound, details)
	case errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, details)
	case errors.Is(err, gpiocdev.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrLineNotFound, details)
	case errors.Is(err, gpiocdev.ErrClosed):
		return fmt.Errorf("%w: %s", ErrLineClosed, details)
	default:
		return fmt.Errorf("%w: %s: %w", ErrOperationFailed, details, err)
	}
}
