// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

// Package hidio is the HID Writer: it serializes report buffers to gadget
// endpoint character devices and classifies write failures.
package hidio

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Writer writes HID reports to a single gadget endpoint path. The per-call
// open/write/close is deliberate: the gadget endpoint's write side may be
// shut down by the host at any moment, and re-opening surfaces that
// transition deterministically rather than masking it behind a held file
// descriptor.
type Writer struct {
	endpoint string
}

// NewWriter returns a Writer bound to endpoint.
func NewWriter(endpoint string) (*Writer, error) {
	if endpoint == "" {
		return nil, ErrInvalidEndpoint
	}
	return &Writer{endpoint: endpoint}, nil
}

// Write performs one open/write/close cycle against the endpoint.
//
// If the write fails with ESHUTDOWN, the returned error wraps
// ErrEndpointShutdown and is fatal to the caller's Session. Any other I/O
// error wraps ErrWriteFailed and is meant to be logged and swallowed — the
// next report will reattempt.
func (w *Writer) Write(report []byte) error {
	f, err := os.OpenFile(w.endpoint, os.O_RDWR, 0)
	if err != nil {
		return w.classify(err)
	}
	defer f.Close()

	if _, err := f.Write(report); err != nil {
		return w.classify(err)
	}

	return nil
}

func (w *Writer) classify(err error) error {
	if errors.Is(err, unix.ESHUTDOWN) {
		return fmt.Errorf("%w: %s: %w", ErrEndpointShutdown, w.endpoint, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrWriteFailed, w.endpoint, err)
}

// Endpoint returns the gadget endpoint path this Writer targets.
func (w *Writer) Endpoint() string {
	return w.endpoint
}
