// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package session

import "errors"

var (
	// ErrReadFailed indicates the input device's read side returned a
	// terminal I/O error (typically device unplug). Fatal to the Session.
	ErrReadFailed = errors.New("input device read failed")
)
