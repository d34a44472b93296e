// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package gpiomacro

import "errors"

var (
	// ErrUnsupportedChar indicates a character in the macro's typed string
	// has no HID usage mapping and was skipped.
	ErrUnsupportedChar = errors.New("character has no HID usage mapping")
)
