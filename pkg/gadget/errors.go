// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package gadget

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid gadget configuration")
	ErrConfigFSNotMounted = errors.New("configfs is not mounted")
	ErrGadgetNotFound     = errors.New("gadget not found")
	ErrUDCNotFound        = errors.New("no available UDC")
	ErrPermissionDenied   = errors.New("permission denied for gadget operation")
)
