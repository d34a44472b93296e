// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package bridge

import "errors"

var (
	// ErrPoolExhausted indicates no free endpoint was available for a
	// newly-observed device. The device is skipped until the next tick.
	ErrPoolExhausted = errors.New("endpoint pool exhausted")
	// ErrNotAssigned indicates Release was called for a device path that
	// the pool has no assignment for.
	ErrNotAssigned = errors.New("device path has no assigned endpoint")
)
