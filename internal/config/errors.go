// SPDX-License-Identifier: BSD-3-Clause

package config

import "errors"

var (
	// ErrInvalidConfiguration indicates a required field is missing or out
	// of range after defaults have been applied.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
