// SPDX-License-Identifier: BSD-3-Clause

package process

import "errors"

var (
	// ErrServicePanic indicates a component panicked during execution.
	ErrServicePanic = errors.New("component panicked during execution")
)
