// SPDX-License-Identifier: BSD-3-Clause

package process

import (
	"context"
	"fmt"

	"cirello.io/oversight/v2"
)

// Runnable is a long-running component managed under a supervision tree.
// A Run that returns nil is treated as a deliberate one-shot completion;
// a non-nil error triggers the tree's restart strategy.
type Runnable interface {
	Name() string
	Run(ctx context.Context) error
}

// New wraps r as an oversight.ChildProcess, converting any panic inside
// Run into an error tagged with the component's name.
func New(r Runnable) oversight.ChildProcess {
	return func(ctx context.Context) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("%w: %s: %v", ErrServicePanic, r.Name(), rec)
			}
		}()

		return r.Run(ctx)
	}
}
