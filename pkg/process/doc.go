// SPDX-License-Identifier: BSD-3-Clause

// Package process bridges a Runnable into an oversight.ChildProcess so it
// can be supervised, restarted on error, and have its panics turned into
// ordinary errors instead of crashing the daemon.
package process
