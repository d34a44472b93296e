// SPDX-License-Identifier: BSD-3-Clause

// Package log provides a zerolog-backed slog.Logger shared by every
// component of the bridge daemon, plus small adapters for libraries that
// expect an oversight.Logger or a standard library *log.Logger.
package log
