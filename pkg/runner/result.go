// InfoBox Core
// Copyright (c) 2026 The InfoBox Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of InfoBox Core.
//
// InfoBox Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// InfoBox Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with InfoBox Core.  If not, see <http://www.gnu.org/licenses/>.

package runner

import (
	"strings"
	"time"
)

// ExitCodeNone is the sentinel exit code for runs that never produced a real
// process exit code: start failure, cancellation, timeout, or a declined
// elevation prompt.
const ExitCodeNone = -1

// Reason strings reported in Result.Error when no real stderr text exists.
const (
	ReasonCancelled       = "Cancelled"
	ReasonTimedOut        = "Timed out"
	ReasonElevationDenied = "User cancelled elevation prompt"
)

// Result is the outcome of a single script invocation. It is constructed once
// at the end of a run and never mutated afterwards. A Success value of true
// always implies ExitCode == 0.
type Result struct {
	// Output is the captured standard output, trimmed of surrounding
	// whitespace. Elevated runs fold stderr into this field.
	Output string
	// Error is the captured standard error text, or a reason string when the
	// run never produced real stderr.
	Error string
	// Duration is wall-clock time from invocation start to completion.
	Duration time.Duration
	// ExitCode is the process exit code, or ExitCodeNone.
	ExitCode int
	// Success is true iff the process ran to completion and exited zero.
	Success bool
}

// exitResult builds a Result for a process that ran to completion and
// reported a real exit code.
func exitResult(exitCode int, output, stderr string, duration time.Duration) Result {
	return Result{
		Success:  exitCode == 0,
		ExitCode: exitCode,
		Output:   strings.TrimSpace(output),
		Error:    strings.TrimSpace(stderr),
		Duration: duration,
	}
}

// abortResult builds a Result for a run that never produced a real exit
// code. The reason string distinguishes cancellation, timeout, elevation
// decline and start failures.
func abortResult(reason, output string, duration time.Duration) Result {
	return Result{
		Success:  false,
		ExitCode: ExitCodeNone,
		Output:   strings.TrimSpace(output),
		Error:    reason,
		Duration: duration,
	}
}
