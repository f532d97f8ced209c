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

// Package runner executes fix catalog scripts through an external
// PowerShell interpreter, as the current user or elevated, and reports every
// outcome as a Result rather than an error.
package runner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/InfoBoxProject/infobox-core/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultTimeout bounds a standard run from start to process exit.
	DefaultTimeout = 5 * time.Minute
	// DefaultDrainGrace bounds how long the runner waits after process exit
	// for both output streams to signal EOF.
	DefaultDrainGrace = 5 * time.Second

	// errLinePrefix marks stderr lines delivered through the output callback.
	errLinePrefix = "[ERROR] "

	scannerBufSize = 1024 * 1024
)

// OutputFunc receives one line of live process output. Stderr lines arrive
// prefixed with "[ERROR] ". Lines from the two streams may interleave in any
// order; intra-stream order is preserved.
type OutputFunc func(line string)

// Options configures a Runner. Zero-value fields fall back to production
// defaults.
type Options struct {
	// Launcher starts interpreter processes. Defaults to OSLauncher.
	Launcher Launcher
	// Clock is used for durations, timeouts and delays. Defaults to the
	// real clock.
	Clock clockwork.Clock
	// TempDir holds elevated-run relay files. Defaults to the system temp
	// directory.
	TempDir string
	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
	// DrainGrace overrides DefaultDrainGrace.
	DrainGrace time.Duration
}

// Runner executes scripts. Each invocation is independent; a single Runner
// may be used concurrently from multiple goroutines.
type Runner struct {
	launcher Launcher
	clock    clockwork.Clock
	tempDir  string
	timeout  time.Duration
	grace    time.Duration
}

func New(opts Options) *Runner {
	r := &Runner{
		launcher: opts.Launcher,
		clock:    opts.Clock,
		tempDir:  opts.TempDir,
		timeout:  opts.Timeout,
		grace:    opts.DrainGrace,
	}
	if r.launcher == nil {
		r.launcher = &OSLauncher{}
	}
	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}
	if r.tempDir == "" {
		r.tempDir = os.TempDir()
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.grace <= 0 {
		r.grace = DefaultDrainGrace
	}
	return r
}

// Run executes script as the current user with a hidden window, streaming
// each output line to onLine if non-nil. It always returns a Result: start
// failures, cancellation and timeout are folded into the Result instead of
// being returned as errors. Cancelling ctx kills the interpreter and its
// entire process tree.
func (r *Runner) Run(ctx context.Context, script string, onLine OutputFunc) Result {
	start := r.clock.Now()
	res := r.run(ctx, script, onLine, start)
	log.Info().
		Str("mode", "user").
		Int("exitCode", res.ExitCode).
		Bool("success", res.Success).
		Dur("duration", res.Duration).
		Msg("command finished")
	return res
}

func (r *Runner) run(ctx context.Context, script string, onLine OutputFunc, start time.Time) Result {
	args, err := hiddenArgs(script)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode command")
		return abortResult(err.Error(), "", r.clock.Since(start))
	}

	proc, err := r.launcher.Launch(ctx, LaunchOptions{HideWindow: true}, InterpreterName, args...)
	if err != nil {
		log.Error().Err(err).Msg("failed to start command process")
		return abortResult(err.Error(), "", r.clock.Since(start))
	}

	var stdout, stderr lineBuffer
	stdoutDone := make(chan struct{})
	stderrDone := make(chan struct{})
	go drainLines(proc.Stdout(), &stdout, onLine, "", stdoutDone)
	go drainLines(proc.Stderr(), &stderr, onLine, errLinePrefix, stderrDone)

	// One linked deadline covers both caller cancellation and the fixed
	// run timeout; the result distinguishes which of the two fired.
	waitCtx, cancelWait := clockwork.WithTimeout(ctx, r.clock, r.timeout)
	defer cancelWait()

	exitCode, waitErr := proc.Wait(waitCtx)
	if waitErr != nil {
		if errors.Is(waitErr, context.Canceled) || errors.Is(waitErr, context.DeadlineExceeded) {
			if killErr := proc.KillTree(); killErr != nil {
				log.Warn().Err(killErr).Msg("failed to kill command process tree")
			}
			reason := ReasonTimedOut
			if ctx.Err() != nil {
				reason = ReasonCancelled
			}
			return abortResult(reason, stdout.String(), r.clock.Since(start))
		}
		log.Error().Err(waitErr).Msg("failed waiting for command process")
		return abortResult(waitErr.Error(), stdout.String(), r.clock.Since(start))
	}

	// The process has exited but children it spawned can still hold the
	// stream descriptors open, so EOF is only raced against a short grace
	// instead of being awaited unconditionally.
	r.awaitDrain(stdoutDone, stderrDone)

	return exitResult(exitCode, stdout.String(), stderr.String(), r.clock.Since(start))
}

// awaitDrain waits for both stream readers to finish, giving up after the
// drain grace period.
func (r *Runner) awaitDrain(stdoutDone, stderrDone <-chan struct{}) {
	deadline := r.clock.After(r.grace)
	for stdoutDone != nil || stderrDone != nil {
		select {
		case <-stdoutDone:
			stdoutDone = nil
		case <-stderrDone:
			stderrDone = nil
		case <-deadline:
			return
		}
	}
}

// drainLines reads stream line by line, accumulating into buf and invoking
// onLine per line with prefix prepended. done is closed once the stream
// reaches EOF or fails.
func drainLines(stream io.Reader, buf *lineBuffer, onLine OutputFunc, prefix string, done chan<- struct{}) {
	defer close(done)
	sc := bufio.NewScanner(stream)
	sc.Buffer(make([]byte, 0, 64*1024), scannerBufSize)
	for sc.Scan() {
		line := sc.Text()
		buf.Append(line)
		if onLine != nil {
			onLine(prefix + line)
		}
	}
	if err := sc.Err(); err != nil {
		log.Debug().Err(err).Msg("output stream closed with error")
	}
}

// lineBuffer accumulates output lines. Reads can race the reader goroutine
// when a run is cancelled mid-stream, so access is serialized.
type lineBuffer struct {
	mu syncutil.Mutex
	b  strings.Builder
}

func (l *lineBuffer) Append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.WriteString(line)
	l.b.WriteByte('\n')
}

func (l *lineBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}
