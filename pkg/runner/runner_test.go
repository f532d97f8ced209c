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
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProcess implements Process without a real interpreter.
type fakeProcess struct {
	stdout    io.Reader
	stderr    io.Reader
	exited    chan struct{}
	exitCode  int
	killCalls atomic.Int32
}

// newFakeProcess returns a process that has already exited with exitCode
// after producing the given stream content.
func newFakeProcess(stdout, stderr string, exitCode int) *fakeProcess {
	p := &fakeProcess{
		stdout:   strings.NewReader(stdout),
		stderr:   strings.NewReader(stderr),
		exited:   make(chan struct{}),
		exitCode: exitCode,
	}
	close(p.exited)
	return p
}

// newHungProcess returns a process that never exits on its own.
func newHungProcess(stdout string) *fakeProcess {
	return &fakeProcess{
		stdout: strings.NewReader(stdout),
		stderr: strings.NewReader(""),
		exited: make(chan struct{}),
	}
}

func (p *fakeProcess) Stdout() io.Reader { return p.stdout }
func (p *fakeProcess) Stderr() io.Reader { return p.stderr }

func (p *fakeProcess) Wait(ctx context.Context) (int, error) {
	select {
	case <-p.exited:
		return p.exitCode, nil
	case <-ctx.Done():
		return ExitCodeNone, ctx.Err()
	}
}

func (p *fakeProcess) KillTree() error {
	p.killCalls.Add(1)
	return nil
}

// fakeLauncher hands out a canned process and records launch parameters.
type fakeLauncher struct {
	proc      Process
	launchErr error
	gotOpts   LaunchOptions
	gotName   string
	gotArgs   []string
}

func (l *fakeLauncher) Launch(
	_ context.Context, opts LaunchOptions, name string, args ...string,
) (Process, error) {
	l.gotOpts = opts
	l.gotName = name
	l.gotArgs = args
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	return l.proc, nil
}

// lineCollector is a concurrency-safe OutputFunc.
type lineCollector struct {
	mu    sync.Mutex
	lines []string
}

func (c *lineCollector) add(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
}

func (c *lineCollector) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func TestRunSuccess(t *testing.T) {
	t.Parallel()

	launcher := &fakeLauncher{proc: newFakeProcess("hello\n", "", 0)}
	r := New(Options{Launcher: launcher})

	var lines lineCollector
	res := r.Run(context.Background(), `Write-Output "hello"`, lines.add)

	assert.True(t, res.Success)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello", res.Output)
	assert.Empty(t, res.Error)
	assert.Equal(t, []string{"hello"}, lines.all())

	// The invocation is hidden and goes through the interpreter with the
	// fixed flag set.
	assert.True(t, launcher.gotOpts.HideWindow)
	assert.Equal(t, InterpreterName, launcher.gotName)
	assert.Contains(t, launcher.gotArgs, "-EncodedCommand")
	assert.Contains(t, launcher.gotArgs, "-NoProfile")
}

func TestRunStderrCapture(t *testing.T) {
	t.Parallel()

	launcher := &fakeLauncher{proc: newFakeProcess("", "something broke\n", 1)}
	r := New(Options{Launcher: launcher})

	var lines lineCollector
	res := r.Run(context.Background(), "Write-Error 'something broke'; exit 1", lines.add)

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "something broke", res.Error)
	assert.Equal(t, []string{"[ERROR] something broke"}, lines.all())
}

func TestRunInterleavedStreams(t *testing.T) {
	t.Parallel()

	launcher := &fakeLauncher{proc: newFakeProcess("one\ntwo\n", "oops\n", 0)}
	r := New(Options{Launcher: launcher})

	var lines lineCollector
	res := r.Run(context.Background(), "script", lines.add)

	// Intra-stream order is guaranteed, cross-stream order is not.
	assert.Equal(t, "one\ntwo", res.Output)
	assert.Equal(t, "oops", res.Error)

	got := lines.all()
	require.Len(t, got, 3)
	assert.Contains(t, got, "one")
	assert.Contains(t, got, "two")
	assert.Contains(t, got, "[ERROR] oops")
}

func TestRunStartFailure(t *testing.T) {
	t.Parallel()

	launcher := &fakeLauncher{launchErr: errors.New("interpreter not found")}
	r := New(Options{Launcher: launcher})

	res := r.Run(context.Background(), "script", nil)

	assert.False(t, res.Success)
	assert.Equal(t, ExitCodeNone, res.ExitCode)
	assert.Equal(t, "interpreter not found", res.Error)
}

func TestRunCancellation(t *testing.T) {
	t.Parallel()

	proc := newHungProcess("partial\n")
	launcher := &fakeLauncher{proc: proc}
	r := New(Options{Launcher: launcher})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	res := r.Run(ctx, "Start-Sleep -Seconds 600", nil)

	assert.False(t, res.Success)
	assert.Equal(t, ExitCodeNone, res.ExitCode)
	assert.Equal(t, ReasonCancelled, res.Error)
	// Output captured before cancellation is preserved.
	assert.Equal(t, "partial", res.Output)
	// The whole process tree was killed, not just awaited.
	assert.Equal(t, int32(1), proc.killCalls.Load())
}

func TestRunTimeout(t *testing.T) {
	t.Parallel()

	proc := newHungProcess("")
	launcher := &fakeLauncher{proc: proc}
	r := New(Options{Launcher: launcher, Timeout: 50 * time.Millisecond})

	start := time.Now()
	res := r.Run(context.Background(), "Start-Sleep -Seconds 600", nil)

	assert.False(t, res.Success)
	assert.Equal(t, ExitCodeNone, res.ExitCode)
	assert.Equal(t, ReasonTimedOut, res.Error)
	assert.Equal(t, int32(1), proc.killCalls.Load())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunNilCallback(t *testing.T) {
	t.Parallel()

	launcher := &fakeLauncher{proc: newFakeProcess("quiet\n", "", 0)}
	r := New(Options{Launcher: launcher})

	res := r.Run(context.Background(), "script", nil)

	assert.True(t, res.Success)
	assert.Equal(t, "quiet", res.Output)
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	r := New(Options{})

	assert.NotNil(t, r.launcher)
	assert.NotNil(t, r.clock)
	assert.NotEmpty(t, r.tempDir)
	assert.Equal(t, DefaultTimeout, r.timeout)
	assert.Equal(t, DefaultDrainGrace, r.grace)
}
