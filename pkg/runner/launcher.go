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
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// LaunchOptions configures process startup behavior.
type LaunchOptions struct {
	// HideWindow prevents a console window from appearing (Windows-only).
	// On non-Windows platforms, this field is ignored.
	HideWindow bool
}

// Launcher provides an abstraction over process creation for testability.
// This allows the runner to be exercised in tests without starting a real
// interpreter process.
type Launcher interface {
	// Launch starts a process with stdout and stderr redirected.
	// Returns an error if the process fails to start.
	Launch(ctx context.Context, opts LaunchOptions, name string, args ...string) (Process, error)
}

// Process is a started process whose lifecycle the runner manages.
type Process interface {
	// Stdout is the process's redirected standard output. It reaches EOF
	// once every writer holding the stream (the process and any children it
	// handed the descriptor to) has exited or closed it.
	Stdout() io.Reader

	// Stderr is the process's redirected standard error.
	Stderr() io.Reader

	// Wait blocks until the process exits or ctx fires, whichever comes
	// first, and returns the process exit code. When ctx fires first it
	// returns ExitCodeNone and the context error; the process keeps
	// running until killed.
	Wait(ctx context.Context) (int, error)

	// KillTree forcefully terminates the process and all of its
	// descendants. Killing an already-exited process is not an error.
	KillTree() error
}

// OSLauncher starts real processes via exec.Cmd. This is the production
// implementation used in normal operation.
type OSLauncher struct{}

// Launch starts name with args, redirecting both output streams through
// pipes whose read ends survive process exit, so output flushed right at
// exit (or written by lingering children) is still readable afterwards.
func (*OSLauncher) Launch(
	ctx context.Context,
	opts LaunchOptions,
	name string,
	args ...string,
) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("launch aborted: %w", err)
	}

	cmd := exec.Command(name, args...)
	applySysProcAttr(cmd, opts)

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		_ = stdoutR.Close()
		_ = stdoutW.Close()
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	if err := cmd.Start(); err != nil {
		_ = stdoutR.Close()
		_ = stdoutW.Close()
		_ = stderrR.Close()
		_ = stderrW.Close()
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}

	// The child holds its own copies of the write ends now. Closing ours
	// means the read ends hit EOF when the last writer goes away.
	_ = stdoutW.Close()
	_ = stderrW.Close()

	proc := &osProcess{
		cmd:    cmd,
		stdout: stdoutR,
		stderr: stderrR,
		waitCh: make(chan waitOutcome, 1),
	}
	proc.tree = newProcessTree(cmd)
	return proc, nil
}

type waitOutcome struct {
	err      error
	exitCode int
}

type osProcess struct {
	cmd      *exec.Cmd
	stdout   *os.File
	stderr   *os.File
	tree     *processTree
	waitCh   chan waitOutcome
	waitOnce sync.Once
}

func (p *osProcess) Stdout() io.Reader { return p.stdout }
func (p *osProcess) Stderr() io.Reader { return p.stderr }

func (p *osProcess) Wait(ctx context.Context) (int, error) {
	p.waitOnce.Do(func() {
		go func() {
			err := p.cmd.Wait()
			p.tree.release()
			var exitErr *exec.ExitError
			switch {
			case err == nil:
				p.waitCh <- waitOutcome{exitCode: 0}
			case errors.As(err, &exitErr):
				p.waitCh <- waitOutcome{exitCode: exitErr.ExitCode()}
			default:
				p.waitCh <- waitOutcome{exitCode: ExitCodeNone, err: err}
			}
		}()
	})

	select {
	case out := <-p.waitCh:
		// Re-buffer so later Wait calls see the same outcome.
		p.waitCh <- out
		if out.err != nil {
			return out.exitCode, fmt.Errorf("wait failed: %w", out.err)
		}
		return out.exitCode, nil
	case <-ctx.Done():
		return ExitCodeNone, ctx.Err() //nolint:wrapcheck // callers match on context errors
	}
}

func (p *osProcess) KillTree() error {
	return p.tree.kill()
}
