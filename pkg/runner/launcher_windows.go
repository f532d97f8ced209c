//go:build windows

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
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/InfoBoxProject/infobox-core/pkg/helpers"
	"github.com/InfoBoxProject/infobox-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
)

// InterpreterName is the Windows PowerShell binary. It resolves through
// PATH, which always includes System32 for services and user sessions.
const InterpreterName = "powershell.exe"

// PROCESS_SET_QUOTA is required by AssignProcessToJobObject.
const processSetQuota = 0x0100

func applySysProcAttr(cmd *exec.Cmd, opts LaunchOptions) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: opts.HideWindow}
}

// processTree attaches a started process to a job object so cancellation can
// terminate the interpreter together with everything it spawned. Script
// children inherit job membership automatically.
type processTree struct {
	mu  syncutil.Mutex
	pid int
	job windows.Handle
}

func newProcessTree(cmd *exec.Cmd) *processTree {
	t := &processTree{pid: cmd.Process.Pid}

	job, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		log.Warn().Err(err).Msg("failed to create job object, tree kill will use taskkill")
		return t
	}

	// PIDs are 32-bit on Windows and always positive.
	//nolint:gosec // G115 conversion is safe, see above
	hProc, err := windows.OpenProcess(windows.PROCESS_TERMINATE|processSetQuota, false, uint32(t.pid))
	if err != nil {
		log.Warn().Err(err).Msg("failed to open process for job assignment")
		_ = windows.CloseHandle(job)
		return t
	}
	defer func() { _ = windows.CloseHandle(hProc) }()

	if err := windows.AssignProcessToJobObject(job, hProc); err != nil {
		log.Warn().Err(err).Msg("failed to assign process to job object")
		_ = windows.CloseHandle(job)
		return t
	}

	t.job = job
	return t
}

func (t *processTree) kill() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.job != 0 {
		if err := windows.TerminateJobObject(t.job, 1); err != nil {
			return fmt.Errorf("failed to terminate job object: %w", err)
		}
		return nil
	}

	// No job attached, fall back to a recursive taskkill. Skip it when the
	// interpreter already exited, taskkill would only report an error.
	if proc, err := os.FindProcess(t.pid); err == nil && !helpers.IsProcessRunning(proc) {
		return nil
	}
	err := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(t.pid)).Run()
	if err != nil {
		// taskkill exits non-zero for an already-dead process.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("taskkill failed for pid %d: %w", t.pid, err)
	}
	return nil
}

func (t *processTree) release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.job != 0 {
		_ = windows.CloseHandle(t.job)
		t.job = 0
	}
}
