//go:build !windows

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
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// InterpreterName is the PowerShell Core binary used on non-Windows
// development builds.
const InterpreterName = "pwsh"

func applySysProcAttr(cmd *exec.Cmd, _ LaunchOptions) {
	// A dedicated process group lets KillTree signal every descendant in
	// one call.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// processTree tracks the process group of a started command.
type processTree struct {
	pgid int
}

func newProcessTree(cmd *exec.Cmd) *processTree {
	return &processTree{pgid: cmd.Process.Pid}
}

func (t *processTree) kill() error {
	err := unix.Kill(-t.pgid, unix.SIGKILL)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("failed to kill process group %d: %w", t.pgid, err)
	}
	return nil
}

func (*processTree) release() {}
