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

// Package mocks provides shared mock implementations for testing.
package mocks

import (
	"context"
	"io"
	"strings"

	"github.com/InfoBoxProject/infobox-core/pkg/runner"
	"github.com/stretchr/testify/mock"
)

// MockLauncher is a mock implementation of runner.Launcher for testing.
type MockLauncher struct {
	mock.Mock
}

// NewMockLauncher creates a new mock launcher.
func NewMockLauncher() *MockLauncher {
	return &MockLauncher{}
}

// Launch mocks process startup.
func (m *MockLauncher) Launch(
	ctx context.Context,
	opts runner.LaunchOptions,
	name string,
	args ...string,
) (runner.Process, error) {
	callArgs := m.Called(ctx, opts, name, args)
	proc, _ := callArgs.Get(0).(runner.Process)
	return proc, callArgs.Error(1)
}

// SetupProcess configures the mock to return a scripted process for any
// launch.
func (m *MockLauncher) SetupProcess(proc runner.Process) {
	m.On("Launch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(proc, nil)
}

// SetupLaunchError configures the mock to fail process startup.
func (m *MockLauncher) SetupLaunchError(err error) {
	m.On("Launch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, err)
}

// ScriptedProcess is a runner.Process with fixed output and exit code.
type ScriptedProcess struct {
	stdout    io.Reader
	stderr    io.Reader
	WaitErr   error
	ExitCode  int
	KillCalls int
}

// NewScriptedProcess builds a process that emits stdout and stderr then
// exits with exitCode.
func NewScriptedProcess(stdout, stderr string, exitCode int) *ScriptedProcess {
	return &ScriptedProcess{
		stdout:   strings.NewReader(stdout),
		stderr:   strings.NewReader(stderr),
		ExitCode: exitCode,
	}
}

func (p *ScriptedProcess) Stdout() io.Reader { return p.stdout }
func (p *ScriptedProcess) Stderr() io.Reader { return p.stderr }

func (p *ScriptedProcess) Wait(ctx context.Context) (int, error) {
	if p.WaitErr != nil {
		return runner.ExitCodeNone, p.WaitErr
	}
	select {
	case <-ctx.Done():
		return runner.ExitCodeNone, ctx.Err()
	default:
	}
	return p.ExitCode, nil
}

func (p *ScriptedProcess) KillTree() error {
	p.KillCalls++
	return nil
}
