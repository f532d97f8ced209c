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
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requirePowerShell skips tests that need a real interpreter on hosts
// without one.
func requirePowerShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath(InterpreterName); err != nil {
		t.Skipf("%s not available: %v", InterpreterName, err)
	}
}

func TestRunRealInterpreter(t *testing.T) {
	t.Parallel()
	requirePowerShell(t)

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		r := New(Options{})
		res := r.Run(context.Background(), `Write-Output "hello"`, nil)

		assert.True(t, res.Success)
		assert.Equal(t, 0, res.ExitCode)
		assert.Equal(t, "hello", res.Output)
		assert.Empty(t, res.Error)
		assert.Positive(t, res.Duration)
	})

	t.Run("nonzero_exit", func(t *testing.T) {
		t.Parallel()

		r := New(Options{})
		res := r.Run(context.Background(), "exit 3", nil)

		assert.False(t, res.Success)
		assert.Equal(t, 3, res.ExitCode)
	})

	t.Run("metacharacters_stay_inert", func(t *testing.T) {
		t.Parallel()

		// The same text a naive concatenation would split into two
		// statements comes back as one literal.
		r := New(Options{})
		res := r.Run(context.Background(), `Write-Output 'a; b | c'`, nil)

		require.True(t, res.Success)
		assert.Equal(t, "a; b | c", res.Output)
	})

	t.Run("trusted_environment_applied", func(t *testing.T) {
		t.Parallel()

		r := New(Options{})
		res := r.Run(context.Background(), `Write-Output $env:SystemRoot`, nil)

		require.True(t, res.Success)
		assert.Equal(t, systemRootDir(), res.Output)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		r := New(Options{Timeout: 2 * time.Second})
		start := time.Now()
		res := r.Run(context.Background(), "Start-Sleep -Seconds 600", nil)

		assert.False(t, res.Success)
		assert.Equal(t, ExitCodeNone, res.ExitCode)
		assert.Equal(t, ReasonTimedOut, res.Error)
		assert.Less(t, time.Since(start), 30*time.Second)
	})
}
