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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExitResult(t *testing.T) {
	t.Parallel()

	t.Run("zero_exit_is_success", func(t *testing.T) {
		t.Parallel()

		res := exitResult(0, "  hello \n", "", time.Second)

		assert.True(t, res.Success)
		assert.Equal(t, 0, res.ExitCode)
		assert.Equal(t, "hello", res.Output)
		assert.Empty(t, res.Error)
		assert.Equal(t, time.Second, res.Duration)
	})

	t.Run("nonzero_exit_is_failure", func(t *testing.T) {
		t.Parallel()

		res := exitResult(3, "", "boom\n", time.Second)

		assert.False(t, res.Success)
		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, "boom", res.Error)
	})
}

func TestAbortResult(t *testing.T) {
	t.Parallel()

	for _, reason := range []string{ReasonCancelled, ReasonTimedOut, ReasonElevationDenied} {
		res := abortResult(reason, "partial\n", time.Minute)

		assert.False(t, res.Success)
		assert.Equal(t, ExitCodeNone, res.ExitCode)
		assert.Equal(t, reason, res.Error)
		assert.Equal(t, "partial", res.Output)
	}
}
