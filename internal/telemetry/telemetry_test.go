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

package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no username in path",
			input:    "/usr/local/bin/infobox",
			expected: "/usr/local/bin/infobox",
		},
		{
			name:     "linux home path",
			input:    "/home/jsmith/dev/infobox-core/pkg/config/config.go",
			expected: "/home/<user>/dev/infobox-core/pkg/config/config.go",
		},
		{
			name:     "macos users path",
			input:    "/Users/jsmith/Documents/infobox/config.toml",
			expected: "/Users/<user>/Documents/infobox/config.toml",
		},
		{
			name:     "windows users path",
			input:    `C:\Users\jsmith\AppData\Local\infobox\infobox.log`,
			expected: `C:\Users\<user>\AppData\Local\infobox\infobox.log`,
		},
		{
			name:     "multiple paths in one message",
			input:    "copy /home/alice/a to /home/bob/b",
			expected: "copy /home/<user>/a to /home/<user>/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "DESK-042",
		Message:    "failed to read /home/jsmith/notes.txt",
		Extra: map[string]any{
			"path":  "/Users/jsmith/x",
			"count": 3,
		},
		Exception: []sentry.Exception{{
			Stacktrace: &sentry.Stacktrace{
				Frames: []sentry.Frame{{
					AbsPath:  `C:\Users\jsmith\dev\main.go`,
					Filename: "main.go",
				}},
			},
		}},
	}

	got := sanitizeEvent(event)
	require.NotNil(t, got)

	assert.Empty(t, got.ServerName, "hostname must never leave the machine")
	assert.Equal(t, "failed to read /home/<user>/notes.txt", got.Message)
	assert.Equal(t, "/Users/<user>/x", got.Extra["path"])
	assert.Equal(t, 3, got.Extra["count"])
	assert.Equal(t, `C:\Users\<user>\dev\main.go`, got.Exception[0].Stacktrace.Frames[0].AbsPath)
}

func TestInitDisabled(t *testing.T) {
	t.Parallel()

	require.NoError(t, Init(false, "device-id", "1.0.0"))
	assert.False(t, Enabled())
}
