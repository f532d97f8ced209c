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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCommandRoundTrip(t *testing.T) {
	t.Parallel()

	scripts := map[string]string{
		"plain":         `Write-Output "hello"`,
		"single_quotes": `Write-Output 'it''s fine'`,
		"semicolons":    `Get-Process; Stop-Service -Name Spooler`,
		"pipes":         `Get-ChildItem | Where-Object { $_.Length -gt 0 }`,
		"backticks":     "Write-Output \"a`nb\"",
		"unicode":       `Write-Output "héllo wörld 日本語 🚀"`,
		"multiline":     "Write-Output 'one'\nWrite-Output 'two'\r\nWrite-Output 'three'",
		"empty":         "",
	}

	for name, script := range scripts {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			encoded, err := encodeCommand(script)
			require.NoError(t, err)

			decoded, err := decodeCommand(encoded)
			require.NoError(t, err)
			assert.Equal(t, script, decoded)
		})
	}
}

func TestTrustedPreamble(t *testing.T) {
	t.Parallel()

	preamble := trustedPreamble()
	lines := strings.Split(strings.TrimRight(preamble, "\n"), "\n")
	require.Len(t, lines, len(trustedEnvVars))

	for _, v := range []string{"LOCALAPPDATA", "APPDATA", "TEMP", "SystemRoot"} {
		assert.Contains(t, preamble, "$env:"+v+" = '")
	}

	// Values come from OS lookups, each one embedded as a single-quoted
	// literal terminated on its own line.
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "$env:"), "line %q", line)
		assert.True(t, strings.HasSuffix(line, "'"), "line %q", line)
	}
}

func TestEscapeSingleQuoted(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain", escapeSingleQuoted("plain"))
	assert.Equal(t, "it''s", escapeSingleQuoted("it's"))
	assert.Equal(t, "''''", escapeSingleQuoted("''"))
	assert.Equal(t, `C:\Users\o''brien`, escapeSingleQuoted(`C:\Users\o'brien`))
}

func TestHiddenArgs(t *testing.T) {
	t.Parallel()

	script := `Write-Output "hello"`
	args, err := hiddenArgs(script)
	require.NoError(t, err)

	assert.Equal(t, []string{"-NoLogo", "-NoProfile", "-ExecutionPolicy", "Bypass"}, args[:4])
	require.Equal(t, "-EncodedCommand", args[len(args)-2])

	decoded, err := decodeCommand(args[len(args)-1])
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(decoded, script))
	assert.True(t, strings.HasPrefix(decoded, "$env:"))
}

func TestHiddenArgsInjectionResistance(t *testing.T) {
	t.Parallel()

	// A script crafted to break out of a naively concatenated command line
	// must survive encoding as inert text: the argument list shape stays
	// fixed and the decoded payload ends with the exact input.
	script := `Write-Output 'done'" ; Remove-Item -Recurse C:\ ; "`
	args, err := hiddenArgs(script)
	require.NoError(t, err)

	plain, err := hiddenArgs(`Write-Output 'done'`)
	require.NoError(t, err)
	assert.Len(t, args, len(plain))

	decoded, err := decodeCommand(args[len(args)-1])
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(decoded, script))
	assert.Equal(t, trustedPreamble()+script, decoded)
}

func TestElevatedArgs(t *testing.T) {
	t.Parallel()

	args, err := elevatedArgs(`Restart-Service Dnscache`, `C:\Temp\relay's.out`)
	require.NoError(t, err)

	assert.Equal(t, []string{"-NoLogo", "-NoProfile", "-ExecutionPolicy", "Bypass"}, args[:4])
	assert.NotContains(t, args, "-WindowStyle")
	require.Equal(t, "-EncodedCommand", args[len(args)-2])

	decoded, err := decodeCommand(args[len(args)-1])
	require.NoError(t, err)
	assert.Contains(t, decoded, "Restart-Service Dnscache")
	assert.Contains(t, decoded, `'C:\Temp\relay''s.out'`)
}

func TestRelayWrap(t *testing.T) {
	t.Parallel()

	wrapped := relayWrap("Write-Output 'x'", "/tmp/relay.out")

	assert.Contains(t, wrapped, "$ErrorActionPreference = 'Stop'")
	assert.Contains(t, wrapped, "Write-Output 'x'")
	// Combined stdout+stderr redirect into the relay file.
	assert.Contains(t, wrapped, "*> '/tmp/relay.out'")
	// Real exit code is preserved on success.
	assert.Contains(t, wrapped, "exit $LASTEXITCODE")
	// Terminating errors land in the relay file with a non-zero exit.
	assert.Contains(t, wrapped, "$_.Exception.Message")
	assert.Contains(t, wrapped, "exit 1")
}
