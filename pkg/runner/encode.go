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
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// trustedEnvVar names an environment variable whose value is reassigned in
// the script preamble from an OS lookup instead of the inherited process
// environment.
type trustedEnvVar struct {
	Lookup func() string
	Name   string
}

// trustedEnvVars is the allow-list of path variables the preamble overrides.
// Scripts from the fix catalog routinely reference these, and the inherited
// environment is attacker-influenceable, so each one is re-sourced directly
// from the OS at call time. Lookup implementations are per-platform.
var trustedEnvVars = []trustedEnvVar{
	{Name: "LOCALAPPDATA", Lookup: localAppDataDir},
	{Name: "APPDATA", Lookup: roamingAppDataDir},
	{Name: "TEMP", Lookup: secureTempDir},
	{Name: "SystemRoot", Lookup: systemRootDir},
}

// escapeSingleQuoted escapes s for embedding inside a PowerShell
// single-quoted string literal, where the quote itself is the only
// metacharacter.
func escapeSingleQuoted(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// trustedPreamble renders the environment override block that runs ahead of
// any caller-supplied script text.
func trustedPreamble() string {
	var b strings.Builder
	for _, v := range trustedEnvVars {
		fmt.Fprintf(&b, "$env:%s = '%s'\n", v.Name, escapeSingleQuoted(v.Lookup()))
	}
	return b.String()
}

// encodeCommand converts script text to the -EncodedCommand payload format:
// UTF-16LE bytes, base64 encoded. Passing scripts as an encoded blob avoids
// every quoting and metacharacter hazard of the command-line parser.
func encodeCommand(script string) (string, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	raw, err := enc.String(script)
	if err != nil {
		return "", fmt.Errorf("failed to encode script as UTF-16: %w", err)
	}
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

// decodeCommand reverses encodeCommand. Used only by tests to verify the
// encoding round-trips.
func decodeCommand(payload string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	script, err := dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode UTF-16 payload: %w", err)
	}
	return string(script), nil
}

// baseArgs are the fixed interpreter flags every invocation carries.
func baseArgs() []string {
	return []string{"-NoLogo", "-NoProfile", "-ExecutionPolicy", "Bypass"}
}

// hiddenArgs builds the argument list for a hidden, output-redirected,
// non-elevated invocation of script.
func hiddenArgs(script string) ([]string, error) {
	encoded, err := encodeCommand(trustedPreamble() + script)
	if err != nil {
		return nil, err
	}
	args := append(baseArgs(), hiddenStyleArgs...)
	return append(args, "-EncodedCommand", encoded), nil
}

// elevatedArgs builds the argument list for an elevated invocation of
// script, with all output relayed through the file at relayPath. The
// elevated process runs in a different security context and cannot have its
// streams redirected by the parent, so the script is wrapped in a guard that
// writes combined stdout and stderr to the relay file, converts any
// terminating error into a message in the same file with a non-zero exit,
// and otherwise preserves the wrapped command's exit code.
func elevatedArgs(script, relayPath string) ([]string, error) {
	guarded := relayWrap(trustedPreamble()+script, relayPath)
	encoded, err := encodeCommand(guarded)
	if err != nil {
		return nil, err
	}
	return append(baseArgs(), "-EncodedCommand", encoded), nil
}

// relayWrap wraps script so that its combined output lands in relayPath and
// failures inside the script surface as file content plus a non-zero exit.
func relayWrap(script, relayPath string) string {
	relay := escapeSingleQuoted(relayPath)
	var b strings.Builder
	b.WriteString("$ErrorActionPreference = 'Stop'\n")
	b.WriteString("try {\n")
	b.WriteString("& {\n")
	b.WriteString(script)
	b.WriteString("\n} *> '" + relay + "'\n")
	b.WriteString("exit $LASTEXITCODE\n")
	b.WriteString("} catch {\n")
	b.WriteString("$_.Exception.Message | Out-File -FilePath '" + relay + "' -Append -Encoding utf8\n")
	b.WriteString("exit 1\n")
	b.WriteString("}\n")
	return b.String()
}
