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
	"path/filepath"

	"golang.org/x/sys/windows"
)

// hiddenStyleArgs suppresses the console window for non-elevated runs.
var hiddenStyleArgs = []string{"-WindowStyle", "Hidden"}

// Trusted path lookups resolve through shell known folder and kernel APIs,
// never through the inherited process environment. Lookup failures fall back
// to the conventional defaults rather than empty strings so the preamble
// assignments stay usable.

func localAppDataDir() string {
	if p, err := windows.KnownFolderPath(windows.FOLDERID_LocalAppData, 0); err == nil {
		return p
	}
	return `C:\Users\Default\AppData\Local`
}

func roamingAppDataDir() string {
	if p, err := windows.KnownFolderPath(windows.FOLDERID_RoamingAppData, 0); err == nil {
		return p
	}
	return `C:\Users\Default\AppData\Roaming`
}

func secureTempDir() string {
	// GetTempPath honors TMP/TEMP from the environment, which is exactly
	// what the preamble exists to defeat, so the temp dir is derived from
	// the local app data known folder instead.
	return filepath.Join(localAppDataDir(), "Temp")
}

func systemRootDir() string {
	if p, err := windows.GetWindowsDirectory(); err == nil {
		return p
	}
	return `C:\Windows`
}
