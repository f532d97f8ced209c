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

import "os"

// PowerShell Core rejects -WindowStyle on non-Windows hosts, and there is no
// console window to hide anyway.
var hiddenStyleArgs []string

// Non-Windows builds exist for development against PowerShell Core. The
// preamble variables keep their Windows names so catalog scripts stay
// portable, with values mapped to the closest platform equivalents.

func localAppDataDir() string {
	if p, err := os.UserCacheDir(); err == nil {
		return p
	}
	return "/tmp"
}

func roamingAppDataDir() string {
	if p, err := os.UserConfigDir(); err == nil {
		return p
	}
	return "/tmp"
}

func secureTempDir() string {
	return os.TempDir()
}

func systemRootDir() string {
	return "/"
}
