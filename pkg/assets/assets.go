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

// Package assets holds embedded static files.
package assets

import (
	_ "embed"
)

// TrayIconIco is the tray icon in ICO format, used on Windows.
//
//go:embed tray.ico
var TrayIconIco []byte

// TrayIconPng is the tray icon in PNG format, used everywhere else.
//
//go:embed tray.png
var TrayIconPng []byte
