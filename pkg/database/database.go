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

// Package database holds record structs and migration plumbing shared
// by the concrete database implementations.
package database

import (
	"time"
)

// FixRun is a single recorded execution of a fix action.
type FixRun struct {
	Time     time.Time `json:"time"`
	FixID    string    `json:"fixId"`
	Output   string    `json:"output"`
	DBID     int64     `db:"DBID"  json:"id"`
	Duration int64     `json:"durationMs"`
	ExitCode int       `json:"exitCode"`
	Success  bool      `json:"success"`
	Admin    bool      `json:"admin"`
}
