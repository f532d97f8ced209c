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

package fixes

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

const oneDriveExe = "OneDrive.exe"

// oneDrivePath finds the executable of a running OneDrive instance. Returns
// the stock install location when OneDrive is not currently running.
func oneDrivePath() string {
	procs, err := process.Processes()
	if err != nil {
		log.Warn().Err(err).Msg("failed to enumerate processes")
	} else {
		for _, p := range procs {
			name, err := p.Name()
			if err != nil || !strings.EqualFold(name, oneDriveExe) {
				continue
			}
			exe, err := p.Exe()
			if err != nil {
				continue
			}
			return exe
		}
	}
	return `$env:LOCALAPPDATA\Microsoft\OneDrive\OneDrive.exe`
}

func builtinFixes() []Fix {
	return []Fix{
		{
			ID:          "restart-onedrive",
			Name:        "Restart OneDrive",
			Description: "Stops and restarts the OneDrive sync client.",
			Script: `Stop-Process -Name OneDrive -Force -ErrorAction SilentlyContinue
Start-Sleep -Seconds 2
Start-Process "` + oneDrivePath() + `"
Write-Output "OneDrive restarted"`,
			Timeout: time.Minute,
		},
		{
			ID:          "flush-dns",
			Name:        "Flush DNS cache",
			Description: "Clears the local DNS resolver cache.",
			Script:      `Clear-DnsClientCache; Write-Output "DNS cache cleared"`,
			Timeout:     time.Minute,
		},
		{
			ID:          "clear-temp",
			Name:        "Clear temporary files",
			Description: "Removes files from the user temp directory.",
			Script: `$before = (Get-ChildItem $env:TEMP -Recurse -ErrorAction SilentlyContinue | Measure-Object -Property Length -Sum).Sum
Get-ChildItem $env:TEMP -Recurse -ErrorAction SilentlyContinue | Remove-Item -Recurse -Force -ErrorAction SilentlyContinue
Write-Output ("Freed {0:N0} bytes" -f $before)`,
			Timeout: 5 * time.Minute,
		},
	}
}
