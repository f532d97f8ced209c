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

package helpers

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/InfoBoxProject/infobox-core/pkg/config"
	"github.com/adrg/xdg"
)

var (
	userDirOnce        sync.Once
	userDirCache       string
	userDirCacheExists bool
)

// ExeDir returns the directory of the running executable, or "" if it
// cannot be determined.
func ExeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// HasUserDir checks for a "user" directory next to the executable and
// returns true and its absolute path if it exists. When present it replaces
// the system config and data directories, for a portable install. The result
// is cached after the first call and safe for concurrent use.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		exeDir := os.Getenv(config.AppEnv)
		if exeDir == "" {
			exe, err := os.Executable()
			if err != nil {
				return
			}
			exeDir = exe
		}

		userDir := filepath.Join(filepath.Dir(exeDir), config.UserDir)
		info, err := os.Stat(userDir)
		if err != nil || !info.IsDir() {
			return
		}

		userDirCache = userDir
		userDirCacheExists = true
	})

	return userDirCache, userDirCacheExists
}

// ConfigDir returns the directory holding the config file.
func ConfigDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// DataDir returns the directory holding logs and the history database.
func DataDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.DataHome, config.AppName)
}
