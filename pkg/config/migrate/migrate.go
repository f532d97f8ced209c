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

// Package migrate converts a legacy infobox.ini file into config defaults
// for the TOML config format.
package migrate

import (
	"fmt"
	"os"

	"github.com/InfoBoxProject/infobox-core/pkg/config"
	"gopkg.in/ini.v1"
)

// Required reports whether a legacy ini file exists and no TOML config has
// been written yet.
func Required(iniPath, tomlPath string) bool {
	if _, err := os.Stat(iniPath); err != nil {
		return false
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return false
	}
	return true
}

// IniToToml reads a legacy ini file and maps its settings onto config
// defaults. Settings matching the defaults are left untouched so the new
// config file stays minimal.
//
//nolint:gocritic // defaults copied for immutability
func IniToToml(iniPath string) (config.Values, error) {
	vals := config.BaseDefaults

	file, err := ini.Load(iniPath)
	if err != nil {
		return vals, fmt.Errorf("failed to load ini file: %w", err)
	}

	app := file.Section("infobox")
	if app.HasKey("debug") {
		vals.DebugLogging = app.Key("debug").MustBool(vals.DebugLogging)
	}
	if app.HasKey("title") {
		if title := app.Key("title").String(); title != "" {
			vals.UI.Title = title
		}
	}

	ui := file.Section("ui")
	if ui.HasKey("show_network_info") {
		vals.UI.ShowNetworkInfo = ui.Key("show_network_info").MustBool(vals.UI.ShowNetworkInfo)
	}
	if ui.HasKey("show_device_info") {
		vals.UI.ShowDeviceInfo = ui.Key("show_device_info").MustBool(vals.UI.ShowDeviceInfo)
	}

	history := file.Section("history")
	if history.HasKey("enabled") {
		vals.History.Enabled = history.Key("enabled").MustBool(vals.History.Enabled)
	}
	if history.HasKey("retention_days") {
		if days := history.Key("retention_days").MustInt(0); days > 0 {
			vals.History.RetentionDays = days
		}
	}

	// Legacy fix entries live in sections named [fix.<id>].
	for _, section := range file.Sections() {
		name := section.Name()
		if len(name) <= len("fix.") || name[:len("fix.")] != "fix." {
			continue
		}
		entry := config.FixEntry{
			ID:             name[len("fix."):],
			Name:           section.Key("name").String(),
			Description:    section.Key("description").String(),
			Script:         section.Key("script").String(),
			Admin:          section.Key("admin").MustBool(false),
			TimeoutSeconds: section.Key("timeout_seconds").MustInt(0),
		}
		vals.Fixes = append(vals.Fixes, entry)
	}

	return vals, nil
}
