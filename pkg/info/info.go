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

// Package info collects the device, identity and network details shown in
// the tray menu.
package info

import (
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/InfoBoxProject/infobox-core/pkg/helpers"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/host"
	"golang.org/x/sync/errgroup"
)

// Snapshot is a point-in-time view of the machine. Fields that could not be
// collected are left empty rather than failing the whole snapshot.
type Snapshot struct {
	Hostname  string
	Username  string
	OS        string
	OSVersion string
	IPAddress string
	DeviceID  string
	Uptime    time.Duration
}

// Collect gathers a snapshot. The sources run concurrently since the host
// query can take a while on Windows. Collection errors are logged and
// degrade to empty fields so the tray always has something to show.
func Collect(deviceID string) Snapshot {
	snap := Snapshot{DeviceID: deviceID}

	var g errgroup.Group
	g.Go(func() error {
		hostInfo, err := host.Info()
		if err != nil {
			log.Warn().Err(err).Msg("failed to read host info")
			return nil
		}
		snap.Hostname = hostInfo.Hostname
		snap.OS = hostInfo.Platform
		snap.OSVersion = hostInfo.PlatformVersion
		snap.Uptime = time.Duration(hostInfo.Uptime) * time.Second //nolint:gosec // uptime fits
		return nil
	})
	g.Go(func() error {
		current, err := user.Current()
		if err != nil {
			log.Warn().Err(err).Msg("failed to read current user")
			return nil
		}
		snap.Username = current.Username
		return nil
	})
	g.Go(func() error {
		snap.IPAddress = helpers.GetLocalIP()
		if snap.IPAddress == "" {
			log.Debug().Msg("no local ip address found")
		}
		return nil
	})
	_ = g.Wait()

	return snap
}

// FormatUptime renders an uptime as short human units, e.g. "3d 4h 12m".
func FormatUptime(d time.Duration) string {
	if d <= 0 {
		return "unknown"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", minutes))

	return strings.Join(parts, " ")
}

// Lines renders the snapshot as label/value pairs in display order. Empty
// values fall back to "unknown" so menu entries keep a stable shape.
func (s Snapshot) Lines() [][2]string {
	orUnknown := func(v string) string {
		if v == "" {
			return "unknown"
		}
		return v
	}

	osName := s.OS
	if s.OSVersion != "" {
		osName = strings.TrimSpace(osName + " " + s.OSVersion)
	}

	return [][2]string{
		{"Computer", orUnknown(s.Hostname)},
		{"User", orUnknown(s.Username)},
		{"OS", orUnknown(osName)},
		{"IP Address", orUnknown(s.IPAddress)},
		{"Uptime", FormatUptime(s.Uptime)},
		{"Device ID", orUnknown(s.DeviceID)},
	}
}

// String renders the snapshot as copyable text, one field per line.
func (s Snapshot) String() string {
	var sb strings.Builder
	for _, line := range s.Lines() {
		sb.WriteString(line[0])
		sb.WriteString(": ")
		sb.WriteString(line[1])
		sb.WriteString("\n")
	}
	return sb.String()
}
