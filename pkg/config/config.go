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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/InfoBoxProject/infobox-core/pkg/helpers/syncutil"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const SchemaVersion = 1

// Values is the full on-disk configuration.
type Values struct {
	UI           UI         `toml:"ui,omitempty"`
	Service      Service    `toml:"service,omitempty"`
	History      History    `toml:"history,omitempty"`
	Fixes        []FixEntry `toml:"fixes,omitempty"`
	ConfigSchema int        `toml:"config_schema"`
	DebugLogging bool       `toml:"debug_logging"`
}

// UI configures the tray presentation.
type UI struct {
	Title           string `toml:"title,omitempty"`
	ShowNetworkInfo bool   `toml:"show_network_info"`
	ShowDeviceInfo  bool   `toml:"show_device_info"`
}

// Service holds machine identity and telemetry settings.
type Service struct {
	DeviceID       string `toml:"device_id,omitempty"`
	ErrorReporting bool   `toml:"error_reporting"`
}

// History configures the fix-run history database.
type History struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	UI: UI{
		Title:           AppTitle,
		ShowNetworkInfo: true,
		ShowDeviceInfo:  true,
	},
	History: History{
		Enabled:       true,
		RetentionDays: 90,
	},
}

// Instance is a live configuration handle, safe for concurrent use.
type Instance struct {
	appPath  string
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		mu:       syncutil.RWMutex{},
		appPath:  os.Getenv(AppEnv),
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	if _, err := os.Stat(c.cfgPath); err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	newVals.Fixes = validFixes(newVals.Fixes)

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	// set current schema version
	c.vals.ConfigSchema = SchemaVersion

	// generate a device id if one doesn't exist
	if c.vals.Service.DeviceID == "" {
		newID := uuid.New().String()
		c.vals.Service.DeviceID = newID
		log.Info().Msgf("generated new device id: %s", newID)
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) Title() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.UI.Title == "" {
		return AppTitle
	}
	return c.vals.UI.Title
}

func (c *Instance) ShowNetworkInfo() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.UI.ShowNetworkInfo
}

func (c *Instance) ShowDeviceInfo() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.UI.ShowDeviceInfo
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) DeviceID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.DeviceID
}

func (c *Instance) ErrorReporting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.ErrorReporting
}

func (c *Instance) HistoryEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.History.Enabled
}

func (c *Instance) HistoryRetentionDays() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.History.RetentionDays
}
