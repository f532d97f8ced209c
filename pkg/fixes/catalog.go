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

// Package fixes resolves the self-service fix catalog and dispatches fix
// runs to the script runner.
package fixes

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/InfoBoxProject/infobox-core/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Fix is one runnable action shown in the tray menu.
type Fix struct {
	ID          string
	Name        string
	Description string
	Script      string
	Timeout     time.Duration
	Admin       bool
}

// Catalog merges fixes from three sources, in priority order: built-in
// fixes, entries from the config file, and scripts dropped into the
// fixes.d directory. The first source to claim an ID wins.
type Catalog struct {
	fs         afero.Fs
	cfg        *config.Instance
	scriptsDir string
}

// NewCatalog builds a catalog over cfg and the fixes.d directory at
// scriptsDir. Pass nil for fs to read the real filesystem.
func NewCatalog(cfg *config.Instance, scriptsDir string, fs afero.Fs) *Catalog {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Catalog{fs: fs, cfg: cfg, scriptsDir: scriptsDir}
}

// List resolves the current catalog. Config and script sources are re-read
// on every call so edits show up without a restart.
func (c *Catalog) List() []Fix {
	seen := make(map[string]struct{})
	list := make([]Fix, 0, 8)

	add := func(fix Fix, source string) {
		if _, ok := seen[fix.ID]; ok {
			log.Warn().
				Str("id", fix.ID).
				Str("source", source).
				Msg("duplicate fix id, keeping earlier entry")
			return
		}
		seen[fix.ID] = struct{}{}
		list = append(list, fix)
	}

	for _, fix := range builtinFixes() {
		add(fix, "builtin")
	}
	for _, entry := range c.cfg.Fixes() {
		add(fromConfigEntry(entry), "config")
	}

	scripts, err := c.loadScriptDir()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load fix scripts directory")
	}
	for _, fix := range scripts {
		add(fix, "scripts")
	}

	return list
}

// Lookup finds a fix by ID in the resolved catalog.
func (c *Catalog) Lookup(id string) (Fix, bool) {
	for _, fix := range c.List() {
		if fix.ID == id {
			return fix, true
		}
	}
	return Fix{}, false
}

//nolint:gocritic // entry copied, catalog entries are small
func fromConfigEntry(entry config.FixEntry) Fix {
	name := entry.Name
	if name == "" {
		name = entry.ID
	}
	return Fix{
		ID:          entry.ID,
		Name:        name,
		Description: entry.Description,
		Script:      entry.Script,
		Admin:       entry.Admin,
		Timeout:     time.Duration(entry.TimeoutSeconds) * time.Second,
	}
}

// loadScriptDir turns every .ps1 file in the fixes.d directory into a fix.
// The filename without extension becomes both ID and display name. A
// leading "admin." prefix marks the script as requiring elevation.
func (c *Catalog) loadScriptDir() ([]Fix, error) {
	entries, err := afero.ReadDir(c.fs, c.scriptsDir)
	if err != nil {
		if exists, _ := afero.DirExists(c.fs, c.scriptsDir); !exists {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read scripts directory: %w", err)
	}

	fixes := make([]Fix, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".ps1") {
			continue
		}

		path := filepath.Join(c.scriptsDir, entry.Name())
		data, err := afero.ReadFile(c.fs, path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to read fix script")
			continue
		}
		script := strings.TrimSpace(string(data))
		if script == "" {
			log.Warn().Str("path", path).Msg("skipping empty fix script")
			continue
		}

		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		admin := false
		if rest, ok := strings.CutPrefix(id, "admin."); ok && rest != "" {
			id = rest
			admin = true
		}

		fixes = append(fixes, Fix{
			ID:     id,
			Name:   id,
			Script: script,
			Admin:  admin,
		})
	}

	return fixes, nil
}
