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
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// FixEntry is one config-defined self-service fix script.
type FixEntry struct {
	ID string `toml:"id" validate:"required,printascii,excludes= "`
	// Name is optional, consumers fall back to the ID for display.
	Name        string `toml:"name,omitempty"`
	Description string `toml:"description,omitempty"`
	Script      string `toml:"script" validate:"required"`
	// TimeoutSeconds overrides the default run timeout when positive.
	TimeoutSeconds int `toml:"timeout_seconds,omitempty" validate:"gte=0"`
	// Admin runs the script elevated through a UAC prompt.
	Admin bool `toml:"admin"`
}

var fixValidate = validator.New(validator.WithRequiredStructEnabled())

// validFixes filters out malformed entries so one bad config stanza doesn't
// take the whole catalog down.
func validFixes(entries []FixEntry) []FixEntry {
	valid := make([]FixEntry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if err := fixValidate.Struct(entry); err != nil {
			log.Warn().Err(err).Str("id", entry.ID).Msg("ignoring invalid fix entry")
			continue
		}
		if seen[entry.ID] {
			log.Warn().Str("id", entry.ID).Msg("ignoring duplicate fix entry")
			continue
		}
		seen[entry.ID] = true
		valid = append(valid, entry)
	}
	return valid
}

// Fixes returns the validated config-defined fix entries.
func (c *Instance) Fixes() []FixEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]FixEntry(nil), c.vals.Fixes...)
}

// LookupFix finds a config-defined fix by id.
func (c *Instance) LookupFix(id string) (FixEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, entry := range c.vals.Fixes {
		if entry.ID == id {
			return entry, true
		}
	}
	return FixEntry{}, false
}
