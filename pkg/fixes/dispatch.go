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
	"context"
	"time"

	"github.com/InfoBoxProject/infobox-core/pkg/database"
	"github.com/InfoBoxProject/infobox-core/pkg/helpers/syncutil"
	"github.com/InfoBoxProject/infobox-core/pkg/runner"
	"github.com/rs/zerolog/log"
)

// HistoryRecorder receives one record per completed fix run.
type HistoryRecorder interface {
	AddFixRun(entry database.FixRun) error
}

// Dispatcher runs fixes through the script runner and records outcomes.
// Runs are serialized so two fixes never fight over the same component.
type Dispatcher struct {
	history HistoryRecorder
	base    runner.Options
	mu      syncutil.Mutex
}

// NewDispatcher builds a dispatcher. base supplies runner configuration;
// a per-fix timeout overrides base.Timeout for that run. Pass nil for
// history to disable recording.
//
//nolint:gocritic // options copied, dispatcher owns its configuration
func NewDispatcher(base runner.Options, history HistoryRecorder) *Dispatcher {
	return &Dispatcher{base: base, history: history}
}

// Run executes fix and records the outcome. Elevated fixes go through the
// UAC relay path and produce no live output; standard fixes stream lines
// to onLine.
//
//nolint:gocritic // fix copied, catalog entries are small
func (d *Dispatcher) Run(ctx context.Context, fix Fix, onLine runner.OutputFunc) runner.Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	opts := d.base
	if fix.Timeout > 0 {
		opts.Timeout = fix.Timeout
	}
	r := runner.New(opts)

	log.Info().Str("fix", fix.ID).Bool("admin", fix.Admin).Msg("running fix")
	started := time.Now()

	var res runner.Result
	if fix.Admin {
		res = r.RunElevated(ctx, fix.Script)
	} else {
		res = r.Run(ctx, fix.Script, onLine)
	}

	d.record(fix, res, started)
	return res
}

//nolint:gocritic // structs copied for DB insertion
func (d *Dispatcher) record(fix Fix, res runner.Result, started time.Time) {
	if d.history == nil {
		return
	}

	output := res.Output
	if res.Error != "" {
		if output != "" {
			output += "\n"
		}
		output += res.Error
	}
	entry := database.FixRun{
		Time:     started,
		FixID:    fix.ID,
		Success:  res.Success,
		ExitCode: res.ExitCode,
		Duration: res.Duration.Milliseconds(),
		Admin:    fix.Admin,
		Output:   output,
	}
	if err := d.history.AddFixRun(entry); err != nil {
		log.Error().Err(err).Str("fix", fix.ID).Msg("failed to record fix run")
	}
}
