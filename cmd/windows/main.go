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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/InfoBoxProject/infobox-core/internal/telemetry"
	"github.com/InfoBoxProject/infobox-core/pkg/assets"
	"github.com/InfoBoxProject/infobox-core/pkg/cli"
	"github.com/InfoBoxProject/infobox-core/pkg/config"
	"github.com/InfoBoxProject/infobox-core/pkg/config/migrate"
	"github.com/InfoBoxProject/infobox-core/pkg/database/historydb"
	"github.com/InfoBoxProject/infobox-core/pkg/fixes"
	"github.com/InfoBoxProject/infobox-core/pkg/helpers"
	"github.com/InfoBoxProject/infobox-core/pkg/runner"
	tray "github.com/InfoBoxProject/infobox-core/pkg/ui/systray"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	flags := cli.SetupFlags()
	flags.Pre()

	defaults := config.BaseDefaults
	iniPath := filepath.Join(helpers.ExeDir(), config.LegacyIniFile)
	if migrate.Required(iniPath, filepath.Join(helpers.ConfigDir(), config.CfgFile)) {
		migrated, err := migrate.IniToToml(iniPath)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error migrating config: %v\n", err)
			os.Exit(1)
		}
		defaults = migrated
	}

	cfg := cli.Setup(defaults, []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}})
	if *flags.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	defer telemetry.Close()

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var history fixes.HistoryRecorder
	if cfg.HistoryEnabled() {
		db, err := historydb.OpenHistoryDB(ctx, helpers.DataDir())
		if err != nil {
			log.Error().Err(err).Msg("failed to open history database")
		} else {
			defer func() { _ = db.Close() }()
			history = db

			removed, err := db.CleanupHistory(cfg.HistoryRetentionDays())
			if err != nil {
				log.Warn().Err(err).Msg("history cleanup failed")
			} else if removed > 0 {
				log.Info().Int64("removed", removed).Msg("cleaned up old fix runs")
			}
		}
	}

	catalog := fixes.NewCatalog(
		cfg, filepath.Join(helpers.ConfigDir(), config.FixScriptsDir), nil)
	dispatcher := fixes.NewDispatcher(runner.Options{}, history)

	flags.Post(catalog, dispatcher)

	go func() {
		<-ctx.Done()
		tray.Quit()
	}()

	deps := &tray.Deps{Cfg: cfg, Catalog: catalog, Dispatcher: dispatcher}
	tray.Run(deps, assets.TrayIconIco, func() {
		telemetry.Close()
		os.Exit(0)
	})
}
