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

// Package cli implements the command line startup flow shared by the
// platform entrypoints.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/InfoBoxProject/infobox-core/internal/telemetry"
	"github.com/InfoBoxProject/infobox-core/pkg/config"
	"github.com/InfoBoxProject/infobox-core/pkg/fixes"
	"github.com/InfoBoxProject/infobox-core/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	RunFix    *string
	Version   *bool
	ListFixes *bool
	Debug     *bool
}

// SetupFlags defines all common CLI flags between platforms.
func SetupFlags() *Flags {
	flags := &Flags{
		RunFix: flag.String(
			"run-fix",
			"",
			"run a fix by id and exit",
		),
		ListFixes: flag.Bool(
			"list-fixes",
			false,
			"list available fixes and exit",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
		Debug: flag.Bool(
			"debug",
			false,
			"force debug logging",
		),
	}
	flag.Parse()
	return flags
}

// Pre handles flags that need no config or logging.
func (f *Flags) Pre() {
	if *f.Version {
		fmt.Printf("%s v%s\n", config.AppTitle, config.AppVersion)
		os.Exit(0)
	}
}

// Post handles flags that run against the loaded fix catalog. It does not
// return when one of them was given.
func (f *Flags) Post(catalog *fixes.Catalog, dispatcher *fixes.Dispatcher) {
	switch {
	case *f.ListFixes:
		for _, fix := range catalog.List() {
			marker := ""
			if fix.Admin {
				marker = " (admin)"
			}
			fmt.Printf("%s\t%s%s\n", fix.ID, fix.Name, marker)
		}
		os.Exit(0)
	case *f.RunFix != "":
		fix, ok := catalog.Lookup(*f.RunFix)
		if !ok {
			_, _ = fmt.Fprintf(os.Stderr, "Unknown fix: %s\n", *f.RunFix)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(
			context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		res := dispatcher.Run(ctx, fix, func(line string) {
			fmt.Println(line)
		})
		if !res.Success {
			if res.Error != "" {
				_, _ = fmt.Fprintln(os.Stderr, res.Error)
			}
			os.Exit(1)
		}
		os.Exit(0)
	}
}

// Setup initializes logging, the user config and optional error reporting.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaultConfig config.Values, writers []io.Writer) *config.Instance {
	if err := helpers.InitLogging(writers); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Initialize error reporting (opt-in)
	if err := telemetry.Init(
		cfg.ErrorReporting(),
		cfg.DeviceID(),
		config.AppVersion,
	); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg
}
