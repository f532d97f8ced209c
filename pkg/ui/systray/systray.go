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

// Package systray renders the tray icon and menu: the information section,
// the fix actions, and the support entries.
package systray

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"fyne.io/systray"
	"github.com/InfoBoxProject/infobox-core/pkg/config"
	"github.com/InfoBoxProject/infobox-core/pkg/fixes"
	"github.com/InfoBoxProject/infobox-core/pkg/helpers"
	"github.com/InfoBoxProject/infobox-core/pkg/helpers/syncutil"
	"github.com/InfoBoxProject/infobox-core/pkg/info"
	"github.com/InfoBoxProject/infobox-core/pkg/runner"
	"github.com/nixinwang/dialog"
	"github.com/rs/zerolog/log"
	"golang.design/x/clipboard"
)

// resultPreviewLimit caps how much command output a result dialog shows.
const resultPreviewLimit = 1200

// Deps carries everything the tray menu needs to operate.
type Deps struct {
	Cfg        *config.Instance
	Catalog    *fixes.Catalog
	Dispatcher *fixes.Dispatcher
}

func openCommand() string {
	switch runtime.GOOS {
	case "windows":
		return "explorer"
	case "darwin":
		return "open"
	default:
		return "xdg-open"
	}
}

func onReady(deps *Deps, icon []byte) func() {
	return func() {
		openCmd := openCommand()
		title := deps.Cfg.Title()

		systray.SetIcon(icon)
		if runtime.GOOS != "darwin" {
			systray.SetTitle(title)
		}
		systray.SetTooltip(title)

		var snapMu syncutil.RWMutex
		snap := info.Collect(deps.Cfg.DeviceID())
		currentSnap := func() info.Snapshot {
			snapMu.RLock()
			defer snapMu.RUnlock()
			return snap
		}

		infoItems := make([]*systray.MenuItem, 0, len(snap.Lines()))
		for _, line := range snap.Lines() {
			item := systray.AddMenuItem(line[0]+": "+line[1], "Copy to clipboard")
			infoItems = append(infoItems, item)
		}
		mCopyAll := systray.AddMenuItem("Copy All Info", "Copy all details to clipboard")
		systray.AddSeparator()

		fixList := deps.Catalog.List()
		fixItems := make([]*systray.MenuItem, 0, len(fixList))
		for _, fix := range fixList {
			name := fix.Name
			if fix.Admin {
				name += " (admin)"
			}
			fixItems = append(fixItems, systray.AddMenuItem(name, fix.Description))
		}
		if len(fixList) > 0 {
			systray.AddSeparator()
		}

		mEditConfig := systray.AddMenuItem("Edit Config", "Edit the config file")
		mOpenLog := systray.AddMenuItem("View Log", "View the log file")

		systray.AddSeparator()
		mVersion := systray.AddMenuItem("Version "+config.AppVersion, "")
		mVersion.Disable()
		mAbout := systray.AddMenuItem("About "+title, "")

		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Close the information box")

		// Funnel every info/fix click onto one channel so the main loop
		// below stays a flat select.
		type click struct {
			kind  string
			index int
		}
		clicks := make(chan click)
		for i, item := range infoItems {
			go func(i int, ch <-chan struct{}) {
				for range ch {
					clicks <- click{kind: "info", index: i}
				}
			}(i, item.ClickedCh)
		}
		for i, item := range fixItems {
			go func(i int, ch <-chan struct{}) {
				for range ch {
					clicks <- click{kind: "fix", index: i}
				}
			}(i, item.ClickedCh)
		}

		// Keep the information section current while the menu is open.
		go func() {
			for range time.Tick(config.InfoRefreshDelay) {
				fresh := info.Collect(deps.Cfg.DeviceID())
				snapMu.Lock()
				snap = fresh
				snapMu.Unlock()
				for i, line := range fresh.Lines() {
					if i < len(infoItems) {
						infoItems[i].SetTitle(line[0] + ": " + line[1])
					}
				}
			}
		}()

		go func() {
			for {
				select {
				case c := <-clicks:
					switch c.kind {
					case "info":
						copyToClipboard(currentSnap().Lines()[c.index][1])
					case "fix":
						go runFix(deps, fixList[c.index])
					}
				case <-mCopyAll.ClickedCh:
					copyToClipboard(currentSnap().String())
				case <-mOpenLog.ClickedCh:
					err := exec.Command(openCmd, helpers.LogPath()).Start()
					if err != nil {
						log.Error().Err(err).Msg("failed to open log file")
					}
				case <-mEditConfig.ClickedCh:
					err := exec.Command(openCmd, deps.Cfg.Path()).Start()
					if err != nil {
						log.Error().Err(err).Msg("failed to open config file")
					}
				case <-mAbout.ClickedCh:
					msg := "%s\n" +
						"Version v%s\n\n" +
						"© %d The InfoBox Project Contributors\n" +
						"License: GPLv3"
					dialog.Message(msg, title, config.AppVersion, time.Now().Year()).
						Title("About " + title).Info()
				case <-mQuit.ClickedCh:
					systray.Quit()
				}
			}
		}()
	}
}

func copyToClipboard(text string) {
	if err := clipboard.Init(); err != nil {
		log.Error().Err(err).Msg("failed to initialize clipboard")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
}

//nolint:gocritic // fix copied, catalog entries are small
func runFix(deps *Deps, fix fixes.Fix) {
	res := deps.Dispatcher.Run(context.Background(), fix, nil)
	showResult(fix, res)
}

//nolint:gocritic // result copied for display only
func showResult(fix fixes.Fix, res runner.Result) {
	preview := res.Output
	if res.Error != "" {
		preview = res.Error
	}
	preview = strings.TrimSpace(preview)
	if len(preview) > resultPreviewLimit {
		preview = preview[:resultPreviewLimit] + "…"
	}

	if res.Success {
		msg := fix.Name + " completed."
		if preview != "" {
			msg += "\n\n" + preview
		}
		dialog.Message("%s", msg).Title(fix.Name).Info()
		return
	}

	msg := fix.Name + " failed."
	if res.ExitCode != runner.ExitCodeNone {
		msg += fmt.Sprintf(" (exit code %d)", res.ExitCode)
	}
	if preview != "" {
		msg += "\n\n" + preview
	}
	dialog.Message("%s", msg).Title(fix.Name).Error()
}

// Run shows the tray icon and blocks until Quit is chosen. exit runs after
// the tray loop stops.
func Run(deps *Deps, icon []byte, exit func()) {
	systray.Run(onReady(deps, icon), exit)
}

// Quit stops the tray loop from outside, e.g. on SIGTERM.
func Quit() {
	systray.Quit()
}
