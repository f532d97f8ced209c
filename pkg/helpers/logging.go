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
	"io"
	"os"
	"path/filepath"

	"github.com/InfoBoxProject/infobox-core/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// LogWriter returns the rotating file writer backing the application log.
func LogWriter() io.Writer {
	return &lumberjack.Logger{
		Filename:   filepath.Join(DataDir(), config.LogFile),
		MaxSize:    1,
		MaxBackups: 2,
	}
}

// LogPath returns the location of the current application log file.
func LogPath() string {
	return filepath.Join(DataDir(), config.LogFile)
}

// InitLogging routes the global logger to a size-capped rotating log file in
// the data directory, plus any extra writers (e.g. a console writer for
// foreground runs).
func InitLogging(writers []io.Writer) error {
	logDir := DataDir()
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return err
	}

	logWriters := []io.Writer{LogWriter()}

	if len(writers) > 0 {
		logWriters = append(logWriters, writers...)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	log.Logger = log.Output(io.MultiWriter(logWriters...)).
		With().Timestamp().Caller().Logger()

	return nil
}
