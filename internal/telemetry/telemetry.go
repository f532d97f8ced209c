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

// Package telemetry provides opt-in error reporting via Sentry.
// All PII is stripped before transmission.
package telemetry

import (
	"fmt"
	"net/http"
	"regexp"
	"runtime"
	"sync"
	"time"

	"github.com/InfoBoxProject/infobox-core/pkg/helpers"
	"github.com/getsentry/sentry-go"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	flushTimeout = 2 * time.Second
	// sentryDSN contains the public key needed for Sentry to authenticate the envelope.
	sentryDSN = "https://f1c9b4d0e2aa83765c10e84d5b7f2931@o4512209837146112.ingest.de.sentry.io/4512209842131456"
	// tunnelHost is where all error reports are sent.
	tunnelHost = "errors.infoboxproject.org"
)

var (
	enabled      bool
	sentryWriter *sentryzerolog.Writer
	closeOnce    sync.Once

	// Patterns to strip usernames from file paths
	homePathRe    = regexp.MustCompile(`(?i)/home/[^/]+/`)
	usersPathRe   = regexp.MustCompile(`(?i)/Users/[^/]+/`)
	windowsUserRe = regexp.MustCompile(`(?i)[a-zA-Z]:\\Users\\[^\\]+\\`)
)

// tunnelTransport rewrites Sentry API requests to go through the tunnel.
type tunnelTransport struct {
	inner http.RoundTripper
}

func (t *tunnelTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "https"
	req.URL.Host = tunnelHost
	req.URL.Path = "/"
	req.Host = tunnelHost

	//nolint:wrapcheck // RoundTripper interface requires unwrapped error
	return t.inner.RoundTrip(req)
}

// Init initializes Sentry error reporting with zerolog integration.
// If reportingEnabled is false, telemetry remains disabled.
func Init(reportingEnabled bool, deviceID, appVersion string) error {
	if !reportingEnabled {
		log.Debug().Msg("error reporting disabled")
		return nil
	}

	httpClient := &http.Client{
		Transport: &tunnelTransport{inner: http.DefaultTransport},
		Timeout:   30 * time.Second,
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              sentryDSN,
		Release:          "infobox-core@" + appVersion,
		Environment:      runtime.GOOS,
		AttachStacktrace: true,
		// Privacy: explicitly disable PII collection
		SendDefaultPII: false,
		ServerName:     "",
		MaxBreadcrumbs: 0,
		HTTPClient:     httpClient,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return sanitizeEvent(event)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{ID: deviceID})
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
	})

	sentryWriter, err = sentryzerolog.NewWithHub(sentry.CurrentHub(), sentryzerolog.Options{
		Levels:          []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
		FlushTimeout:    flushTimeout,
		WithBreadcrumbs: false,
	})
	if err != nil {
		return fmt.Errorf("failed to create sentry zerolog writer: %w", err)
	}

	// Add the Sentry writer alongside the existing log file writer.
	log.Logger = log.Output(zerolog.MultiLevelWriter(
		helpers.LogWriter(),
		sentryWriter,
	)).With().Timestamp().Caller().Logger()

	enabled = true
	log.Info().Msg("error reporting enabled")
	return nil
}

// Close flushes pending events and shuts down Sentry.
// Safe to call multiple times.
func Close() {
	if !enabled {
		return
	}
	closeOnce.Do(func() {
		_ = sentryWriter.Close()
		sentry.Flush(flushTimeout)
	})
}

// Flush ensures all pending events are sent to Sentry.
// Call this before os.Exit to ensure error events are transmitted.
func Flush() {
	if !enabled {
		return
	}
	sentry.Flush(flushTimeout)
}

// Enabled returns whether telemetry is enabled.
func Enabled() bool {
	return enabled
}

// sanitizeEvent removes PII from Sentry events before sending.
func sanitizeEvent(event *sentry.Event) *sentry.Event {
	// SDK may populate the server name (hostname) despite ServerName: ""
	event.ServerName = ""

	for i := range event.Exception {
		if event.Exception[i].Stacktrace != nil {
			for j := range event.Exception[i].Stacktrace.Frames {
				frame := &event.Exception[i].Stacktrace.Frames[j]
				frame.AbsPath = sanitizePath(frame.AbsPath)
				frame.Filename = sanitizePath(frame.Filename)
			}
		}
	}

	event.Message = sanitizePath(event.Message)

	for k, v := range event.Extra {
		if s, ok := v.(string); ok {
			event.Extra[k] = sanitizePath(s)
		}
	}

	return event
}

// sanitizePath removes usernames from file paths.
func sanitizePath(path string) string {
	if path == "" {
		return path
	}

	result := homePathRe.ReplaceAllString(path, "/home/<user>/")
	result = usersPathRe.ReplaceAllString(result, "/Users/<user>/")
	result = windowsUserRe.ReplaceAllString(result, "C:\\Users\\<user>\\")

	return result
}
