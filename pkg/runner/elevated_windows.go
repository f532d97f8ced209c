//go:build windows

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

package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
)

// relayFlushDelay gives the filesystem a moment to flush the relay file
// after the elevated process exits, before it is read back.
const relayFlushDelay = 500 * time.Millisecond

var (
	modshell32          = windows.NewLazySystemDLL("shell32.dll")
	procShellExecuteExW = modshell32.NewProc("ShellExecuteExW")
)

const (
	seeMaskNoCloseProcess = 0x00000040
	seeMaskNoAsync        = 0x00000100
)

// shellExecuteInfo mirrors SHELLEXECUTEINFOW.
type shellExecuteInfo struct {
	cbSize         uint32
	fMask          uint32
	hwnd           windows.Handle
	lpVerb         *uint16
	lpFile         *uint16
	lpParameters   *uint16
	lpDirectory    *uint16
	nShow          int32
	hInstApp       windows.Handle
	lpIDList       uintptr
	lpClass        *uint16
	hkeyClass      windows.Handle
	dwHotKey       uint32
	hIconOrMonitor windows.Handle
	hProcess       windows.Handle
}

// RunElevated executes script with administrator privileges via a UAC
// prompt. The elevated process runs in a different security context and its
// streams cannot be redirected, so output is relayed through an
// ACL-hardened temp file that is read back and deleted after exit. Stderr is
// folded into Result.Output.
//
// ctx is only honored up to process start: once the UAC prompt is shown the
// call blocks until the user responds and the script finishes. A declined
// prompt is reported as its own outcome, not a generic failure.
func (r *Runner) RunElevated(ctx context.Context, script string) Result {
	start := r.clock.Now()
	res := r.runElevated(ctx, script, start)
	log.Info().
		Str("mode", "admin").
		Int("exitCode", res.ExitCode).
		Bool("success", res.Success).
		Dur("duration", res.Duration).
		Msg("command finished")
	return res
}

func (r *Runner) runElevated(ctx context.Context, script string, start time.Time) Result {
	if err := ctx.Err(); err != nil {
		return abortResult(ReasonCancelled, "", r.clock.Since(start))
	}

	relayPath := filepath.Join(r.tempDir, "infobox-"+uuid.NewString()+".out")
	if err := createSecureFile(relayPath); err != nil {
		log.Error().Err(err).Msg("failed to create relay file")
		return abortResult(err.Error(), "", r.clock.Since(start))
	}
	defer func() {
		if err := os.Remove(relayPath); err != nil && !os.IsNotExist(err) {
			log.Debug().Err(err).Str("path", relayPath).Msg("failed to remove relay file")
		}
	}()

	args, err := elevatedArgs(script, relayPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode elevated command")
		return abortResult(err.Error(), "", r.clock.Since(start))
	}

	exitCode, err := shellExecuteWait("runas", InterpreterName, strings.Join(args, " "))
	if err != nil {
		if errors.Is(err, windows.ERROR_CANCELLED) {
			return abortResult(ReasonElevationDenied, "", r.clock.Since(start))
		}
		log.Error().Err(err).Msg("failed to run elevated command")
		return abortResult(err.Error(), "", r.clock.Since(start))
	}

	r.clock.Sleep(relayFlushDelay)

	data, readErr := os.ReadFile(relayPath)
	if readErr != nil {
		log.Warn().Err(readErr).Msg("failed to read relay file")
	}

	return exitResult(exitCode, string(data), "", r.clock.Since(start))
}

// shellExecuteWait starts file with the given verb and parameter string,
// waits for the resulting process to exit and returns its exit code.
func shellExecuteWait(verb, file, params string) (int, error) {
	verbPtr, err := windows.UTF16PtrFromString(verb)
	if err != nil {
		return ExitCodeNone, fmt.Errorf("invalid verb: %w", err)
	}
	filePtr, err := windows.UTF16PtrFromString(file)
	if err != nil {
		return ExitCodeNone, fmt.Errorf("invalid file: %w", err)
	}
	paramsPtr, err := windows.UTF16PtrFromString(params)
	if err != nil {
		return ExitCodeNone, fmt.Errorf("invalid parameters: %w", err)
	}

	info := shellExecuteInfo{
		fMask:        seeMaskNoCloseProcess | seeMaskNoAsync,
		lpVerb:       verbPtr,
		lpFile:       filePtr,
		lpParameters: paramsPtr,
		nShow:        int32(windows.SW_HIDE),
	}
	info.cbSize = uint32(unsafe.Sizeof(info))

	ok, _, callErr := procShellExecuteExW.Call(uintptr(unsafe.Pointer(&info)))
	if ok == 0 {
		// callErr carries GetLastError, ERROR_CANCELLED for a declined
		// UAC prompt.
		return ExitCodeNone, fmt.Errorf("ShellExecuteEx failed: %w", callErr)
	}
	if info.hProcess == 0 {
		// No process handle means the shell reused an existing process;
		// nothing to wait on.
		return 0, nil
	}
	defer func() { _ = windows.CloseHandle(info.hProcess) }()

	if _, err := windows.WaitForSingleObject(info.hProcess, windows.INFINITE); err != nil {
		return ExitCodeNone, fmt.Errorf("failed to wait for elevated process: %w", err)
	}

	var exitCode uint32
	if err := windows.GetExitCodeProcess(info.hProcess, &exitCode); err != nil {
		return ExitCodeNone, fmt.Errorf("failed to get elevated process exit code: %w", err)
	}
	return int(int32(exitCode)), nil
}
