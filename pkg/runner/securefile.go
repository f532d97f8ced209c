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
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// createSecureFile creates path exclusively and restricts access to the
// current user. It is used for elevated-run relay files, which can contain
// script output that other local users must not be able to read.
//
// A failure to restrict permissions is logged and swallowed: the relay is a
// best-effort confidentiality measure, not a correctness requirement, and a
// run with default permissions beats no run at all.
func createSecureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create relay file directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create relay file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close relay file: %w", err)
	}

	if err := restrictToCurrentUser(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to restrict relay file permissions")
	}
	return nil
}
