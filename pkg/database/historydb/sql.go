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

package historydb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/InfoBoxProject/infobox-core/pkg/database"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// maxOutputBytes caps the stored output of a single fix run.
const maxOutputBytes = 8192

const pageSize = 25

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run history database migrations: %w", err)
	}
	return nil
}

func sqlAllocate(db *sql.DB) error {
	return sqlMigrateUp(db)
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from FixRuns;
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to truncate database: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

//nolint:gocritic // struct passed for DB insertion
func sqlAddFixRun(ctx context.Context, db *sql.DB, entry database.FixRun) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into FixRuns(
			Time, FixID, Success, ExitCode, DurationMs, Admin, Output
		) values (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare fix run insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	output := entry.Output
	if len(output) > maxOutputBytes {
		output = output[:maxOutputBytes]
	}

	_, err = stmt.ExecContext(ctx,
		entry.Time.Unix(),
		entry.FixID,
		entry.Success,
		entry.ExitCode,
		entry.Duration,
		entry.Admin,
		output,
	)
	if err != nil {
		return fmt.Errorf("failed to execute fix run insert: %w", err)
	}
	return nil
}

func sqlGetFixRuns(ctx context.Context, db *sql.DB, lastID int64) ([]database.FixRun, error) {
	list := make([]database.FixRun, 0, pageSize)

	// Keyset pagination on DBID, newest rows first.
	query := `
		select DBID, Time, FixID, Success, ExitCode, DurationMs, Admin, Output
		from FixRuns
		where (? = 0 or DBID < ?)
		order by DBID desc
		limit ?;
	`
	rows, err := db.QueryContext(ctx, query, lastID, lastID, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query fix runs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		var row database.FixRun
		var unixTime int64
		err := rows.Scan(
			&row.DBID,
			&unixTime,
			&row.FixID,
			&row.Success,
			&row.ExitCode,
			&row.Duration,
			&row.Admin,
			&row.Output,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fix run row: %w", err)
		}
		row.Time = time.Unix(unixTime, 0)
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading fix run rows: %w", err)
	}

	return list, nil
}

func sqlCleanupHistory(ctx context.Context, db *sql.DB, retentionDays int) (int64, error) {
	cutoffTime := time.Now().AddDate(0, 0, -retentionDays).Unix()

	stmt, err := db.PrepareContext(ctx, `DELETE FROM FixRuns WHERE Time < ?;`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare history cleanup statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	result, err := stmt.ExecContext(ctx, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("failed to execute history cleanup: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	// Reclaim disk space after a real cleanup.
	if rowsAffected > 0 {
		if err := sqlVacuum(ctx, db); err != nil {
			return rowsAffected, fmt.Errorf("cleanup succeeded but vacuum failed: %w", err)
		}
	}

	return rowsAffected, nil
}
