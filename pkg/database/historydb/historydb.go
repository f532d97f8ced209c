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

// Package historydb stores the record of fix actions run on this machine.
package historydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/InfoBoxProject/infobox-core/pkg/config"
	"github.com/InfoBoxProject/infobox-core/pkg/database"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("HistoryDB is not connected")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

type HistoryDB struct {
	sql     *sql.DB
	ctx     context.Context
	dataDir string
}

// OpenHistoryDB opens (creating if necessary) the fix run history database
// under dataDir.
func OpenHistoryDB(ctx context.Context, dataDir string) (*HistoryDB, error) {
	db := &HistoryDB{sql: nil, ctx: ctx, dataDir: dataDir}
	err := db.Open()
	return db, err
}

func (db *HistoryDB) Open() error {
	exists := true
	dbPath := db.GetDBPath()
	_, err := os.Stat(dbPath)
	if err != nil {
		exists = false
		mkdirErr := os.MkdirAll(filepath.Dir(dbPath), 0o750)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	if !exists {
		return db.Allocate()
	}
	return nil
}

func (db *HistoryDB) GetDBPath() string {
	return filepath.Join(db.dataDir, config.HistoryDbFile)
}

func (db *HistoryDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *HistoryDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *HistoryDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *HistoryDB) Truncate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(db.ctx, db.sql)
}

func (db *HistoryDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

// AddFixRun records one execution of a fix action. Output is truncated to
// keep pathological commands from bloating the database.
//
//nolint:gocritic // struct passed for DB insertion
func (db *HistoryDB) AddFixRun(entry database.FixRun) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAddFixRun(db.ctx, db.sql, entry)
}

// GetFixRuns returns a page of fix runs, newest first. Pass 0 for the first
// page, then the last DBID of the previous page for the next one.
func (db *HistoryDB) GetFixRuns(lastID int64) ([]database.FixRun, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlGetFixRuns(db.ctx, db.sql, lastID)
}

// CleanupHistory deletes fix runs older than retentionDays and returns the
// number of rows removed.
func (db *HistoryDB) CleanupHistory(retentionDays int) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlCleanupHistory(db.ctx, db.sql, retentionDays)
}

func (db *HistoryDB) Close() error {
	if db.sql == nil {
		return nil
	}
	if err := db.sql.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
