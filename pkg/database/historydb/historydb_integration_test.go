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
	"testing"
	"time"

	"github.com/InfoBoxProject/infobox-core/pkg/config"
	"github.com/InfoBoxProject/infobox-core/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTempHistoryDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := OpenHistoryDB(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestHistoryDB_OpenClose_Integration(t *testing.T) {
	db := setupTempHistoryDB(t)

	require.NoError(t, db.Truncate())
	require.NoError(t, db.Close())

	err := db.Truncate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is closed")
}

func TestHistoryDB_GetDBPath_Integration(t *testing.T) {
	db := setupTempHistoryDB(t)

	assert.Contains(t, db.GetDBPath(), config.HistoryDbFile)
}

func TestHistoryDB_AddAndGetFixRuns_Integration(t *testing.T) {
	db := setupTempHistoryDB(t)

	now := time.Now().Truncate(time.Second)
	first := database.FixRun{
		Time:     now.Add(-time.Minute),
		FixID:    "flush-dns",
		Success:  true,
		ExitCode: 0,
		Duration: 150,
		Output:   "ok",
	}
	second := database.FixRun{
		Time:     now,
		FixID:    "restart-spooler",
		Success:  false,
		ExitCode: 5,
		Duration: 900,
		Admin:    true,
		Output:   "service not found",
	}

	require.NoError(t, db.AddFixRun(first))
	require.NoError(t, db.AddFixRun(second))

	runs, err := db.GetFixRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "restart-spooler", runs[0].FixID)
	assert.Equal(t, 5, runs[0].ExitCode)
	assert.True(t, runs[0].Admin)
	assert.Equal(t, now.Unix(), runs[0].Time.Unix())
	assert.Equal(t, "flush-dns", runs[1].FixID)
	assert.True(t, runs[1].Success)
}

func TestHistoryDB_Pagination_Integration(t *testing.T) {
	db := setupTempHistoryDB(t)

	for range pageSize + 5 {
		require.NoError(t, db.AddFixRun(database.FixRun{
			Time:    time.Now(),
			FixID:   "flush-dns",
			Success: true,
		}))
	}

	page, err := db.GetFixRuns(0)
	require.NoError(t, err)
	require.Len(t, page, pageSize)

	next, err := db.GetFixRuns(page[len(page)-1].DBID)
	require.NoError(t, err)
	assert.Len(t, next, 5)
}

func TestHistoryDB_CleanupHistory_Integration(t *testing.T) {
	db := setupTempHistoryDB(t)

	old := database.FixRun{
		Time:    time.Now().AddDate(0, 0, -120),
		FixID:   "flush-dns",
		Success: true,
	}
	recent := database.FixRun{
		Time:    time.Now(),
		FixID:   "restart-spooler",
		Success: true,
	}
	require.NoError(t, db.AddFixRun(old))
	require.NoError(t, db.AddFixRun(recent))

	removed, err := db.CleanupHistory(90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	runs, err := db.GetFixRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "restart-spooler", runs[0].FixID)
}
