// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package archive stores aggregate reports in a SQL database so runs
// can be compared later. Only mysql and sqlite3 are explicitly
// supported.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/benchagg/aggmath"
	"golang.org/x/benchagg/report"
)

// DB is a SQL-backed report archive. It's safe for concurrent use by
// multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun   *sql.Stmt
	insertEntry *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Other database engines
// than mysql and sqlite3 will receive MySQL query syntax which may or
// may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Open opens a DB from a "driver:dsn" specification, such as
// "sqlite3:runs.db" or "mysql:user@tcp(host)/db".
func Open(spec string) (*DB, error) {
	i := strings.IndexByte(spec, ':')
	if i <= 0 {
		return nil, fmt.Errorf("malformed database %q (want driver:dsn)", spec)
	}
	return OpenSQL(spec[:i], spec[i+1:])
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// schema returns the statements that create any missing tables.
// Only the run ID column differs between sqlite3 and MySQL.
func schema(driverName string) []string {
	runID := "SERIAL PRIMARY KEY AUTO_INCREMENT"
	if driverName == "sqlite3" {
		runID = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS Runs (
	RunID ` + runID + `,
	ColumnName VARCHAR(255),
	Sources VARCHAR(8192),
	Created BIGINT
)`,
		`CREATE TABLE IF NOT EXISTS Entries (
	RunID BIGINT UNSIGNED,
	EntryKey BIGINT,
	MedianVal VARCHAR(64),
	MinVal VARCHAR(64),
	MaxVal VARCHAR(64),
	N INTEGER,
	Mean DOUBLE,
	StdDev DOUBLE,
	PRIMARY KEY (RunID, EntryKey),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
)`,
	}
}

// createTables creates the archive tables on db.sql if they do not
// exist yet.
func (db *DB) createTables(driverName string) error {
	for _, q := range schema(driverName) {
		if _, err := db.sql.Exec(q); err != nil {
			table := strings.Fields(q)[5]
			return fmt.Errorf("creating table %s: %w", table, err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(ColumnName, Sources, Created) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertEntry, err = db.sql.Prepare("INSERT INTO Entries(RunID, EntryKey, MedianVal, MinVal, MaxVal, N, Mean, StdDev) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// A Run describes one archived report.
type Run struct {
	ID      int64
	Column  string
	Sources []string
	Created time.Time
}

// InsertRun stores a report in a single transaction and returns its
// run ID. column and sources describe how the report was produced.
func (db *DB) InsertRun(ctx context.Context, column string, sources []string, entries []report.Entry) (id int64, err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.StmtContext(ctx, db.insertRun).ExecContext(ctx, column, strings.Join(sources, "\n"), time.Now().Unix())
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}
	ins := tx.StmtContext(ctx, db.insertEntry)
	for _, e := range entries {
		med, _ := e.Median.MarshalText()
		min, _ := e.Min.MarshalText()
		max, _ := e.Max.MarshalText()
		if _, err = ins.ExecContext(ctx, id, e.Key, string(med), string(min), string(max), e.N, nullFloat(e.Mean, e.N), nullFloat(e.StdDev, e.N)); err != nil {
			return 0, fmt.Errorf("inserting key %d: %w", e.Key, err)
		}
	}
	return id, nil
}

// nullFloat maps values that cannot be stored, and moments of entries
// not computed from raw data, to NULL.
func nullFloat(f float64, n int) sql.NullFloat64 {
	if n == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// Entries returns the report stored as run id, in ascending key order.
func (db *DB) Entries(ctx context.Context, id int64) ([]report.Entry, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT EntryKey, MedianVal, MinVal, MaxVal, N, Mean, StdDev FROM Entries WHERE RunID = ? ORDER BY EntryKey", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []report.Entry
	for rows.Next() {
		var e report.Entry
		var med, min, max string
		var mean, sd sql.NullFloat64
		if err := rows.Scan(&e.Key, &med, &min, &max, &e.N, &mean, &sd); err != nil {
			return nil, err
		}
		for _, f := range []struct {
			dst  *aggmath.Value
			text string
		}{{&e.Median, med}, {&e.Min, min}, {&e.Max, max}} {
			if err := f.dst.UnmarshalText([]byte(f.text)); err != nil {
				return nil, fmt.Errorf("run %d key %d: %w", id, e.Key, err)
			}
		}
		e.Mean, e.StdDev = math.NaN(), math.NaN()
		if mean.Valid {
			e.Mean = mean.Float64
		}
		if sd.Valid {
			e.StdDev = sd.Float64
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if entries == nil {
		var n int
		if err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Runs WHERE RunID = ?", id).Scan(&n); err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
		}
	}
	return entries, nil
}

// ErrNotFound is returned by Entries for an unknown run ID.
var ErrNotFound = fmt.Errorf("run not found")

// Runs lists archived runs, oldest first.
func (db *DB) Runs(ctx context.Context) ([]Run, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT RunID, ColumnName, Sources, Created FROM Runs ORDER BY RunID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var r Run
		var sources string
		var created int64
		if err := rows.Scan(&r.ID, &r.Column, &sources, &created); err != nil {
			return nil, err
		}
		if sources != "" {
			r.Sources = strings.Split(sources, "\n")
		}
		r.Created = time.Unix(created, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// CountRuns returns the number of archived runs.
func (db *DB) CountRuns(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Runs").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertRun.Close(); err != nil {
		return err
	}
	if err := db.insertEntry.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
