// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aggregate groups the measurements of repeated benchmark runs
// by key and reduces each group to its median, minimum and maximum.
//
// Aggregation is two-pass: every value for every key is collected
// first, and only then are the groups sorted and summarized.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"golang.org/x/benchagg/aggconf"
	"golang.org/x/benchagg/aggmath"
	"golang.org/x/benchagg/report"
	"golang.org/x/benchagg/rowfmt"
)

// An UnknownColumnError is returned by New for a column name that is
// not in the configuration.
type UnknownColumnError struct {
	Name    string
	Columns []string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("invalid column %q (want one of %s)", e.Name, strings.Join(e.Columns, "/"))
}

// An Aggregator collects values of one column grouped by row key.
type Aggregator struct {
	col    aggconf.Column
	scaled bool
	log    *zap.Logger

	values map[int64][]aggmath.Value

	// Rows is the number of rows that contributed a value.
	Rows int
	// Skipped is the number of rows too short to contain the
	// column.
	Skipped int
}

// New returns an Aggregator for the named column of cfg. If log is
// nil, nothing is logged.
func New(cfg aggconf.Config, column string, log *zap.Logger) (*Aggregator, error) {
	col, ok := cfg.Column(column)
	if !ok {
		return nil, &UnknownColumnError{column, cfg.Columns()}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{
		col:    col,
		scaled: cfg.Scaled(),
		log:    log,
		values: make(map[int64][]aggmath.Value),
	}, nil
}

// Column returns the column being aggregated.
func (a *Aggregator) Column() aggconf.Column {
	return a.col
}

// Add records the column value of row. Rows with too few fields to
// contain the column are skipped. A value that cannot be parsed is an
// error.
func (a *Aggregator) Add(row *rowfmt.Row) error {
	if row.Len() <= a.col.Index {
		a.Skipped++
		if ce := a.log.Check(zap.DebugLevel, "skipping short row"); ce != nil {
			name, line := row.Pos()
			ce.Write(zap.String("file", name), zap.Int("line", line), zap.Int("fields", row.Len()))
		}
		return nil
	}
	field := row.Field(a.col.Index)
	var v aggmath.Value
	var err error
	if a.scaled {
		if v, err = aggmath.ParseFloat(field); err == nil {
			v = v.Div(a.col.Divisor)
		}
	} else {
		v, err = aggmath.Parse(field)
	}
	if err != nil {
		return rowfmt.Errorf(row, "parsing %s: %v", a.col.Name, err)
	}
	a.values[row.Key] = append(a.values[row.Key], v)
	a.Rows++
	return nil
}

// AddFiles reads every row of files. Malformed keys and values stop
// reading and are returned as *rowfmt.SyntaxError.
func (a *Aggregator) AddFiles(files *rowfmt.Files) error {
	defer files.Close()
	for files.Scan() {
		switch rec := files.Result().(type) {
		case *rowfmt.SyntaxError:
			return rec
		case *rowfmt.Row:
			if err := a.Add(rec); err != nil {
				return err
			}
		}
	}
	return files.Err()
}

// Len returns the number of distinct keys seen.
func (a *Aggregator) Len() int {
	return len(a.values)
}

// Entries reduces the collected values to one report entry per key,
// in ascending key order.
func (a *Aggregator) Entries() []report.Entry {
	keys := make([]int64, 0, len(a.values))
	for k := range a.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	entries := make([]report.Entry, 0, len(keys))
	for _, k := range keys {
		s := aggmath.NewSample(a.values[k])
		entries = append(entries, report.Entry{Key: k, Summary: s.Summary()})
	}
	return entries
}

// Files aggregates the named column of cfg over every row of files and
// returns the report entries.
func Files(cfg aggconf.Config, column string, files *rowfmt.Files, log *zap.Logger) ([]report.Entry, error) {
	a, err := New(cfg, column, log)
	if err != nil {
		return nil, err
	}
	if err := a.AddFiles(files); err != nil {
		return nil, err
	}
	a.log.Debug("aggregated",
		zap.String("column", a.col.Name),
		zap.Int("keys", a.Len()),
		zap.Int("rows", a.Rows),
		zap.Int("skipped", a.Skipped))
	return a.Entries(), nil
}
