// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report reads, writes and combines aggregate reports.
//
// An aggregate report has one line per key with four fields: the key
// and the median, minimum and maximum of the values observed for that
// key. In text form each field is right-aligned in 19 columns.
package report

import (
	"io"

	"golang.org/x/benchagg/aggmath"
	"golang.org/x/benchagg/rowfmt"
)

// An Entry is one line of an aggregate report.
type Entry struct {
	Key int64

	// Summary holds the median, minimum and maximum. The sample
	// size and moments are only known for entries computed from raw
	// measurements; entries read back from a report have N == 0.
	aggmath.Summary
}

// Read parses an aggregate report from r. fileName is used in error
// messages. Blank lines and lines beginning with '#' are skipped. The
// first error stops parsing.
func Read(r io.Reader, fileName string) ([]Entry, error) {
	return readRecords(rowfmt.NewReader(r, fileName))
}

// ReadFiles parses an aggregate report spread over files.
func ReadFiles(files *rowfmt.Files) ([]Entry, error) {
	defer files.Close()
	return readRecords(files)
}

type scanner interface {
	Scan() bool
	Result() rowfmt.Record
	Err() error
}

func readRecords(s scanner) ([]Entry, error) {
	var entries []Entry
	for s.Scan() {
		switch rec := s.Result().(type) {
		case *rowfmt.SyntaxError:
			return nil, rec
		case *rowfmt.Row:
			e, err := parseEntry(rec)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseEntry(row *rowfmt.Row) (Entry, error) {
	if row.Len() < 4 {
		return Entry{}, rowfmt.Errorf(row, "want 4 fields, got %d", row.Len())
	}
	e := Entry{Key: row.Key}
	for i, dst := range []*aggmath.Value{&e.Median, &e.Min, &e.Max} {
		v, err := aggmath.Parse(row.Field(i + 1))
		if err != nil {
			return Entry{}, rowfmt.Errorf(row, "parsing field %d: %v", i+1, err)
		}
		*dst = v
	}
	return e, nil
}

// Subtract subtracts base medians from data. For every entry in data
// whose key appears in base, the result holds the data median, min and
// max minus the base median for that key, in data order. Entries whose
// key is missing from base are passed to missing, if non-nil, and
// omitted from the result.
func Subtract(base, data []Entry, missing func(key int64)) []Entry {
	baseMed := make(map[int64]aggmath.Value, len(base))
	for _, e := range base {
		baseMed[e.Key] = e.Median
	}
	var out []Entry
	for _, e := range data {
		b, ok := baseMed[e.Key]
		if !ok {
			if missing != nil {
				missing(e.Key)
			}
			continue
		}
		var d Entry
		d.Key = e.Key
		d.Median = e.Median.Sub(b)
		d.Min = e.Min.Sub(b)
		d.Max = e.Max.Sub(b)
		out = append(out, d)
	}
	return out
}
