// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/benchagg/internal/texttab"
)

// A Format selects how a report is rendered.
type Format int

const (
	// Text is the fixed-width format read back by Read: key,
	// median, min and max, each right-aligned in FieldWidth
	// columns.
	Text Format = iota
	// Table is an aligned table with a header row and the sample
	// size, mean and standard deviation of each key.
	Table
	// CSV is comma-separated values with a header row.
	CSV
	// HTML is a standalone HTML document.
	HTML
)

// FieldWidth is the width of each field in the Text format.
const FieldWidth = 19

var formatNames = []string{"text", "table", "csv", "html"}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the Format with the given name.
func ParseFormat(name string) (Format, error) {
	for i, n := range formatNames {
		if strings.EqualFold(n, name) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(formatNames, ", "))
}

// Write renders entries to w in format f. title is used by formats
// that have room for one.
func Write(w io.Writer, f Format, title string, entries []Entry) error {
	switch f {
	case Text:
		return writeText(w, entries)
	case Table:
		return writeTable(w, entries)
	case CSV:
		return writeCSV(w, entries)
	case HTML:
		return writeHTML(w, title, entries)
	}
	return fmt.Errorf("unknown format %v", f)
}

func writeText(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		fmt.Fprintf(bw, "%*d %*s %*s %*s\n",
			FieldWidth, e.Key,
			FieldWidth, e.Median,
			FieldWidth, e.Min,
			FieldWidth, e.Max)
	}
	return bw.Flush()
}

// extras returns the sample size, mean and standard deviation
// columns of e, or dashes if e was not computed from raw data.
func (e Entry) extras() []string {
	if e.N == 0 {
		return []string{"-", "-", "-"}
	}
	return []string{strconv.Itoa(e.N), formatFloat(e.Mean), formatFloat(e.StdDev)}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}

var header = []string{"key", "median", "min", "max", "n", "mean", "stddev"}

func writeTable(w io.Writer, entries []Entry) error {
	var tab texttab.Table
	tab.Row()
	for _, h := range header {
		tab.Cell(h, texttab.Right)
	}
	for _, e := range entries {
		tab.Row().
			Cell(strconv.FormatInt(e.Key, 10), texttab.Right).
			Cell(e.Median.String(), texttab.Right).
			Cell(e.Min.String(), texttab.Right).
			Cell(e.Max.String(), texttab.Right)
		for _, x := range e.extras() {
			tab.Cell(x, texttab.Right)
		}
	}
	return tab.Format(w)
}

func writeCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	cw.Write(header)
	for _, e := range entries {
		row := []string{strconv.FormatInt(e.Key, 10), e.Median.String(), e.Min.String(), e.Max.String()}
		cw.Write(append(row, e.extras()...))
	}
	cw.Flush()
	return cw.Error()
}
