// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rowfmt reads whitespace-delimited measurement rows.
//
// Each non-blank line that does not begin with '#' is a row. The first
// field of a row is an integer key; the remaining fields are
// measurements whose meaning is up to the caller.
package rowfmt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// A Record is a single record read from a row file. It is either a
// *Row or a *SyntaxError.
type Record interface {
	// Pos returns the position of this record as a file name and
	// a 1-based line number within that file.
	Pos() (fileName string, line int)
}

var _ Record = (*Row)(nil)
var _ Record = (*SyntaxError)(nil)

// A Row is a single line of measurements.
type Row struct {
	// Key is the integer parsed from the first field.
	Key int64

	// Fields are the whitespace-separated fields of the line,
	// including the key field at index 0.
	Fields [][]byte

	fileName string
	line     int
}

// Pos returns the file name and line number of r.
func (r *Row) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// Len returns the number of fields in r, counting the key.
func (r *Row) Len() int {
	return len(r.Fields)
}

// Field returns field i of r as a string.
func (r *Row) Field(i int) string {
	return string(r.Fields[i])
}

// Clone makes a copy of r that does not share storage with the Reader.
func (r *Row) Clone() *Row {
	r2 := &Row{Key: r.Key, fileName: r.fileName, line: r.line}
	r2.Fields = make([][]byte, len(r.Fields))
	for i, f := range r.Fields {
		r2.Fields[i] = append([]byte(nil), f...)
	}
	return r2
}

// A SyntaxError represents a syntax error on a particular line of a
// row file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// Errorf returns a *SyntaxError positioned at rec.
func Errorf(rec Record, format string, args ...interface{}) *SyntaxError {
	fileName, line := rec.Pos()
	return &SyntaxError{fileName, line, fmt.Sprintf(format, args...)}
}

var noRow = &SyntaxError{"", 0, "Reader.Scan has not been called"}

// A Reader reads row files.
//
// Its API is modeled on bufio.Scanner. A Reader retains ownership of
// the Row it returns and reuses it on the next call to Scan; a caller
// should Clone anything it needs to retain.
type Reader struct {
	s   *bufio.Scanner
	err error // current I/O error

	row Row
	rec Record
}

// NewReader constructs a reader to parse rows from r. fileName is
// used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.err = nil
	r.rec = noRow
	r.row.Key = 0
	r.row.Fields = r.row.Fields[:0]
	r.row.fileName = fileName
	r.row.line = 0
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Result method to get the
// record. If Scan reaches EOF or an I/O error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	for r.s.Scan() {
		r.row.line++
		line := r.s.Bytes()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		r.row.Fields = splitFields(r.row.Fields[:0], line)
		if len(r.row.Fields) == 0 {
			// Whitespace only.
			continue
		}
		key, err := strconv.ParseInt(string(r.row.Fields[0]), 10, 64)
		if err != nil {
			r.rec = &SyntaxError{r.row.fileName, r.row.line, "parsing key: " + err.(*strconv.NumError).Err.Error()}
			return true
		}
		r.row.Key = key
		r.rec = &r.row
		return true
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.row.fileName, r.row.line, err)
	}
	return false
}

// Result returns the record that was just read by Scan. This is
// either a *Row or a *SyntaxError indicating a malformed key. The
// returned *Row is valid only until the next call to Scan.
func (r *Reader) Result() Record {
	return r.rec
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

// splitFields appends the whitespace-separated fields of line to dst.
// The fields alias line.
func splitFields(dst [][]byte, line []byte) [][]byte {
	for {
		line = bytes.TrimLeft(line, " \t\r\v\f")
		if len(line) == 0 {
			return dst
		}
		end := bytes.IndexAny(line, " \t\r\v\f")
		if end < 0 {
			end = len(line)
		}
		dst = append(dst, line[:end])
		line = line[end:]
	}
}
