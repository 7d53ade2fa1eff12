// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/benchagg/aggmath"
)

func entry(key int64, med, min, max string) Entry {
	parse := func(s string) aggmath.Value {
		v, err := aggmath.Parse(s)
		if err != nil {
			panic(err)
		}
		return v
	}
	e := Entry{Key: key}
	e.Median, e.Min, e.Max = parse(med), parse(min), parse(max)
	return e
}

func TestReadWriteText(t *testing.T) {
	entries := []Entry{
		entry(1, "2", "1", "3"),
		entry(20, "2.5", "1.0", "4.0"),
		entry(-3, "0", "-1", "1"),
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Text, "", entries))

	want := "" +
		"                  1                   2                   1                   3\n" +
		"                 20                 2.5                 1.0                 4.0\n" +
		"                 -3                   0                  -1                   1\n"
	assert.Equal(t, want, buf.String())

	got, err := Read(strings.NewReader(buf.String()), "report")
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("1 2 3\n"), "short")
	assert.EqualError(t, err, "short:1: want 4 fields, got 3")

	_, err = Read(strings.NewReader("# c\n1 2 x 4\n"), "bad")
	assert.EqualError(t, err, `bad:2: parsing field 2: strconv.ParseInt: parsing "x": invalid syntax`)

	_, err = Read(strings.NewReader("k 1 2 3\n"), "key")
	assert.EqualError(t, err, "key:1: parsing key: invalid syntax")
}

func TestSubtract(t *testing.T) {
	base := []Entry{
		entry(1, "10", "9", "11"),
		entry(2, "1.5", "1.0", "2.0"),
		entry(4, "7", "7", "7"),
	}
	data := []Entry{
		entry(2, "4", "3", "5"),
		entry(3, "100", "100", "100"),
		entry(1, "15", "12", "20"),
	}
	var missing []int64
	got := Subtract(base, data, func(key int64) { missing = append(missing, key) })

	assert.Equal(t, []int64{3}, missing)
	assert.Equal(t, []Entry{
		entry(2, "2.5", "1.5", "3.5"),
		entry(1, "5", "2", "10"),
	}, got)
	assert.Equal(t, aggmath.Float, got[0].Median.Kind())
	assert.Equal(t, aggmath.Int, got[1].Median.Kind())

	// A nil callback drops missing keys silently.
	assert.Len(t, Subtract(base, data, nil), 2)
}

func TestSubtractSelf(t *testing.T) {
	r := []Entry{
		entry(1, "2", "1", "3"),
		entry(2, "5", "5", "5"),
	}
	for _, e := range Subtract(r, r, nil) {
		assert.Equal(t, "0", e.Median.String(), "key %d", e.Key)
	}
}
