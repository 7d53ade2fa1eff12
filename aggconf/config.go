// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aggconf describes how measurement rows are interpreted:
// which named columns exist, and whether values are parsed by
// inference or as scaled floating-point numbers.
//
// A Config is immutable once constructed.
package aggconf

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultColumns are the columns written by the set benchmark
// harness, in row order. Column i is field i of a row, so the first
// column doubles as the row key.
var DefaultColumns = []string{"its", "qsz", "trans", "wctime", "utime", "stime", "rss", "vss"}

// DefaultDivisors is the divisor table used by ScaledDefault. Memory
// columns are reported in KiB and scaled to MiB.
var DefaultDivisors = map[string]float64{
	"rss": 1024,
	"vss": 1024,
}

// A Config is an immutable aggregation configuration.
type Config struct {
	columns  []string
	scaled   bool
	divisors map[string]float64
}

// A Column is a named field position within a row.
type Column struct {
	Name string

	// Index is the field index within a row. Index 0 is the key.
	Index int

	// Divisor is the value every measurement in this column is
	// divided by in scaled mode. It is 1 for columns without an
	// entry in the divisor table.
	Divisor float64
}

// Default returns the configuration with DefaultColumns that infers
// value kinds from their spelling.
func Default() Config {
	c, err := New(DefaultColumns, false, nil)
	if err != nil {
		panic(err)
	}
	return c
}

// ScaledDefault returns the configuration with DefaultColumns that
// parses every value as floating point and divides it by
// DefaultDivisors.
func ScaledDefault() Config {
	c, err := New(DefaultColumns, true, DefaultDivisors)
	if err != nil {
		panic(err)
	}
	return c
}

// New returns a Config for the given columns. If scaled is true,
// values are parsed as floating point and divided by divisors[column]
// (default 1). Otherwise divisors must be empty.
func New(columns []string, scaled bool, divisors map[string]float64) (Config, error) {
	if len(columns) == 0 {
		return Config{}, fmt.Errorf("no columns configured")
	}
	seen := make(map[string]bool)
	for _, name := range columns {
		if name == "" || strings.ContainsAny(name, " \t/") {
			return Config{}, fmt.Errorf("invalid column name %q", name)
		}
		if seen[name] {
			return Config{}, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true
	}
	if !scaled && len(divisors) > 0 {
		return Config{}, fmt.Errorf("divisors require scaled mode")
	}
	c := Config{
		columns:  append([]string(nil), columns...),
		scaled:   scaled,
		divisors: make(map[string]float64, len(divisors)),
	}
	for name, d := range divisors {
		if !seen[name] {
			return Config{}, fmt.Errorf("divisor for unknown column %q", name)
		}
		if !(d > 0) {
			return Config{}, fmt.Errorf("divisor for column %q must be positive, got %v", name, d)
		}
		c.divisors[name] = d
	}
	return c, nil
}

// Columns returns the column names in row order.
func (c Config) Columns() []string {
	return append([]string(nil), c.columns...)
}

// Scaled reports whether c parses values as scaled floating-point
// numbers rather than inferring their kind.
func (c Config) Scaled() bool {
	return c.scaled
}

// Column looks up a column by name.
func (c Config) Column(name string) (Column, bool) {
	for i, n := range c.columns {
		if n == name {
			d, ok := c.divisors[name]
			if !ok {
				d = 1
			}
			return Column{Name: n, Index: i, Divisor: d}, true
		}
	}
	return Column{}, false
}

// fileConfig is the YAML form of a Config.
type fileConfig struct {
	Columns  []string           `yaml:"columns"`
	Scaled   *bool              `yaml:"scaled"`
	Divisors map[string]float64 `yaml:"divisors"`
}

// Parse parses a YAML configuration. Missing columns default to
// DefaultColumns. If "scaled" is omitted, the presence of a divisor
// table selects scaled mode.
func Parse(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	columns := fc.Columns
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	scaled := fc.Divisors != nil
	if fc.Scaled != nil {
		scaled = *fc.Scaled
	}
	return New(columns, scaled, fc.Divisors)
}

// Load reads a YAML configuration from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
