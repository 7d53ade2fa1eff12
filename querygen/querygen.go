// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package querygen generates randomized string workloads for set
// benchmarks.
//
// A workload is a pool of random alphanumeric strings followed by a
// sequence of operations drawn from the pool. Each operation is either
// an insert, printed as the bare string, or a lookup, printed with a
// leading LookupMarker. Output is a pure function of the Config.
package querygen

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/exp/rand"
)

// LookupMarker prefixes lookup operations.
const LookupMarker = '?'

// Alphabet is the set of characters random strings are drawn from.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// A Config configures a workload.
type Config struct {
	// Seed seeds the random number generator.
	Seed uint64

	// PoolSize is the number of random strings in the pool.
	PoolSize int

	// Multiplier is the number of operations per pool string.
	Multiplier int

	// MinLen and MaxLen bound the length of each string,
	// inclusive.
	MinLen, MaxLen int
}

// DefaultConfig is the standard workload: 400000 operations over a
// pool of 100000 strings of 5 to 15 characters.
var DefaultConfig = Config{
	Seed:       1,
	PoolSize:   100000,
	Multiplier: 4,
	MinLen:     5,
	MaxLen:     15,
}

func (c Config) validate() error {
	switch {
	case c.PoolSize <= 0:
		return fmt.Errorf("pool size must be positive, got %d", c.PoolSize)
	case c.Multiplier < 0:
		return fmt.Errorf("multiplier must not be negative, got %d", c.Multiplier)
	case c.MinLen < 0 || c.MaxLen < c.MinLen:
		return fmt.Errorf("invalid length range [%d, %d]", c.MinLen, c.MaxLen)
	}
	return nil
}

// A Generator produces a workload.
type Generator struct {
	cfg  Config
	rnd  *rand.Rand
	pool []string
}

// NewGenerator returns a Generator for cfg and fills its string pool.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := &Generator{
		cfg:  cfg,
		rnd:  rand.New(rand.NewSource(cfg.Seed)),
		pool: make([]string, 0, cfg.PoolSize),
	}
	buf := make([]byte, cfg.MaxLen)
	for len(g.pool) < cfg.PoolSize {
		n := g.between(cfg.MinLen, cfg.MaxLen)
		for i := 0; i < n; i++ {
			buf[i] = Alphabet[g.rnd.Intn(len(Alphabet))]
		}
		g.pool = append(g.pool, string(buf[:n]))
	}
	return g, nil
}

// between returns a uniformly random int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rnd.Intn(hi-lo+1)
}

// Pool returns the generated string pool.
func (g *Generator) Pool() []string {
	return g.pool
}

// An Op is a single workload operation.
type Op struct {
	Key    string
	Lookup bool
}

func (op Op) String() string {
	if op.Lookup {
		return string(LookupMarker) + op.Key
	}
	return op.Key
}

// Next returns the next operation.
func (g *Generator) Next() Op {
	key := g.pool[g.rnd.Intn(len(g.pool))]
	return Op{Key: key, Lookup: g.rnd.Intn(2) == 0}
}

// WriteTo writes Multiplier*PoolSize operations to w, one per line.
func (g *Generator) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for i := 0; i < g.cfg.Multiplier*g.cfg.PoolSize; i++ {
		m, err := fmt.Fprintln(bw, g.Next())
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Generate writes the workload for cfg to w.
func Generate(w io.Writer, cfg Config) error {
	g, err := NewGenerator(cfg)
	if err != nil {
		return err
	}
	_, err = g.WriteTo(w)
	return err
}
