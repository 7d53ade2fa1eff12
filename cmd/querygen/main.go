// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Querygen prints a reproducible workload of string inserts and
// lookups for exercising set implementations.
//
// Usage:
//
//	querygen [flags]
//
// Querygen draws a pool of -n random alphanumeric strings and then
// prints -mult times that many lines. Each line is a string from the
// pool, chosen uniformly; about half of them are prefixed with '?' to
// mark a lookup rather than an insert. The same flags always produce
// the same output.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"golang.org/x/benchagg/internal/logging"
	"golang.org/x/benchagg/querygen"
)

var exit = os.Exit // replaced during testing

var errFlags = errors.New("bad flags")

func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err == errFlags {
			exit(2)
		}
		exit(1)
	}
}

func run(stdout, stderr io.Writer, args []string) (err error) {
	fs := flag.NewFlagSet("querygen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	def := querygen.DefaultConfig
	var (
		flagSeed    = fs.Uint64("seed", def.Seed, "random `seed`")
		flagN       = fs.Int("n", def.PoolSize, "number of distinct strings in the pool")
		flagMult    = fs.Int("mult", def.Multiplier, "print `m` times -n lines")
		flagMinLen  = fs.Int("minlen", def.MinLen, "minimum string length")
		flagMaxLen  = fs.Int("maxlen", def.MaxLen, "maximum string length")
		flagVerbose = fs.Bool("v", false, "log debugging information")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: querygen [flags]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return errFlags
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return errFlags
	}

	log := logging.New(stderr, "querygen", *flagVerbose)
	defer func() {
		if err != nil {
			log.Error(err.Error())
		}
		log.Sync()
	}()

	cfg := querygen.Config{
		Seed:       *flagSeed,
		PoolSize:   *flagN,
		Multiplier: *flagMult,
		MinLen:     *flagMinLen,
		MaxLen:     *flagMaxLen,
	}
	log.Debug("generating", zap.Uint64("seed", cfg.Seed), zap.Int("pool", cfg.PoolSize), zap.Int("lines", cfg.PoolSize*cfg.Multiplier))
	return querygen.Generate(stdout, cfg)
}
