// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Subtract removes a baseline from an aggregate report.
//
// Usage:
//
//	subtract [flags] <base> <data>
//
// Both files are in the format printed by aggregate: a key followed by
// the median, minimum and maximum for that key. For every key of data
// that also appears in base, subtract prints the key and the data
// median, minimum and maximum, each minus the base median, in the
// order of data. Keys that base lacks are reported on standard error
// and left out.
//
// Either file may be "-" for standard input or gs://bucket/object.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"golang.org/x/benchagg/internal/logging"
	"golang.org/x/benchagg/internal/source"
	"golang.org/x/benchagg/report"
	"golang.org/x/benchagg/rowfmt"
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

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: subtract <base> <data>\n")
	fmt.Fprintf(w, "Flags:\n")
	out := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(out)
}

func run(stdout, stderr io.Writer, args []string) (err error) {
	fs := flag.NewFlagSet("subtract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		flagFormat  = fs.String("format", "text", "output `format`: text, table, csv or html")
		flagVerbose = fs.Bool("v", false, "log debugging information")
	)
	fs.Usage = func() { usage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return errFlags
	}
	format, err := report.ParseFormat(*flagFormat)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return errFlags
	}

	log := logging.New(stderr, "subtract", *flagVerbose)
	defer func() {
		if err != nil {
			log.Error(err.Error())
		}
		log.Sync()
	}()

	if fs.NArg() != 2 {
		fmt.Fprintln(stdout, "Not enough arguments.")
		usage(stdout, fs)
		return nil
	}

	opener := source.NewOpener(context.Background())
	defer opener.Close()
	read := func(path string) ([]report.Entry, error) {
		files := &rowfmt.Files{Paths: []string{path}, AllowStdin: true, Open: opener.Open}
		return report.ReadFiles(files)
	}
	base, err := read(fs.Arg(0))
	if err != nil {
		return err
	}
	data, err := read(fs.Arg(1))
	if err != nil {
		return err
	}
	log.Debug("read reports", zap.Int("base", len(base)), zap.Int("data", len(data)))

	diff := report.Subtract(base, data, func(key int64) {
		log.Warn("missing base value", zap.Int64("key", key))
	})
	if err := report.Write(stdout, format, fs.Arg(1)+" - "+fs.Arg(0), diff); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
