// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Aggregate summarizes the results of repeated benchmark runs.
//
// Usage:
//
//	aggregate [flags] <col> <files>+
//
// Each input file holds one run. Every non-blank line that does not
// start with '#' is a row of whitespace-separated numbers; the first
// number is the row's key. For each key, aggregate collects the value
// of column col from every file and prints one line with the key and
// the median, minimum and maximum of those values, each right-aligned
// in 19 columns:
//
//	               1000                 505                 500                 510
//
// Rows too short to contain col are ignored. Run aggregate without
// arguments for the list of columns. The file "-" is standard input
// and files named gs://bucket/object are read from Google Cloud
// Storage.
//
// By default a value is an integer unless it contains a decimal point.
// With -scale, or a -config file that has a divisor table, every value
// is read as a floating-point number and divided by its column's
// divisor. -scale divides rss and vss by 1024.
//
// A -config file is YAML:
//
//	columns: [its, qsz, trans, wctime, utime, stime, rss, vss]
//	divisors: {rss: 1024, vss: 1024}
//
// The -format flag selects text (the default), table, csv or html
// output. The -chart flag additionally renders the report as an image
// whose format follows the file extension, and -db stores the report
// in a SQL archive given as driver:dsn, for example
// "sqlite3:runs.db".
//
// With -db, the archive can also be read back instead of aggregating:
// -runs lists the archived runs and -run N prints run N in the chosen
// -format. Neither takes a column or files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"golang.org/x/benchagg/aggconf"
	"golang.org/x/benchagg/aggregate"
	"golang.org/x/benchagg/archive"
	_ "golang.org/x/benchagg/archive/sqlite3"
	"golang.org/x/benchagg/chart"
	"golang.org/x/benchagg/internal/texttab"
	"golang.org/x/benchagg/internal/logging"
	"golang.org/x/benchagg/internal/source"
	"golang.org/x/benchagg/report"
	"golang.org/x/benchagg/rowfmt"
)

var exit = os.Exit // replaced during testing

// errFlags indicates a command line the flag package rejected. The
// flag package has already reported it.
var errFlags = errors.New("bad flags")

func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err == errFlags {
			exit(2)
		}
		exit(1)
	}
}

func usage(w io.Writer, fs *flag.FlagSet, cfg aggconf.Config) {
	fmt.Fprintf(w, "Usage: aggregate [flags] <col> <files>+\n")
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(cfg.Columns(), "/"))
	fmt.Fprintf(w, "Flags:\n")
	out := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(out)
}

func run(stdout, stderr io.Writer, args []string) (err error) {
	fs := flag.NewFlagSet("aggregate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		flagConfig   = fs.String("config", "", "read columns and divisors from YAML `file`")
		flagScale    = fs.Bool("scale", false, "parse values as floats and apply the built-in divisor table")
		flagFormat   = fs.String("format", "text", "output `format`: text, table, csv or html")
		flagChart    = fs.String("chart", "", "also render the report to image `file` (.png, .svg, .pdf)")
		flagLogScale = fs.Bool("logscale", false, "use a logarithmic Y axis for -chart")
		flagDB       = fs.String("db", "", "archive the report in database `driver:dsn`")
		flagRun      = fs.Int64("run", 0, "print archived run `id` from -db instead of aggregating")
		flagRuns     = fs.Bool("runs", false, "list the runs archived in -db instead of aggregating")
		flagVerbose  = fs.Bool("v", false, "log debugging information")
	)
	cfg := aggconf.Default()
	fs.Usage = func() { usage(stderr, fs, cfg) }
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return errFlags
	}

	log := logging.New(stderr, "aggregate", *flagVerbose)
	defer func() {
		if err != nil && err != errFlags {
			log.Error(err.Error())
		}
		log.Sync()
	}()

	switch {
	case *flagConfig != "" && *flagScale:
		fmt.Fprintln(stderr, "-config and -scale cannot be combined")
		return errFlags
	case *flagConfig != "":
		if cfg, err = aggconf.Load(*flagConfig); err != nil {
			return err
		}
	case *flagScale:
		cfg = aggconf.ScaledDefault()
	}
	format, err := report.ParseFormat(*flagFormat)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return errFlags
	}

	ctx := context.Background()
	if *flagRun != 0 || *flagRuns {
		if *flagDB == "" {
			fmt.Fprintln(stderr, "-run and -runs require -db")
			return errFlags
		}
		return readArchive(ctx, stdout, *flagDB, format, *flagRun, *flagRuns)
	}

	if fs.NArg() < 2 {
		fmt.Fprintln(stdout, "Not enough arguments.")
		usage(stdout, fs, cfg)
		return nil
	}
	column, paths := fs.Arg(0), fs.Args()[1:]

	opener := source.NewOpener(ctx)
	defer opener.Close()
	files := &rowfmt.Files{Paths: paths, AllowStdin: true, Open: opener.Open}

	entries, err := aggregate.Files(cfg, column, files, log)
	var uce *aggregate.UnknownColumnError
	if errors.As(err, &uce) {
		fmt.Fprintln(stdout, "Invalid column:", column)
		usage(stdout, fs, cfg)
		return nil
	} else if err != nil {
		return err
	}

	if err := report.Write(stdout, format, column, entries); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if *flagChart != "" {
		opts := chart.Options{Title: column, XLabel: "key", YLabel: column, LogScale: *flagLogScale}
		if err := chart.Render(entries, *flagChart, opts); err != nil {
			return err
		}
		log.Debug("rendered chart", zap.String("file", *flagChart))
	}

	if *flagDB != "" {
		db, err := archive.Open(*flagDB)
		if err != nil {
			return err
		}
		defer db.Close()
		id, err := db.InsertRun(ctx, column, paths, entries)
		if err != nil {
			return fmt.Errorf("archiving report: %w", err)
		}
		log.Info("archived report", zap.Int64("run", id), zap.Int("keys", len(entries)))
	}
	return nil
}

// readArchive prints either the list of runs in the archive at spec or
// the report stored as run id.
func readArchive(ctx context.Context, w io.Writer, spec string, format report.Format, id int64, list bool) error {
	db, err := archive.Open(spec)
	if err != nil {
		return err
	}
	defer db.Close()

	if list {
		runs, err := db.Runs(ctx)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		var tab texttab.Table
		tab.Row().
			Cell("run", texttab.Right).
			Cell("column", texttab.Left).
			Cell("created", texttab.Left).
			Cell("sources", texttab.Left)
		for _, r := range runs {
			tab.Row().
				Cell(strconv.FormatInt(r.ID, 10), texttab.Right).
				Cell(r.Column, texttab.Left).
				Cell(r.Created.UTC().Format(time.RFC3339), texttab.Left).
				Cell(strings.Join(r.Sources, " "), texttab.Left)
		}
		return tab.Format(w)
	}

	entries, err := db.Entries(ctx, id)
	if err != nil {
		return err
	}
	return report.Write(w, format, fmt.Sprintf("run %d", id), entries)
}
