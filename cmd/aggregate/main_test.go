// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/benchagg/archive"
	"golang.org/x/benchagg/internal/diff"
)

func TestInfer(t *testing.T) {
	golden(t, "trans", false, "trans", "run1.txt", "run2.txt", "run3.txt")
	golden(t, "wctime", false, "wctime", "run1.txt", "run2.txt", "run3.txt")
	// The first column is the key itself.
	golden(t, "its", false, "its", "run1.txt", "run2.txt", "run3.txt")
}

func TestScaled(t *testing.T) {
	golden(t, "rssScaled", false, "-scale", "rss", "run1.txt", "run2.txt", "run3.txt")
	golden(t, "stimeScaled", false, "-scale", "stime", "run1.txt", "run2.txt")
	golden(t, "rssScaled", false, "-config", "scaled.yaml", "rss", "run1.txt", "run2.txt", "run3.txt")
}

func TestBadData(t *testing.T) {
	golden(t, "bad", true, "trans", "bad.txt")
}

func TestUsage(t *testing.T) {
	for _, test := range []struct {
		args []string
		want string
	}{
		{nil, "Not enough arguments.\n"},
		{[]string{"trans"}, "Not enough arguments.\n"},
		{[]string{"bogus", "run1.txt"}, "Invalid column: bogus\n"},
	} {
		var stdout, stderr bytes.Buffer
		if err := run(&stdout, &stderr, test.args); err != nil {
			t.Errorf("%v: unexpected error %v", test.args, err)
		}
		out := stdout.String()
		if !strings.HasPrefix(out, test.want) {
			t.Errorf("%v: output does not start with %q:\n%s", test.args, test.want, out)
		}
		for _, want := range []string{
			"Usage: aggregate [flags] <col> <files>+\n",
			"Columns: its/qsz/trans/wctime/utime/stime/rss/vss\n",
			"-scale",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("%v: usage does not contain %q:\n%s", test.args, want, out)
			}
		}
		if stderr.Len() != 0 {
			t.Errorf("%v: unexpected stderr %q", test.args, stderr.String())
		}
	}

	// A config file changes the column list.
	var stdout bytes.Buffer
	if err := run(&stdout, new(bytes.Buffer), []string{"-config", "testdata/custom.yaml", "its", "x"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "Columns: key/lat\n") {
		t.Errorf("custom columns not listed:\n%s", stdout.String())
	}
}

func TestBadFlags(t *testing.T) {
	for _, args := range [][]string{
		{"-nosuchflag", "trans", "x"},
		{"-format", "xml", "trans", "x"},
		{"-scale", "-config", "testdata/custom.yaml", "trans", "x"},
		{"-run", "1"},
	} {
		var stdout, stderr bytes.Buffer
		if err := run(&stdout, &stderr, args); err != errFlags {
			t.Errorf("%v: got %v, want errFlags", args, err)
		}
		if stderr.Len() == 0 {
			t.Errorf("%v: no diagnostic on stderr", args)
		}
	}
}

func TestMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(&stdout, &stderr, []string{"trans", "testdata/missing.txt"}); err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(stderr.String(), "ERROR aggregate open testdata/missing.txt") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestTableFormat(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(&stdout, new(bytes.Buffer), []string{"-format", "table", "trans", "testdata/run1.txt", "testdata/run2.txt", "testdata/run3.txt"}); err != nil {
		t.Fatal(err)
	}
	want := ` key median  min  max n    mean  stddev
1000    505  500  510 3     505       5
2000   1000  990 1005 3 998.333 7.63763
4000   2005 2000 2010 2    2005 7.07107
`
	if d := diff.Diff([]byte(want), stdout.Bytes()); d != "" {
		t.Error(d)
	}
}

func TestChartAndArchive(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "trans.png")
	dbPath := filepath.Join(dir, "runs.db")
	var stdout, stderr bytes.Buffer
	args := []string{"-chart", png, "-db", "sqlite3:" + dbPath, "trans", "testdata/run1.txt", "testdata/run2.txt"}
	if err := run(&stdout, &stderr, args); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(png); err != nil || info.Size() == 0 {
		t.Errorf("chart not written: %v", err)
	}
	if want := "INFO aggregate archived report {\"run\": 1, \"keys\": 3}\n"; stderr.String() != want {
		t.Errorf("stderr: got %q, want %q", stderr.String(), want)
	}

	// Read the run back through the command.
	var run1, direct bytes.Buffer
	if err := run(&run1, new(bytes.Buffer), []string{"-db", "sqlite3:" + dbPath, "-run", "1"}); err != nil {
		t.Fatal(err)
	}
	if err := run(&direct, new(bytes.Buffer), []string{"trans", "testdata/run1.txt", "testdata/run2.txt"}); err != nil {
		t.Fatal(err)
	}
	if d := diff.Diff(direct.Bytes(), run1.Bytes()); d != "" {
		t.Errorf("archived run differs from direct output:\n%s", d)
	}

	var list bytes.Buffer
	if err := run(&list, new(bytes.Buffer), []string{"-db", "sqlite3:" + dbPath, "-runs"}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(list.String(), "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "run column") ||
		!strings.HasPrefix(lines[1], "  1 trans ") ||
		!strings.HasSuffix(lines[1], " testdata/run1.txt testdata/run2.txt") {
		t.Errorf("unexpected run list:\n%s", list.String())
	}

	var missing bytes.Buffer
	if err := run(new(bytes.Buffer), &missing, []string{"-db", "sqlite3:" + dbPath, "-run", "9"}); !errors.Is(err, archive.ErrNotFound) {
		t.Errorf("-run 9: got %v, want ErrNotFound", err)
	}
	if !strings.HasPrefix(missing.String(), "ERROR aggregate run 9: run not found") {
		t.Errorf("-run 9: unexpected stderr %q", missing.String())
	}

	db, err := archive.OpenSQL("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	entries, err := db.Entries(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[0].Median.String() != "505" {
		t.Errorf("unexpected archived entries %+v", entries)
	}
}

func golden(t *testing.T, name string, wantErr bool, args ...string) {
	t.Helper()
	// TODO: If rowfmt.Files supported fs.FS, we wouldn't need this.
	if err := os.Chdir("testdata"); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir("..")

	var got, gotErr bytes.Buffer
	t.Logf("aggregate %s", strings.Join(args, " "))
	err := run(&got, &gotErr, args)
	if err != nil && !wantErr {
		t.Fatalf("unexpected error: %s", err)
	} else if err == nil && wantErr {
		t.Fatalf("unexpected success")
	}

	compare(t, name, "stdout", got.Bytes())
	compare(t, name, "stderr", gotErr.Bytes())
}

func compare(t *testing.T, name, sub string, got []byte) {
	t.Helper()

	wantPath := name + "." + sub
	want, err := os.ReadFile(wantPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Treat a missing file as empty.
			want = nil
		} else {
			t.Fatal(err)
		}
	}

	d := diff.Diff(want, got)
	if d == "" {
		return
	}
	t.Errorf("%s %s:\n%s", name, sub, d)

	// Write a "got" file for reference.
	gotPath := name + ".got-" + sub
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}
}
