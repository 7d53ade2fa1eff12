// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package archivetest opens empty archives for tests.
package archivetest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"strings"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	_ "github.com/go-sql-driver/mysql"

	"golang.org/x/benchagg/archive"
	_ "golang.org/x/benchagg/archive/sqlite3"
)

var cloud = flag.Bool("cloud", false, "connect to Cloud SQL database instead of in-memory SQLite")
var cloudsql = flag.String("cloudsql", "golang-org:us-central1:golang-org", "name of Cloud SQL instance to run tests on")

// cloudDB creates a throwaway database on the Cloud SQL instance and
// returns its DSN. The database is dropped when the test finishes.
func cloudDB(t *testing.T) string {
	t.Helper()
	var suffix [6]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		t.Fatal(err)
	}
	name := fmt.Sprintf("benchagg_%s_%x", strings.ToLower(t.Name()), suffix)
	name = strings.Map(func(r rune) rune {
		if r == '_' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			return r
		}
		return '_'
	}, name)
	if len(name) > 64 {
		name = name[len(name)-64:]
	}

	server := fmt.Sprintf("root:@cloudsql(%s)/", *cloudsql)
	admin, err := sql.Open("mysql", server)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := admin.Exec("CREATE DATABASE `" + name + "`"); err != nil {
		admin.Close()
		t.Fatalf("creating database: %v", err)
	}
	t.Logf("using Cloud SQL database %s", name)
	t.Cleanup(func() {
		if _, err := admin.Exec("DROP DATABASE `" + name + "`"); err != nil {
			t.Errorf("dropping database %s: %v", name, err)
		}
		admin.Close()
	})
	return server + name
}

// NewDB makes a connection to a testing archive, either sqlite3 or
// Cloud SQL depending on the -cloud flag. The archive is closed when
// the test finishes.
func NewDB(t *testing.T) *archive.DB {
	t.Helper()
	driverName, dataSourceName := "sqlite3", ":memory:"
	if *cloud {
		driverName, dataSourceName = "mysql", cloudDB(t)
	}
	d, err := archive.OpenSQL(driverName, dataSourceName)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	// Registered after cloudDB's cleanup, so this runs first.
	t.Cleanup(func() { d.Close() })

	runs, err := d.CountRuns(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if runs != 0 {
		t.Fatalf("found %d row(s) in Runs, want 0", runs)
	}
	return d
}
