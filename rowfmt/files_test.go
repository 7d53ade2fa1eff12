// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rowfmt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
)

func TestFiles(t *testing.T) {
	dir := filepath.Join("testdata", "files")
	a, b, c := filepath.Join(dir, "a"), filepath.Join(dir, "b"), filepath.Join(dir, "c")

	check := func(f *Files, want ...string) {
		t.Helper()
		for f.Scan() {
			switch rec := f.Result(); rec := rec.(type) {
			default:
				t.Fatalf("unexpected record type %T", rec)
			case *SyntaxError:
				t.Fatalf("unexpected syntax error %s", rec)
			case *Row:
				if len(want) == 0 {
					t.Errorf("got row, want end of stream")
					return
				}
				name, line := rec.Pos()
				got := fmt.Sprintf("%s:%d %d", filepath.Base(name), line, rec.Key)
				if got != want[0] {
					t.Errorf("got %q, want %q", got, want[0])
				}
				want = want[1:]
			}
		}

		err := f.Err()
		wantErr := ""
		if len(want) == 1 && strings.HasPrefix(want[0], "err ") {
			wantErr = want[0][len("err "):]
			want = want[1:]
		}
		if err == nil && wantErr != "" {
			t.Errorf("got success, want error %s", wantErr)
		} else if err != nil && wantErr == "" {
			t.Errorf("got error %s", err)
		} else if err != nil && err.Error() != wantErr {
			t.Errorf("got error %s, want error %s", err, wantErr)
		}
		if len(want) != 0 {
			t.Errorf("got end of stream, want %v", want)
		}
	}

	check(&Files{Paths: []string{a, b}}, "a:2 1", "a:3 2", "b:2 3")
	check(&Files{Paths: []string{a, b, c}},
		"a:2 1", "a:3 2", "b:2 3", "err open "+c+": "+syscall.ENOENT.Error())

	// Without AllowStdin, "-" is an ordinary path.
	check(&Files{Paths: []string{"-"}}, "err open -: "+syscall.ENOENT.Error())
	fakeStdin("9 1\n", func() {
		check(&Files{AllowStdin: true}, "-:1 9")
	})

	// Custom opener.
	opened := []string{}
	check(&Files{
		Paths: []string{"x", "y"},
		Open: func(path string) (io.ReadCloser, error) {
			opened = append(opened, path)
			return io.NopCloser(strings.NewReader("4 " + path + "\n")), nil
		},
	}, "x:1 4", "y:1 4")
	if strings.Join(opened, ",") != "x,y" {
		t.Errorf("opened %v, want [x y]", opened)
	}
}

func fakeStdin(content string, cb func()) {
	r, w, err := os.Pipe()
	if err != nil {
		panic(err)
	}
	go func() {
		defer w.Close()
		w.WriteString(content)
	}()
	defer r.Close()
	defer func(orig *os.File) { os.Stdin = orig }(os.Stdin)
	os.Stdin = r
	cb()
}
