// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	var buf strings.Builder
	log := New(&buf, "subtract", false)
	log.Debug("hidden")
	log.Warn("missing base value", zap.Int64("key", 3))
	log.Sync()

	want := "WARN subtract missing base value {\"key\": 3}\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()
	log = New(&buf, "aggregate", true)
	log.Debug("shown")
	if got := buf.String(); got != "DEBUG aggregate shown\n" {
		t.Errorf("debug logger: got %q", got)
	}
}
