// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package source opens command inputs, which may be local files or
// Google Cloud Storage objects named gs://bucket/object.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const gcsScheme = "gs://"

// ParseGCS splits a gs://bucket/object path. ok is false if path does
// not use the gs scheme.
func ParseGCS(path string) (bucket, object string, ok bool, err error) {
	if !strings.HasPrefix(path, gcsScheme) {
		return "", "", false, nil
	}
	rest := path[len(gcsScheme):]
	i := strings.IndexByte(rest, '/')
	if i <= 0 || i == len(rest)-1 {
		return "", "", true, fmt.Errorf("malformed GCS path %q (want gs://bucket/object)", path)
	}
	return rest[:i], rest[i+1:], true, nil
}

// An Opener opens input paths. The zero value is not usable; use
// NewOpener.
type Opener struct {
	ctx    context.Context
	client *storage.Client

	// NewClient creates the Cloud Storage client on first use of a
	// gs:// path. It defaults to a read-only client using
	// application default credentials.
	NewClient func(ctx context.Context) (*storage.Client, error)
}

// NewOpener returns an Opener whose network reads are bound to ctx.
func NewOpener(ctx context.Context) *Opener {
	return &Opener{ctx: ctx, NewClient: defaultClient}
}

func defaultClient(ctx context.Context) (*storage.Client, error) {
	ts, err := google.DefaultTokenSource(ctx, storage.ScopeReadOnly)
	if err != nil {
		return nil, fmt.Errorf("finding GCS credentials: %w", err)
	}
	return storage.NewClient(ctx, option.WithTokenSource(ts))
}

// Open opens path for reading.
func (o *Opener) Open(path string) (io.ReadCloser, error) {
	bucket, object, isGCS, err := ParseGCS(path)
	if err != nil {
		return nil, err
	}
	if !isGCS {
		return os.Open(path)
	}
	if o.client == nil {
		c, err := o.NewClient(o.ctx)
		if err != nil {
			return nil, err
		}
		o.client = c
	}
	r, err := o.client.Bucket(bucket).Object(object).NewReader(o.ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return r, nil
}

// Close releases the Cloud Storage client, if one was created.
func (o *Opener) Close() error {
	if o.client == nil {
		return nil
	}
	err := o.client.Close()
	o.client = nil
	return err
}
