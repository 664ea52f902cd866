// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package blobio reads and writes file records from blob storage buckets,
// such as a local directory or an in memory bucket.
//
// Bucket URLs follow gocloud.dev conventions: "file:///path/to/dir" or "mem://".
package blobio

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"slices"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"lostluck.dev/props-go"
)

// OpenBucket opens the bucket at urlstr.
func OpenBucket(ctx context.Context, urlstr string) (*blob.Bucket, error) {
	b, err := blob.OpenBucket(ctx, urlstr)
	if err != nil {
		return nil, fmt.Errorf("opening bucket %q: %w", urlstr, err)
	}
	return b, nil
}

// List returns the keys in bucket whose base name matches pattern, sorted.
// The pattern syntax is that of path.Match.
func List(ctx context.Context, bucket *blob.Bucket, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	var keys []string
	it := bucket.List(nil)
	for {
		obj, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing bucket: %w", err)
		}
		if obj.IsDir {
			continue
		}
		if ok, _ := path.Match(pattern, path.Base(obj.Key)); ok {
			keys = append(keys, obj.Key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// readFn opens each key as a streamed file.
type readFn struct {
	bucket *blob.Bucket

	Output   props.PCol[props.File]
	Failures props.PCol[*props.ConversionError]

	Opened, Failed props.CounterInt64
}

func (fn *readFn) ProcessBundle(dfc *props.DFC[string]) error {
	return dfc.Process(func(ec props.ElmC, key string) error {
		r, err := fn.bucket.NewReader(ec.Context(), key, nil)
		if err != nil {
			fn.Failed.Inc(dfc, 1)
			dfc.Logger().Error("couldn't open file", "key", key, "err", err)
			fn.Failures.Emit(ec, props.NewConversionError(dfc.Name(), key, &props.StreamError{Err: err}))
			return nil
		}
		fn.Opened.Inc(dfc, 1)
		fn.Output.Emit(ec, props.File{Path: key, Contents: props.NewStream(r)})
		return nil
	})
}

// Read emits a File for each key, with its contents streamed from bucket.
// Keys that can't be opened are reported in the second output.
//
// The streams are closed by whatever consumes them, such as props.ConvertFiles.
func Read(s *props.Scope, bucket *blob.Bucket, keys props.PCol[string], opts ...props.Options) (props.PCol[props.File], props.PCol[*props.ConversionError]) {
	fn := props.ParDo(s, keys, &readFn{bucket: bucket}, append([]props.Options{props.Name("read")}, opts...)...)
	return fn.Output, fn.Failures
}

// writeFn stores the contents of each file under its path.
type writeFn struct {
	bucket *blob.Bucket

	Failures props.PCol[*props.ConversionError]

	Written, Failed props.CounterInt64
}

func (fn *writeFn) ProcessBundle(dfc *props.DFC[props.File]) error {
	return dfc.Process(func(ec props.ElmC, f props.File) error {
		if f.IsNull() {
			return nil
		}
		if err := write(ec.Context(), fn.bucket, f); err != nil {
			fn.Failed.Inc(dfc, 1)
			dfc.Logger().Error("couldn't write file", "key", f.Path, "err", err)
			fn.Failures.Emit(ec, props.NewConversionError(dfc.Name(), f.Path, err))
			return nil
		}
		fn.Written.Inc(dfc, 1)
		dfc.Logger().Debug("wrote file", "key", f.Path)
		return nil
	})
}

func contentType(ext string) string {
	switch ext {
	case ".json":
		return "application/json"
	case ".js":
		return "text/javascript"
	}
	return mime.TypeByExtension(ext)
}

func write(ctx context.Context, bucket *blob.Bucket, f props.File) error {
	opts := &blob.WriterOptions{ContentType: contentType(f.Ext())}
	switch c := f.Contents.(type) {
	case props.Buffer:
		return bucket.WriteAll(ctx, f.Path, c, opts)
	case *props.Stream:
		defer c.Close()
		// Cancelling the context aborts the write.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		w, err := bucket.NewWriter(ctx, f.Path, opts)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, c); err != nil {
			cancel()
			w.Close()
			return &props.StreamError{Err: err}
		}
		return w.Close()
	}
	return fmt.Errorf("unknown contents type %T", f.Contents)
}

// Write stores each file in bucket under its path. Files without contents
// are skipped. Files that can't be written are reported in the output.
func Write(s *props.Scope, bucket *blob.Bucket, files props.PCol[props.File], opts ...props.Options) props.PCol[*props.ConversionError] {
	fn := props.ParDo(s, files, &writeFn{bucket: bucket}, append([]props.Options{props.Name("write")}, opts...)...)
	return fn.Failures
}
