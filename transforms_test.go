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

package props

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

func TestConvertFiles(t *testing.T) {
	boom := errors.New("boom")
	files := []File{
		bufferFile("a.properties", "name = Gulp"),
		bufferFile("bad.properties", "k = \\u12"),
		{Path: "null.properties"},
		streamFile("b.properties", "message = Hello!"),
		{Path: "broken.properties", Contents: NewStream(io.MultiReader(strings.NewReader("a = 1"), iotest.ErrReader(boom)))},
		bufferFile("c.properties", ""),
	}

	var converted *Collector[File]
	var failed *Collector[*ConversionError]
	pr, err := Run(context.Background(), func(s *Scope) error {
		out, failures := ConvertFiles(s, Create(s, files...), Namespace("123"), quietLogger())
		converted = Collect(s, out)
		failed = Collect(s, failures)
		return nil
	}, quietLogger())
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	type result struct{ Path, Contents string }
	var got []result
	for _, f := range converted.Elements() {
		r := result{Path: f.Path}
		if !f.IsNull() {
			r.Contents = readContents(t, f)
		}
		got = append(got, r)
	}
	want := []result{
		{"a.js", "var _123 = _123 || {};\n_123['name'] = 'Gulp';\n"},
		{"null.properties", ""},
		{"b.js", "var _123 = _123 || {};\n_123['message'] = 'Hello!';\n"},
		{"c.js", "var _123 = _123 || {};\n"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("converted files diff (-want, +got):\n%v", d)
	}

	var gotFailed []string
	for _, cerr := range failed.Elements() {
		gotFailed = append(gotFailed, cerr.Path)
	}
	if d := cmp.Diff([]string{"bad.properties", "broken.properties"}, gotFailed); d != "" {
		t.Errorf("failed files diff (-want, +got):\n%v", d)
	}
	if cerr := failed.Elements()[1]; !errors.Is(cerr, boom) {
		t.Errorf("stream failure = %v, want it to wrap %v", cerr, boom)
	}

	wantCounters := map[string]int64{
		"props.Converted":   3,
		"props.Failed":      2,
		"props.Skipped":     1,
		"collect.Collected": 6,
	}
	if d := cmp.Diff(wantCounters, pr.Counters); d != "" {
		t.Errorf("counters diff (-want, +got):\n%v", d)
	}
}

func TestConvertFiles_stringIndent(t *testing.T) {
	var converted *Collector[File]
	pr, err := Run(context.Background(), func(s *Scope) error {
		files := Create(s, bufferFile("a.properties", "a = 1"), streamFile("b.properties", "b = 2"))
		out, _ := ConvertFiles(s, files, JSON(), IndentString("--"), quietLogger())
		converted = Collect(s, out)
		return nil
	}, quietLogger())
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	var got []string
	for _, f := range converted.Elements() {
		got = append(got, readContents(t, f))
	}
	want := []string{"{\n--\"a\": \"1\"\n}", "{\n--\"b\": \"2\"\n}"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("converted contents diff (-want, +got):\n%v", d)
	}
	if got, want := pr.Counters["props.Converted"], int64(2); got != want {
		t.Errorf("props.Converted = %v, want %v", got, want)
	}
}

func TestConvertFiles_named(t *testing.T) {
	pr, err := Run(context.Background(), func(s *Scope) error {
		out, _ := ConvertFiles(s, Create(s, bufferFile("a.properties", "a=1")), Name("i18n"), JSON())
		Collect(s, out)
		return nil
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if got, want := pr.Counters["i18n.Converted"], int64(1); got != want {
		t.Errorf("i18n.Converted = %v, want %v", got, want)
	}
}
