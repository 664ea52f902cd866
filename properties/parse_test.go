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

package properties

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type kv struct{ K, V string }

func entries(m *Map) []kv {
	var out []kv
	for k, v := range m.All() {
		out = append(out, kv{k, v})
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []kv
	}{
		{
			name:  "empty",
			input: "",
		}, {
			name:  "comments only",
			input: "# a comment\n   ! another\n\n\t\n",
		}, {
			name:  "simple",
			input: "! Java .properties files are a good choice for internationalization and localization\nname = Gulp\nmessage = Hello!",
			want:  []kv{{"name", "Gulp"}, {"message", "Hello!"}},
		}, {
			name:  "separators",
			input: "a=1\nb:2\nc 3\nd   =   4\ne\t:\t5",
			want:  []kv{{"a", "1"}, {"b", "2"}, {"c", "3"}, {"d", "4"}, {"e", "5"}},
		}, {
			name:  "key only",
			input: "lonely\nempty =",
			want:  []kv{{"lonely", ""}, {"empty", ""}},
		}, {
			name:  "second separator belongs to the value",
			input: "k = = v\nurl=http://example.com:8080",
			want:  []kv{{"k", "= v"}, {"url", "http://example.com:8080"}},
		}, {
			name:  "trailing whitespace trimmed",
			input: "k = v   \t\nescaped = v\\ ",
			want:  []kv{{"k", "v"}, {"escaped", "v "}},
		}, {
			name: "special characters with continuations",
			input: strings.Join([]string{
				"! Special characters test",
				"\n",
				`a\#b\!c\=d\: = AAAA\#BBBB\`,
				`               \!CCCC\=\`,
				`       DDDD\:EEEE`,
			}, "\n"),
			want: []kv{{"a#b!c=d:", "AAAA#BBBB!CCCC=DDDD:EEEE"}},
		}, {
			name:  "escaped backslash is not a continuation",
			input: "path = C:\\\\dir\\\\\nnext = 1",
			want:  []kv{{"path", `C:\dir\`}, {"next", "1"}},
		}, {
			name:  "continuation at end of input",
			input: "k = v\\",
			want:  []kv{{"k", "v"}},
		}, {
			name:  "comments do not continue",
			input: "# comment \\\nk = v",
			want:  []kv{{"k", "v"}},
		}, {
			name:  "control escapes",
			input: `k = a\tb\nc\rd\fe`,
			want:  []kv{{"k", "a\tb\nc\rd\fe"}},
		}, {
			name:  "unicode escapes",
			input: `greeting = \u00e9t\u00E9 \ud83d\ude00`,
			want:  []kv{{"greeting", "été 😀"}},
		}, {
			name:  "escaped space in key",
			input: `my\ key = value`,
			want:  []kv{{"my key", "value"}},
		}, {
			name:  "line endings",
			input: "a=1\r\nb=2\rc=3\n",
			want:  []kv{{"a", "1"}, {"b", "2"}, {"c", "3"}},
		}, {
			name:  "duplicates keep first position",
			input: "a=1\nb=2\na=3",
			want:  []kv{{"a", "3"}, {"b", "2"}},
		}, {
			name:  "invalid utf8 replaced",
			input: "k = \xff",
			want:  []kv{{"k", "\uFFFD"}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := Parse(test.input)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", test.input, err)
			}
			if d := cmp.Diff(test.want, entries(m)); d != "" {
				t.Errorf("Parse(%q) diff (-want, +got):\n%v", test.input, d)
			}
		})
	}
}

func TestParse_malformedUnicode(t *testing.T) {
	tests := []struct {
		input      string
		wantLine   int
		wantEscape string
	}{
		{"k = \\u12", 1, `\u12`},
		{"a = 1\nk = \\u12zz", 2, `\u12zz`},
		{"a = 1\n\\uXYZW = v", 2, `\uXYZW`},
		{"k = one\\\n  two \\u", 1, `\u`},
	}
	for _, test := range tests {
		_, err := Parse(test.input)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Parse(%q) = %v, want a *ParseError", test.input, err)
		}
		if perr.Line != test.wantLine || perr.Escape != test.wantEscape {
			t.Errorf("Parse(%q) = %+v, want line %v escape %q", test.input, perr, test.wantLine, test.wantEscape)
		}
	}
}

func TestMap(t *testing.T) {
	m := New()
	m.Set("b", "1")
	m.Set("a", "2")
	m.Set("c", "3")
	m.Set("b", "4")
	m.Delete("a")
	m.Delete("missing")

	if got, want := m.Keys(), []string{"b", "c"}; !cmp.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if got, ok := m.Get("b"); !ok || got != "4" {
		t.Errorf("Get(b) = %q, %v, want %q, true", got, ok, "4")
	}
	if _, ok := m.Get("a"); ok {
		t.Error("Get(a) found a deleted key")
	}
	if got, want := m.Len(), 2; got != want {
		t.Errorf("Len() = %v, want %v", got, want)
	}
}

func TestEncode_roundTrip(t *testing.T) {
	m := New()
	m.Set("name", "Gulp")
	m.Set("message", "Hello world")
	m.Set("app.version", "1.2.3")
	m.Set("url", "a=b")
	m.Set("empty", "")

	data, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("ParseBytes(%q) failed: %v", data, err)
	}
	if d := cmp.Diff(entries(m), entries(got)); d != "" {
		t.Errorf("round trip through\n%s\ndiff (-want, +got):\n%v", data, d)
	}
}
