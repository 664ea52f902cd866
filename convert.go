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
	"bytes"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"lostluck.dev/props-go/internal/ident"
	"lostluck.dev/props-go/internal/propsopts"
	"lostluck.dev/props-go/properties"
)

// conversion is the view of the options for converting a single file.
// It's derived for every file, so a sanitized namespace never leaks back
// into the options it came from.
type conversion struct {
	name      string
	namespace string // Sanitized. Empty in JSON mode.
	indent    string
	replacer  propsopts.ReplaceFunc
	allowKeys []string
	appendExt bool
	decoder   encoding.Encoding
	logger    *slog.Logger
}

// resolve derives the conversion for opt. The name and logger are always
// set, even when an error is returned.
func resolve(opt propsopts.Struct) (conversion, error) {
	c := conversion{
		name:      component,
		namespace: DefaultNamespace,
		replacer:  opt.Replacer,
		allowKeys: opt.AllowKeys,
		logger:    slog.Default(),
	}
	if opt.Name != "" {
		c.name = opt.Name
	}
	if opt.Logger != nil {
		c.logger = opt.Logger
	}
	c.logger = c.logger.With(slog.String("component", c.name))
	if opt.Namespace != nil {
		c.namespace = *opt.Namespace
	}
	if opt.Indent != nil {
		c.indent = *opt.Indent
	}
	if opt.AppendExt != nil {
		c.appendExt = *opt.AppendExt
	}
	if opt.Charset != "" {
		enc, err := ianaindex.IANA.Encoding(opt.Charset)
		if err != nil {
			return c, fmt.Errorf("unknown charset %q: %w", opt.Charset, err)
		}
		if enc == nil {
			return c, fmt.Errorf("unsupported charset %q", opt.Charset)
		}
		c.decoder = enc
	}
	if c.namespace != "" {
		ns, err := ident.Validate(c.namespace, c.logger)
		if err != nil {
			return c, err
		}
		c.namespace = ns
	}
	return c, nil
}

// Convert serializes m as JSON, or as a namespaced script, per opts.
func Convert(m *properties.Map, opts ...Options) ([]byte, error) {
	var opt propsopts.Struct
	opt.Join(opts...)
	c, err := resolve(opt)
	if err != nil {
		return nil, err
	}
	return c.serialize(m)
}

// CheckOptions reports whether opts would be rejected by a conversion,
// such as for a reserved namespace or an unknown charset. Nothing is logged.
func CheckOptions(opts ...Options) error {
	var opt propsopts.Struct
	opt.Join(opts...)
	opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := resolve(opt)
	return err
}

// OutputPath returns the path a file converted with opts is written to.
// The extension becomes ".js" for namespaced scripts and ".json" otherwise.
// With AppendExt(true) the extension is appended instead.
func OutputPath(path string, opts ...Options) string {
	var opt propsopts.Struct
	opt.Join(opts...)
	ns := DefaultNamespace
	if opt.Namespace != nil {
		ns = *opt.Namespace
	}
	return outputPath(path, ns != "", opt.AppendExt != nil && *opt.AppendExt)
}

func outputPath(path string, script, appendExt bool) string {
	ext := ".json"
	if script {
		ext = ".js"
	}
	if appendExt {
		return path + ext
	}
	return path[:extIndex(path)] + ext
}

// ConvertFile converts the contents of f, returning a new File with the
// converted contents and path. f is never modified.
//
// Files without contents are returned as is. Streamed contents are drained
// completely before converting, and the result is returned as a new stream.
// Failures are always a *ConversionError.
func ConvertFile(f File, opts ...Options) (File, error) {
	var opt propsopts.Struct
	opt.Join(opts...)
	out, cerr := convertFile(f, opt)
	if cerr != nil {
		return File{}, cerr
	}
	return out, nil
}

func convertFile(f File, opt propsopts.Struct) (File, *ConversionError) {
	if f.IsNull() {
		return f, nil
	}
	c, err := resolve(opt)
	if err != nil {
		if s, ok := f.Contents.(*Stream); ok {
			s.Close()
		}
		return File{}, NewConversionError(c.name, f.Path, err)
	}
	var data []byte
	switch contents := f.Contents.(type) {
	case Buffer:
		data = contents
	case *Stream:
		if data, err = contents.drain(); err != nil {
			return File{}, NewConversionError(c.name, f.Path, &StreamError{Err: err})
		}
	}
	out, err := c.convertBytes(data)
	if err != nil {
		return File{}, NewConversionError(c.name, f.Path, err)
	}
	res := File{Path: outputPath(f.Path, c.namespace != "", c.appendExt)}
	if f.IsStream() {
		res.Contents = singleChunk(out)
	} else {
		res.Contents = Buffer(out)
	}
	return res, nil
}

func (c conversion) convertBytes(data []byte) ([]byte, error) {
	if c.decoder != nil {
		decoded, err := c.decoder.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decoding input: %w", err)
		}
		data = decoded
	}
	m, err := properties.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return c.serialize(m)
}

func (c conversion) serialize(m *properties.Map) ([]byte, error) {
	if c.namespace == "" {
		return c.marshalJSON(m)
	}
	return c.script(m), nil
}

// entries applies the allowlist, if any, to m.
func (c conversion) entries(m *properties.Map) iter.Seq2[string, string] {
	if c.allowKeys == nil {
		return m.All()
	}
	return func(yield func(string, string) bool) {
		seen := map[string]bool{}
		for _, k := range c.allowKeys {
			if seen[k] {
				continue
			}
			seen[k] = true
			if v, ok := m.Get(k); ok {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// marshalJSON writes a flat JSON object in insertion order. Output matches
// JSON.stringify: no HTML escaping, ": " between pretty printed members,
// and no trailing newline.
func (c conversion) marshalJSON(m *properties.Map) ([]byte, error) {
	var buf bytes.Buffer
	var jopts []jsontext.Options
	// jsontext only indents with spaces and tabs. Any other indent is laid
	// out with a tab per level and substituted afterwards.
	indent, substitute := c.indent, false
	if strings.Trim(indent, " \t") != "" {
		indent, substitute = "\t", true
	}
	if indent != "" {
		jopts = append(jopts, jsontext.WithIndent(indent), jsontext.SpaceAfterColon(true))
	}
	enc := jsontext.NewEncoder(&buf, jopts...)
	if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
		return nil, err
	}
	n := 0
	for k, v := range c.entries(m) {
		var val any = v
		if c.replacer != nil {
			var keep bool
			if val, keep = c.replacer(k, v); !keep {
				continue
			}
		}
		if err := enc.WriteToken(jsontext.String(k)); err != nil {
			return nil, err
		}
		if err := json.MarshalEncode(enc, val); err != nil {
			return nil, fmt.Errorf("marshalling property %q: %w", k, err)
		}
		n++
	}
	if n == 0 {
		return []byte("{}"), nil
	}
	if err := enc.WriteToken(jsontext.ObjectEnd); err != nil {
		return nil, err
	}
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if substitute {
		out = reindent(out, c.indent)
	}
	return out, nil
}

// reindent replaces the leading tabs of every line with indent, one per tab.
// Encoded strings never hold a raw tab or newline, so only indentation matches.
func reindent(b []byte, indent string) []byte {
	lines := bytes.Split(b, []byte("\n"))
	for i, l := range lines {
		rest := bytes.TrimLeft(l, "\t")
		if depth := len(l) - len(rest); depth > 0 {
			lines[i] = append([]byte(strings.Repeat(indent, depth)), rest...)
		}
	}
	return bytes.Join(lines, []byte("\n"))
}

var (
	keyEscaper = strings.NewReplacer(
		`\`, `\\`, `'`, `\'`,
		"\n", `\n`, "\r", `\r`, "\u2028", `\u2028`, "\u2029", `\u2029`)
	valueEscaper = strings.NewReplacer(
		`\`, `\\`, `"`, `\"`, `'`, `\'`,
		"\n", `\n`, "\r", `\r`, "\u2028", `\u2028`, "\u2029", `\u2029`)
)

// script writes one assignment per property onto the namespace object.
func (c conversion) script(m *properties.Map) []byte {
	var b bytes.Buffer
	ns := c.namespace
	fmt.Fprintf(&b, "var %s = %s || {};\n", ns, ns)
	for k, v := range m.All() {
		fmt.Fprintf(&b, "%s['%s'] = '%s';\n", ns, keyEscaper.Replace(k), valueEscaper.Replace(v))
	}
	return b.Bytes()
}
