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
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ParseError reports a malformed unicode escape in .properties text.
// It is the only error Parse returns; any other irregular input is
// parsed on a best effort basis.
type ParseError struct {
	Line   int    // Line the offending entry starts on, counting from 1.
	Escape string // The malformed escape as it appears in the source.
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("properties: line %d: malformed unicode escape %q", e.Line, e.Escape)
}

// ParseBytes is Parse for a byte slice.
func ParseBytes(b []byte) (*Map, error) {
	return Parse(string(b))
}

// Parse reads .properties text into an ordered Map.
//
// Lines starting with '#' or '!' are comments. A key ends at the first
// unescaped '=', ':' or whitespace, and is separated from its value by
// optional whitespace and at most one '=' or ':'. A line ending in an
// unescaped backslash continues on the next line, minus that line's
// leading whitespace.
func Parse(text string) (*Map, error) {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	m := New()
	lines := splitLines(text)
	for i := 0; i < len(lines); i++ {
		start := i + 1
		line := trimLeft(lines[i])
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}
		for continues(line) {
			line = line[:len(line)-1]
			if i+1 >= len(lines) {
				break
			}
			i++
			line += trimLeft(lines[i])
		}
		rawKey, rawValue := split(line)
		key, err := unescape(rawKey, start)
		if err != nil {
			return nil, err
		}
		value, err := unescape(rawValue, start)
		if err != nil {
			return nil, err
		}
		m.Set(key, value)
	}
	return m, nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f'
}

func trimLeft(s string) string {
	return strings.TrimLeft(s, " \t\f")
}

// trailingBackslashes counts the run of backslashes ending s.
func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n
}

func continues(line string) bool {
	return trailingBackslashes(line)%2 == 1
}

// split separates a logical line into its raw, still escaped, key and value.
func split(line string) (key, value string) {
	i := 0
	for i < len(line) {
		c := line[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c == '=' || c == ':' || isSpace(c) {
			break
		}
		i++
	}
	i = min(i, len(line))
	key = line[:i]
	rest := trimLeft(line[i:])
	if rest != "" && (rest[0] == '=' || rest[0] == ':') {
		rest = trimLeft(rest[1:])
	}
	return key, trimRight(rest)
}

// trimRight drops trailing whitespace that isn't escaped.
func trimRight(s string) string {
	for len(s) > 0 && isSpace(s[len(s)-1]) {
		if trailingBackslashes(s[:len(s)-1])%2 == 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// unicodeAt decodes the four hex digits following the "\u" that ends at s[i].
func unicodeAt(s string, i, line int) (rune, error) {
	if i+5 > len(s) || !isHex(s[i+1:i+5]) {
		return 0, &ParseError{Line: line, Escape: s[i-1 : min(i+5, len(s))]}
	}
	v, _ := strconv.ParseUint(s[i+1:i+5], 16, 32)
	return rune(v), nil
}

func unescape(s string, line int) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(s) {
			break
		}
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			r, err := unicodeAt(s, i, line)
			if err != nil {
				return "", err
			}
			i += 4
			if utf16.IsSurrogate(r) && i+2 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				r2, err := unicodeAt(s, i+2, line)
				if err != nil {
					return "", err
				}
				if pair := utf16.DecodeRune(r, r2); pair != utf8.RuneError {
					r = pair
					i += 6
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}
