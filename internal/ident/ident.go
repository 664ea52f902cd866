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

// Package ident validates JavaScript identifiers used as output namespaces.
package ident

import (
	"fmt"
	"log/slog"
	"strings"
)

// reserved are the words that cannot name a JavaScript variable, including
// future reserved and strict mode words and the literal keywords.
var reserved = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true,
}

// ReservedWordError is returned when a namespace is a reserved word.
type ReservedWordError struct {
	Word string
}

func (e *ReservedWordError) Error() string {
	return fmt.Sprintf("namespace option cannot be a reserved word: %q", e.Word)
}

// IsReserved reports whether word is a JavaScript reserved word.
func IsReserved(word string) bool {
	return reserved[word]
}

// Sanitize maps every rune outside [A-Za-z0-9_$] to '_', and prefixes
// a leading digit with '_'.
func Sanitize(raw string) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9', r == '_', r == '$':
			return r
		}
		return '_'
	}, raw)
	if id != "" && '0' <= id[0] && id[0] <= '9' {
		id = "_" + id
	}
	return id
}

// Validate checks raw against the reserved words, then sanitizes it.
// A renamed identifier is logged as a warning on logger.
func Validate(raw string, logger *slog.Logger) (string, error) {
	if IsReserved(raw) {
		return "", &ReservedWordError{Word: raw}
	}
	id := Sanitize(raw)
	if id != raw && logger != nil {
		logger.Warn("namespace option was renamed to be a valid variable name", slog.String("namespace", raw), slog.String("identifier", id))
	}
	return id, nil
}
