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
	"log/slog"
	"strings"

	"golang.org/x/exp/constraints"
	"lostluck.dev/props-go/internal/propsopts"
)

// Options configure Run, ParDo, and conversions with specific features.
// Each function takes a variadic list of options, where properties
// set in later options override the value of previously set properties.
type Options = propsopts.Options

// DefaultNamespace is the namespace used when none is configured.
const DefaultNamespace = "config"

// maxIndent is the longest indentation JSON output uses.
const maxIndent = 10

// Name sets the name of the pipeline or transform in question, typically
// to make it easier to refer to.
func Name(name string) Options {
	return &propsopts.Struct{
		Name: name,
	}
}

// Namespace sets the variable the namespaced script assigns properties onto.
// An empty namespace selects JSON output instead.
//
// Namespaces that aren't valid identifiers are renamed with a warning.
// Reserved words fail the conversion.
func Namespace(ns string) Options {
	return &propsopts.Struct{
		Namespace: &ns,
	}
}

// JSON selects JSON output. It's equivalent to Namespace("").
func JSON() Options {
	return Namespace("")
}

// Indent pretty prints JSON output with n spaces per level, up to 10.
// Values below 1 produce compact output.
func Indent[N constraints.Integer](n N) Options {
	in := ""
	if n > 0 {
		in = strings.Repeat(" ", int(min(n, maxIndent)))
	}
	return &propsopts.Struct{
		Indent: &in,
	}
}

// IndentString pretty prints JSON output with the first 10 characters of s
// as the indentation per level. An empty string produces compact output.
func IndentString(s string) Options {
	if r := []rune(s); len(r) > maxIndent {
		s = string(r[:maxIndent])
	}
	return &propsopts.Struct{
		Indent: &s,
	}
}

// ReplaceFunc filters JSON output through fn. fn receives every property and
// returns the value to serialize in its place, or false to drop the property.
// Any value json.Marshal accepts may be returned.
//
// ReplaceFunc and AllowKeys replace each other.
func ReplaceFunc(fn func(key, value string) (any, bool)) Options {
	return &propsopts.Struct{
		Replacer: fn,
	}
}

// AllowKeys limits JSON output to the listed keys, in the listed order.
func AllowKeys(keys ...string) Options {
	if keys == nil {
		keys = []string{}
	}
	return &propsopts.Struct{
		AllowKeys: keys,
	}
}

// AppendExt configures whether the output extension is appended to the file
// path, rather than replacing the existing extension.
func AppendExt(v bool) Options {
	return &propsopts.Struct{
		AppendExt: &v,
	}
}

// Charset sets the IANA name of the input encoding, such as "ISO-8859-1".
// Input is UTF-8 by default.
func Charset(name string) Options {
	return &propsopts.Struct{
		Charset: name,
	}
}

// Logger sets where warnings, such as namespace renames, are written.
// Defaults to slog.Default().
func Logger(l *slog.Logger) Options {
	return &propsopts.Struct{
		Logger: l,
	}
}
