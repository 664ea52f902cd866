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

package propsopts

import (
	"log/slog"

	"lostluck.dev/props-go/internal"
)

// Options is the common options type shared across props packages.
type Options interface {
	// PropsOptions is exported so related props packages can implement Options.
	PropsOptions(internal.NotForPublicUse)
}

// ReplaceFunc filters or rewrites a property before it's serialized as JSON.
// Returning false drops the property.
type ReplaceFunc func(key, value string) (any, bool)

// Struct is the combination of all options in struct form.
// This is efficient to pass down the call stack and to query.
//
// Pointer fields distinguish an explicit zero value from an unset one.
type Struct struct {
	Name      string       // The configured name of the options target. Otherwise it's defaulted.
	Namespace *string      // Script namespace. Empty selects JSON output.
	Indent    *string      // Resolved JSON indentation. Empty is compact.
	Replacer  ReplaceFunc  // JSON replacer function.
	AllowKeys []string     // JSON replacer allowlist. Nil means all keys.
	AppendExt *bool        // Append the output extension instead of replacing.
	Charset   string       // IANA name of the input encoding.
	Logger    *slog.Logger // Destination for warnings.
}

func (dst *Struct) PropsOptions(internal.NotForPublicUse) {}

// Join merges srcs into dst. Properties set in later options override those
// set earlier. A replacer function and an allowlist replace each other.
func (dst *Struct) Join(srcs ...Options) {
	for _, src := range srcs {
		switch src := src.(type) {
		case *Struct:
			if src.Name != "" {
				dst.Name = src.Name
			}
			if src.Namespace != nil {
				ns := *src.Namespace
				dst.Namespace = &ns
			}
			if src.Indent != nil {
				in := *src.Indent
				dst.Indent = &in
			}
			if src.Replacer != nil {
				dst.Replacer = src.Replacer
				dst.AllowKeys = nil
			}
			if src.AllowKeys != nil {
				dst.AllowKeys = append([]string{}, src.AllowKeys...)
				dst.Replacer = nil
			}
			if src.AppendExt != nil {
				ae := *src.AppendExt
				dst.AppendExt = &ae
			}
			if src.Charset != "" {
				dst.Charset = src.Charset
			}
			if src.Logger != nil {
				dst.Logger = src.Logger
			}
		}
	}
}
