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
	"fmt"
	"io"

	"github.com/pkg/errors"
	"lostluck.dev/props-go/internal/ident"
	"lostluck.dev/props-go/properties"
)

// component names the conversion in errors and logs when no Name is set.
const component = "props"

// ReservedWordError is returned when the namespace is a JavaScript reserved
// word. It's checked before the namespace is sanitized.
type ReservedWordError = ident.ReservedWordError

// ParseError is returned for a malformed unicode escape in the input.
type ParseError = properties.ParseError

// StreamError wraps a failure while draining streamed file contents.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return "stream error: " + e.Err.Error()
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// ConversionError reports the failure to convert a single file.
//
// Err carries the stack of where the failure was recorded, printed with "%+v".
type ConversionError struct {
	Path      string // Path of the file that failed.
	Component string // The transform that failed.
	Err       error
}

// NewConversionError attributes err to the file at path.
func NewConversionError(component, path string, err error) *ConversionError {
	return &ConversionError{Path: path, Component: component, Err: errors.WithStack(err)}
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Component, e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func (e *ConversionError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s: %s: %+v", e.Component, e.Path, e.Err)
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}
