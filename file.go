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
	"io"
	"os"
	"strings"
)

// Contents is the payload of a File. It's nil when the file has no
// contents, a Buffer when they're fully in memory, or a *Stream when
// they're still arriving.
type Contents interface {
	isContents()
}

// Buffer is fully buffered file contents.
type Buffer []byte

func (Buffer) isContents() {}

// Stream is file contents that are read incrementally.
// A Stream is drained and closed by the conversion that consumes it.
type Stream struct {
	io.ReadCloser
}

func (*Stream) isContents() {}

// NewStream wraps r as file contents. If r is an io.Closer, it's closed
// once drained.
func NewStream(r io.Reader) *Stream {
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}
	return &Stream{ReadCloser: rc}
}

// drain reads the stream to completion, in order, and closes it.
func (s *Stream) drain() ([]byte, error) {
	data, err := io.ReadAll(s.ReadCloser)
	cerr := s.Close()
	if err != nil {
		return nil, err
	}
	return data, cerr
}

// singleChunk presents converted bytes as a new stream.
func singleChunk(data []byte) *Stream {
	return NewStream(bytes.NewReader(data))
}

// File is a file record flowing through a build pipeline.
type File struct {
	Path     string
	Contents Contents
}

// IsNull reports whether the file has no contents.
func (f File) IsNull() bool {
	switch c := f.Contents.(type) {
	case nil:
		return true
	case *Stream:
		return c == nil
	}
	return false
}

// IsBuffer reports whether the file contents are fully buffered.
func (f File) IsBuffer() bool {
	_, ok := f.Contents.(Buffer)
	return ok
}

// IsStream reports whether the file contents are a stream.
func (f File) IsStream() bool {
	return !f.IsNull() && !f.IsBuffer()
}

// Base returns the last element of the file path.
func (f File) Base() string {
	return f.Path[baseIndex(f.Path):]
}

// Ext returns the file name extension, including the dot. Names with no
// dot, or only a leading dot such as ".env", have no extension.
func (f File) Ext() string {
	return f.Path[extIndex(f.Path):]
}

func baseIndex(path string) int {
	return strings.LastIndexAny(path, "/"+string(os.PathSeparator)) + 1
}

// extIndex returns the position of the extension in path, or len(path) if
// there's none.
func extIndex(path string) int {
	b := baseIndex(path)
	if dot := strings.LastIndexByte(path[b:], '.'); dot > 0 {
		return b + dot
	}
	return len(path)
}
