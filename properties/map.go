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

// Package properties reads and writes Java style .properties text.
//
// Parsed properties are held in a [Map], which keeps keys in the order they
// were first seen so that serialized output is deterministic.
package properties

import "iter"

// Map is an ordered mapping of property keys to values.
//
// Setting an existing key replaces its value but keeps its original position.
// The zero value is not usable, use [New].
type Map struct {
	keys []string
	vals map[string]string
}

// New returns an empty Map.
func New() *Map {
	return &Map{vals: map[string]string{}}
}

// Set associates value with key.
func (m *Map) Set(key, value string) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

// Get returns the value for key, and whether it was present.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Delete removes key from the map.
func (m *Map) Delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

// All iterates over the key value pairs in insertion order.
func (m *Map) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}
