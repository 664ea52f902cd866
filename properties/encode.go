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
	"bytes"

	javaprops "github.com/magiconair/properties"
	"github.com/pkg/errors"
)

// Encode writes m as UTF-8 .properties text, one "key = value" line per
// entry in insertion order. Parse(Encode(m)) reproduces m.
func Encode(m *Map) ([]byte, error) {
	p := javaprops.NewProperties()
	p.DisableExpansion = true
	for k, v := range m.All() {
		if _, _, err := p.Set(k, v); err != nil {
			return nil, errors.Wrapf(err, "could not encode property %q", k)
		}
	}
	var buf bytes.Buffer
	if _, err := p.Write(&buf, javaprops.UTF8); err != nil {
		return nil, errors.Wrap(err, "could not write properties")
	}
	return buf.Bytes(), nil
}
